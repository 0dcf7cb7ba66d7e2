package stats

// BallEvent is the projector's view of one recorded delivery. The match
// engine builds it from the ledger entry so that applying and reversing
// a ball use the same numbers.
type BallEvent struct {
	MatchID  uint
	BallType string // tournament ball type bucket

	Kind       string // "regular", "wide", "noball", "legbye", "bye"
	BatRuns    int    // runs off the bat
	TotalRuns  int    // signed team delta including extras and penalties
	IsBoundary bool

	StrikerID     uint
	StrikerTeamID uint
	BowlerID      uint
	BowlerTeamID  uint

	WicketTaken       bool
	WicketType        string // "caught", "bowled", "lbw", "stumped", "runout", "hitwicket", "retired"
	CreditedToBowler  bool
	DismissedPlayerID uint
	DismissedTeamID   uint

	FielderID     uint
	FielderTeamID uint
	RunsSaved     int
	RunsMissed    int
	CatchMissed   bool
}

const (
	KindRegular = "regular"
	KindWide    = "wide"
	KindNoBall  = "noball"
	KindLegBye  = "legbye"
	KindBye     = "bye"
)

func oversFromBalls(balls int) float64 {
	return float64(balls/6) + float64(balls%6)/10
}

func recomputeBatting(b *BattingPerformance) {
	if b.Balls > 0 {
		b.StrikeRate = float64(b.Runs) / float64(b.Balls) * 100
	} else {
		b.StrikeRate = 0
	}
	if b.Innings > 0 {
		b.Average = float64(b.Runs) / float64(b.Innings)
	} else {
		b.Average = 0
	}
}

func recomputeBowling(bw *BowlingPerformance) {
	bw.Overs = oversFromBalls(bw.Balls)
	bw.FiveWicketHauls = bw.Wickets / 5
	bw.TenWicketHauls = bw.Wickets / 10
	if bw.Overs > 0 {
		bw.Economy = float64(bw.Runs) / bw.Overs
	} else {
		bw.Economy = 0
	}
	if bw.Wickets > 0 {
		bw.Average = float64(bw.Runs) / float64(bw.Wickets)
	} else {
		bw.Average = 0
	}
}

func recomputeMatchBatting(mb *MatchBatting) {
	if mb.Balls > 0 {
		mb.StrikeRate = float64(mb.Runs) / float64(mb.Balls) * 100
	} else {
		mb.StrikeRate = 0
	}
}

func recomputeMatchBowling(mb *MatchBowling) {
	mb.Overs = oversFromBalls(mb.Balls)
	if mb.Overs > 0 {
		mb.Economy = float64(mb.Runs) / mb.Overs
	} else {
		mb.Economy = 0
	}
}

// ApplyBatting projects a delivery onto the striker's record. Wides do
// not count as a ball faced and leave the batter untouched.
func ApplyBatting(ps *PlayerStats, evt BallEvent) {
	if evt.Kind == KindWide {
		return
	}

	perf := ps.PerformanceFor(evt.BallType)
	entry := ps.EntryFor(evt.MatchID, evt.BallType)
	if entry.Batting == nil {
		entry.Batting = &MatchBatting{}
	}

	perf.Batting.Runs += evt.BatRuns
	perf.Batting.Balls++
	entry.Batting.Runs += evt.BatRuns
	entry.Batting.Balls++

	if evt.IsBoundary && evt.BatRuns == 4 {
		perf.Batting.Fours++
		entry.Batting.Fours++
	}
	if evt.IsBoundary && evt.BatRuns == 6 {
		perf.Batting.Sixes++
		entry.Batting.Sixes++
	}

	if entry.Batting.Runs > perf.Batting.HighestScore {
		perf.Batting.HighestScore = entry.Batting.Runs
	}

	if evt.WicketTaken && evt.DismissedPlayerID == ps.PlayerID {
		entry.Batting.Dismissed = true
	}

	recomputeBatting(&perf.Batting)
	recomputeMatchBatting(entry.Batting)
}

// ReverseBatting undoes ApplyBatting for the same event. HighestScore is
// a high-water mark and is left as-is.
func ReverseBatting(ps *PlayerStats, evt BallEvent) {
	if evt.Kind == KindWide {
		return
	}

	entry := ps.FindEntry(evt.MatchID)
	if entry == nil || entry.Batting == nil {
		return
	}
	perf := ps.PerformanceFor(evt.BallType)

	perf.Batting.Runs -= evt.BatRuns
	perf.Batting.Balls--
	entry.Batting.Runs -= evt.BatRuns
	entry.Batting.Balls--

	if evt.IsBoundary && evt.BatRuns == 4 {
		perf.Batting.Fours--
		entry.Batting.Fours--
	}
	if evt.IsBoundary && evt.BatRuns == 6 {
		perf.Batting.Sixes--
		entry.Batting.Sixes--
	}

	if evt.WicketTaken && evt.DismissedPlayerID == ps.PlayerID {
		entry.Batting.Dismissed = false
	}

	recomputeBatting(&perf.Batting)
	recomputeMatchBatting(entry.Batting)
}

// ApplyDismissal marks a non-striker dismissal (run out at the bowler's
// end) on the dismissed player's match entry.
func ApplyDismissal(ps *PlayerStats, evt BallEvent) {
	entry := ps.EntryFor(evt.MatchID, evt.BallType)
	if entry.Batting == nil {
		entry.Batting = &MatchBatting{}
	}
	entry.Batting.Dismissed = true
}

// ReverseDismissal undoes ApplyDismissal.
func ReverseDismissal(ps *PlayerStats, evt BallEvent) {
	entry := ps.FindEntry(evt.MatchID)
	if entry == nil || entry.Batting == nil {
		return
	}
	entry.Batting.Dismissed = false
}

// ApplyBowling projects a delivery onto the bowler's record. All runs off
// the delivery are charged to the bowler; only regular deliveries advance
// the over count.
func ApplyBowling(ps *PlayerStats, evt BallEvent) {
	perf := ps.PerformanceFor(evt.BallType)
	entry := ps.EntryFor(evt.MatchID, evt.BallType)
	if entry.Bowling == nil {
		entry.Bowling = &MatchBowling{}
	}

	perf.Bowling.Runs += evt.TotalRuns
	entry.Bowling.Runs += evt.TotalRuns

	if evt.Kind == KindRegular {
		perf.Bowling.Balls++
		entry.Bowling.Balls++
	}

	if evt.WicketTaken && evt.CreditedToBowler {
		perf.Bowling.Wickets++
		entry.Bowling.Wickets++
	}

	if entry.Bowling.Wickets > perf.Bowling.BestBowlingWickets ||
		(entry.Bowling.Wickets > 0 &&
			entry.Bowling.Wickets == perf.Bowling.BestBowlingWickets &&
			entry.Bowling.Runs < perf.Bowling.BestBowlingRuns) {
		perf.Bowling.BestBowlingWickets = entry.Bowling.Wickets
		perf.Bowling.BestBowlingRuns = entry.Bowling.Runs
	}

	recomputeBowling(&perf.Bowling)
	recomputeMatchBowling(entry.Bowling)
}

// ReverseBowling undoes ApplyBowling for the same event. BestBowling is a
// high-water mark and is left as-is.
func ReverseBowling(ps *PlayerStats, evt BallEvent) {
	entry := ps.FindEntry(evt.MatchID)
	if entry == nil || entry.Bowling == nil {
		return
	}
	perf := ps.PerformanceFor(evt.BallType)

	perf.Bowling.Runs -= evt.TotalRuns
	entry.Bowling.Runs -= evt.TotalRuns

	if evt.Kind == KindRegular {
		perf.Bowling.Balls--
		entry.Bowling.Balls--
	}

	if evt.WicketTaken && evt.CreditedToBowler {
		perf.Bowling.Wickets--
		entry.Bowling.Wickets--
	}

	recomputeBowling(&perf.Bowling)
	recomputeMatchBowling(entry.Bowling)
}

// ApplyFielding records a fielding contribution. Fielding annotations are
// scorer observations, not ledger facts, so they are never reversed.
func ApplyFielding(ps *PlayerStats, evt BallEvent) {
	perf := ps.PerformanceFor(evt.BallType)
	ps.EntryFor(evt.MatchID, evt.BallType)

	perf.Fielding.RunsSaved += evt.RunsSaved
	perf.Fielding.RunsMissed += evt.RunsMissed
	if evt.CatchMissed {
		perf.Fielding.CatchesMissed++
	}

	if evt.WicketTaken {
		switch evt.WicketType {
		case "caught":
			perf.Fielding.Catches++
		case "stumped":
			perf.Fielding.Stumpings++
		case "runout":
			perf.Fielding.RunOuts++
		}
	}
}

// ReconcileEntry rolls a player's match entry into their career aggregates
// once the match completes. It is idempotent: an already reconciled entry
// is skipped. Returns whether anything changed.
func ReconcileEntry(ps *PlayerStats, matchID uint) bool {
	entry := ps.FindEntry(matchID)
	if entry == nil || entry.Reconciled {
		return false
	}
	perf := ps.PerformanceFor(entry.BallType)

	if entry.Batting != nil {
		perf.Batting.Matches++
		perf.Batting.Innings++
		perf.Batting.Fifties += entry.Batting.Runs / 50
		perf.Batting.Hundreds += entry.Batting.Runs / 100
		if !entry.Batting.Dismissed {
			perf.Batting.NotOuts++
		}
		recomputeBatting(&perf.Batting)
	}

	if entry.Bowling != nil {
		perf.Bowling.Matches++
		perf.Bowling.Innings++
		recomputeBowling(&perf.Bowling)
	}

	entry.Reconciled = true
	return true
}

// Projector loads, mutates and persists the stats rows touched by a
// delivery. It must be used inside the same transaction that writes the
// ball to the ledger.
type Projector struct {
	repo StatsRepository
}

func NewProjector(repo StatsRepository) *Projector {
	return &Projector{repo: repo}
}

// ApplyBall projects a delivery onto every player it touches.
func (p *Projector) ApplyBall(evt BallEvent) error {
	if evt.StrikerID != 0 && evt.Kind != KindWide {
		striker, err := p.repo.GetOrCreate(evt.StrikerID, evt.StrikerTeamID)
		if err != nil {
			return err
		}
		ApplyBatting(striker, evt)
		if err := p.repo.Save(striker); err != nil {
			return err
		}
	}

	if evt.WicketTaken && evt.DismissedPlayerID != 0 && evt.DismissedPlayerID != evt.StrikerID {
		dismissed, err := p.repo.GetOrCreate(evt.DismissedPlayerID, evt.DismissedTeamID)
		if err != nil {
			return err
		}
		ApplyDismissal(dismissed, evt)
		if err := p.repo.Save(dismissed); err != nil {
			return err
		}
	}

	if evt.BowlerID != 0 {
		bowler, err := p.repo.GetOrCreate(evt.BowlerID, evt.BowlerTeamID)
		if err != nil {
			return err
		}
		ApplyBowling(bowler, evt)
		if err := p.repo.Save(bowler); err != nil {
			return err
		}
	}

	if evt.FielderID != 0 {
		fielder, err := p.repo.GetOrCreate(evt.FielderID, evt.FielderTeamID)
		if err != nil {
			return err
		}
		ApplyFielding(fielder, evt)
		if err := p.repo.Save(fielder); err != nil {
			return err
		}
	}

	return nil
}

// ReverseBall undoes ApplyBall for the same delivery. Fielding annotations
// and high-water marks are preserved.
func (p *Projector) ReverseBall(evt BallEvent) error {
	if evt.StrikerID != 0 && evt.Kind != KindWide {
		striker, err := p.repo.GetOrCreate(evt.StrikerID, evt.StrikerTeamID)
		if err != nil {
			return err
		}
		ReverseBatting(striker, evt)
		if err := p.repo.Save(striker); err != nil {
			return err
		}
	}

	if evt.WicketTaken && evt.DismissedPlayerID != 0 && evt.DismissedPlayerID != evt.StrikerID {
		dismissed, err := p.repo.GetOrCreate(evt.DismissedPlayerID, evt.DismissedTeamID)
		if err != nil {
			return err
		}
		ReverseDismissal(dismissed, evt)
		if err := p.repo.Save(dismissed); err != nil {
			return err
		}
	}

	if evt.BowlerID != 0 {
		bowler, err := p.repo.GetOrCreate(evt.BowlerID, evt.BowlerTeamID)
		if err != nil {
			return err
		}
		ReverseBowling(bowler, evt)
		if err := p.repo.Save(bowler); err != nil {
			return err
		}
	}

	return nil
}

// PlayerTeam identifies one stats row.
type PlayerTeam struct {
	PlayerID uint
	TeamID   uint
}

// ReconcilePlayers rolls match entries into career aggregates for every
// participant of a completed match.
func (p *Projector) ReconcilePlayers(matchID uint, participants []PlayerTeam) error {
	seen := make(map[PlayerTeam]bool, len(participants))
	for _, pt := range participants {
		if pt.PlayerID == 0 || seen[pt] {
			continue
		}
		seen[pt] = true

		ps, err := p.repo.GetOrCreate(pt.PlayerID, pt.TeamID)
		if err != nil {
			return err
		}
		if ReconcileEntry(ps, matchID) {
			if err := p.repo.Save(ps); err != nil {
				return err
			}
		}
	}
	return nil
}
