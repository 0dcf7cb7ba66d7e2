package stats

import "gorm.io/gorm"

// BattingPerformance is a player's career batting line for one ball type.
// Raw counters are mutated ball by ball; derived figures are recomputed
// after every mutation. HighestScore is a high-water mark and is not
// lowered when a delivery is undone.
type BattingPerformance struct {
	Matches      int     `json:"matches"`
	Innings      int     `json:"innings"`
	Runs         int     `json:"runs"`
	Balls        int     `json:"balls"`
	Fours        int     `json:"fours"`
	Sixes        int     `json:"sixes"`
	Fifties      int     `json:"fifties"`
	Hundreds     int     `json:"hundreds"`
	NotOuts      int     `json:"not_outs"`
	HighestScore int     `json:"highest_score"`
	StrikeRate   float64 `json:"strike_rate"`
	Average      float64 `json:"average"`
}

// BowlingPerformance is a player's career bowling line for one ball type.
// Balls counts legal deliveries; Overs is always derived from it so that
// undoing a delivery restores the exact prior value. BestBowling* is a
// high-water mark and is not lowered when a delivery is undone.
type BowlingPerformance struct {
	Matches            int     `json:"matches"`
	Innings            int     `json:"innings"`
	Balls              int     `json:"balls"`
	Overs              float64 `json:"overs"`
	Runs               int     `json:"runs"`
	Wickets            int     `json:"wickets"`
	BestBowlingWickets int     `json:"best_bowling_wickets"`
	BestBowlingRuns    int     `json:"best_bowling_runs"`
	FiveWicketHauls    int     `json:"five_wicket_hauls"`
	TenWicketHauls     int     `json:"ten_wicket_hauls"`
	Economy            float64 `json:"economy"`
	Average            float64 `json:"average"`
}

// FieldingPerformance accumulates fielding contributions. These are
// annotations recorded by the scorer and are never reversed by an undo.
type FieldingPerformance struct {
	Catches       int `json:"catches"`
	Stumpings     int `json:"stumpings"`
	RunOuts       int `json:"run_outs"`
	RunsSaved     int `json:"runs_saved"`
	RunsMissed    int `json:"runs_missed"`
	CatchesMissed int `json:"catches_missed"`
}

// Performance groups the three disciplines for one ball type.
type Performance struct {
	Batting  BattingPerformance  `json:"batting"`
	Bowling  BowlingPerformance  `json:"bowling"`
	Fielding FieldingPerformance `json:"fielding"`
}

// CareerStats buckets career figures by tournament ball type
// ("white", "red", "pink", "other").
type CareerStats map[string]*Performance

// MatchBatting is a player's batting line within a single match.
type MatchBatting struct {
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	Dismissed  bool    `json:"dismissed"`
	StrikeRate float64 `json:"strike_rate"`
}

// MatchBowling is a player's bowling line within a single match.
type MatchBowling struct {
	Balls   int     `json:"balls"`
	Overs   float64 `json:"overs"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Economy float64 `json:"economy"`
}

// MatchEntry is the per-match slice of a player's record. A discipline
// line is nil until the player first bats or bowls in the match.
type MatchEntry struct {
	MatchID    uint          `json:"match_id"`
	BallType   string        `json:"ball_type"`
	Reconciled bool          `json:"reconciled"`
	Batting    *MatchBatting `json:"batting,omitempty"`
	Bowling    *MatchBowling `json:"bowling,omitempty"`
}

// MatchBreakdown is the ordered list of a player's match entries.
type MatchBreakdown []*MatchEntry

// PlayerStats is the statistics row for one player on one team. Rows are
// created lazily the first time the player faces, bowls or fields a ball.
type PlayerStats struct {
	gorm.Model
	PlayerID uint           `json:"player_id" gorm:"not null;uniqueIndex:idx_player_team_stats"`
	TeamID   uint           `json:"team_id" gorm:"not null;uniqueIndex:idx_player_team_stats"`
	Career   CareerStats    `json:"career" gorm:"serializer:json;type:jsonb"`
	Matches  MatchBreakdown `json:"matches" gorm:"serializer:json;type:jsonb"`
}

// PerformanceFor returns the career bucket for a ball type, creating it
// on first use.
func (ps *PlayerStats) PerformanceFor(ballType string) *Performance {
	if ps.Career == nil {
		ps.Career = make(CareerStats)
	}
	perf, ok := ps.Career[ballType]
	if !ok {
		perf = &Performance{}
		ps.Career[ballType] = perf
	}
	return perf
}

// EntryFor returns the match entry for a match, creating it on first use.
func (ps *PlayerStats) EntryFor(matchID uint, ballType string) *MatchEntry {
	for _, e := range ps.Matches {
		if e.MatchID == matchID {
			return e
		}
	}
	e := &MatchEntry{MatchID: matchID, BallType: ballType}
	ps.Matches = append(ps.Matches, e)
	return e
}

// FindEntry returns the match entry for a match, or nil if the player
// never touched the ball in it.
func (ps *PlayerStats) FindEntry(matchID uint) *MatchEntry {
	for _, e := range ps.Matches {
		if e.MatchID == matchID {
			return e
		}
	}
	return nil
}
