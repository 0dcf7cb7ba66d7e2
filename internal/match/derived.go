package match

// Derived views are stateless folds over a persisted ledger. They are
// recomputed on every read and never stored. An absent ledger produces an
// empty result, not an error.

// ScorecardEntry is one striker's line in the batting scorecard.
type ScorecardEntry struct {
	PlayerID   uint       `json:"player_id"`
	Runs       int        `json:"runs"`
	Balls      int        `json:"balls"`
	Fours      int        `json:"fours"`
	Sixes      int        `json:"sixes"`
	Dismissed  bool       `json:"dismissed"`
	WicketType WicketType `json:"wicket_type,omitempty"`
	StrikeRate float64    `json:"strike_rate"`
}

// BattingScorecard folds the ledger into per-striker batting lines, in
// order of first appearance. Wides do not count as balls faced; a player
// is marked dismissed by any wicket ball naming them as out.
func BattingScorecard(inn *Innings) []ScorecardEntry {
	if inn == nil {
		return []ScorecardEntry{}
	}

	var order []uint
	entries := make(map[uint]*ScorecardEntry)

	get := func(playerID uint) *ScorecardEntry {
		e, ok := entries[playerID]
		if !ok {
			e = &ScorecardEntry{PlayerID: playerID}
			entries[playerID] = e
			order = append(order, playerID)
		}
		return e
	}

	for i := range inn.Balls {
		b := &inn.Balls[i]

		if b.BallType != BallWide {
			e := get(b.StrikerID)
			e.Runs += b.Runs
			e.Balls++
			if b.IsBoundary && b.Runs == 4 {
				e.Fours++
			}
			if b.IsBoundary && b.Runs == 6 {
				e.Sixes++
			}
		}

		if b.IsWicket && b.PlayerOutID != 0 {
			e := get(b.PlayerOutID)
			e.Dismissed = true
			e.WicketType = b.WicketType
		}
	}

	out := make([]ScorecardEntry, 0, len(order))
	for _, playerID := range order {
		e := entries[playerID]
		if e.Balls > 0 {
			e.StrikeRate = float64(e.Runs) / float64(e.Balls) * 100
		}
		out = append(out, *e)
	}
	return out
}

// FallOfWicketEntry records one dismissal with the score at that moment.
type FallOfWicketEntry struct {
	WicketNumber int        `json:"wicket_number"`
	PlayerOutID  uint       `json:"player_out_id"`
	WicketType   WicketType `json:"wicket_type"`
	Score        int        `json:"score"`
	Overs        float64    `json:"overs"`
	BallID       uint       `json:"ball_id"`
}

// FallOfWickets lists every wicket ball in sequence with the running score
// at dismissal.
func FallOfWickets(inn *Innings) []FallOfWicketEntry {
	out := []FallOfWicketEntry{}
	if inn == nil {
		return out
	}

	score := 0
	legal := 0
	for i := range inn.Balls {
		b := &inn.Balls[i]
		score += b.TotalRuns
		if b.IsLegalDelivery() {
			legal++
		}
		if b.IsWicket {
			out = append(out, FallOfWicketEntry{
				WicketNumber: len(out) + 1,
				PlayerOutID:  b.PlayerOutID,
				WicketType:   b.WicketType,
				Score:        score,
				Overs:        OversFromLegalBalls(legal),
				BallID:       b.ID,
			})
		}
	}
	return out
}

// Partnership is a stand between two batters. Batsman2ID is zero until the
// partner is inferred from the ledger (the prior ball's striker, when
// different from the current one).
type Partnership struct {
	Batsman1ID    uint `json:"batsman1_id"`
	Batsman2ID    uint `json:"batsman2_id,omitempty"`
	Runs          int  `json:"runs"`
	Balls         int  `json:"balls"`
	EndedByWicket bool `json:"ended_by_wicket"`
}

// Partnerships folds the ledger into sequential stands. A partnership
// closes when either member is dismissed; the surviving member seeds the
// next one.
func Partnerships(inn *Innings) []Partnership {
	out := []Partnership{}
	if inn == nil || len(inn.Balls) == 0 {
		return out
	}

	cur := &Partnership{}

	addMember := func(playerID uint) {
		if playerID == 0 || playerID == cur.Batsman1ID || playerID == cur.Batsman2ID {
			return
		}
		if cur.Batsman1ID == 0 {
			cur.Batsman1ID = playerID
		} else if cur.Batsman2ID == 0 {
			cur.Batsman2ID = playerID
		}
	}

	for i := range inn.Balls {
		b := &inn.Balls[i]
		addMember(b.StrikerID)

		cur.Runs += b.TotalRuns
		if b.BallType != BallWide {
			cur.Balls++
		}

		if b.IsWicket && (b.PlayerOutID == cur.Batsman1ID || b.PlayerOutID == cur.Batsman2ID) {
			cur.EndedByWicket = true
			out = append(out, *cur)

			survivor := cur.Batsman1ID
			if b.PlayerOutID == cur.Batsman1ID {
				survivor = cur.Batsman2ID
			}
			cur = &Partnership{Batsman1ID: survivor}
		}
	}

	if cur.Balls > 0 || cur.Runs != 0 {
		out = append(out, *cur)
	}
	return out
}

// BattingStatus partitions a roster into the players at the crease, the
// dismissed, and those yet to bat.
type BattingStatus struct {
	Batting  []uint `json:"batting"`
	Out      []uint `json:"out"`
	YetToBat []uint `json:"yet_to_bat"`
}

// ComputeBattingStatus derives the partition from the ledger and the
// current participants.
func ComputeBattingStatus(inn *Innings, roster []uint) BattingStatus {
	status := BattingStatus{Batting: []uint{}, Out: []uint{}, YetToBat: []uint{}}
	if inn == nil {
		status.YetToBat = append(status.YetToBat, roster...)
		return status
	}

	out := make(map[uint]bool)
	for i := range inn.Balls {
		b := &inn.Balls[i]
		if b.IsWicket && b.PlayerOutID != 0 {
			out[b.PlayerOutID] = true
		}
	}

	atCrease := map[uint]bool{}
	if inn.CurrentStrikerID != 0 && !out[inn.CurrentStrikerID] {
		atCrease[inn.CurrentStrikerID] = true
	}
	if inn.CurrentNonStrikerID != 0 && !out[inn.CurrentNonStrikerID] {
		atCrease[inn.CurrentNonStrikerID] = true
	}

	for _, playerID := range roster {
		switch {
		case out[playerID]:
			status.Out = append(status.Out, playerID)
		case atCrease[playerID]:
			status.Batting = append(status.Batting, playerID)
		default:
			status.YetToBat = append(status.YetToBat, playerID)
		}
	}
	return status
}
