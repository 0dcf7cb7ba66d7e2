package match

import (
	"errors"
	"fmt"
	"time"
)

// Engine errors. Controllers map these onto the HTTP taxonomy:
// not-found 404, invalid-argument 400, conflict 409.
var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrNoDeliveries           = errors.New("no deliveries to undo")
	ErrBallNotFound           = errors.New("ball not found")
	ErrInningsNotFound        = errors.New("innings not found")
	ErrInningsAlreadyComplete = errors.New("innings is already complete")
	ErrFirstInningsIncomplete = errors.New("first innings is not complete")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrNoActionSpecified      = errors.New("no action specified")
	ErrInvalidToss            = errors.New("toss winner must be one of the match teams")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrTeamsUnresolved        = errors.New("match teams are not resolved yet")
)

// OversFromLegalBalls converts a legal-delivery count into cricket overs
// notation: the integer part is completed overs, the fractional digit is
// legal balls bowled in the current over (0-5).
func OversFromLegalBalls(n int) float64 {
	return float64(n/6) + float64(n%6)/10
}

// LegalBalls counts the ledger entries that consume a legal delivery.
func (inn *Innings) LegalBalls() int {
	count := 0
	for i := range inn.Balls {
		if inn.Balls[i].IsLegalDelivery() {
			count++
		}
	}
	return count
}

// LedgerRuns is the signed sum of ledger deltas plus manual corrections.
// Innings.TotalRuns must always equal this value.
func (inn *Innings) LedgerRuns() int {
	total := 0
	for i := range inn.Balls {
		total += inn.Balls[i].TotalRuns
	}
	for i := range inn.HistoryLogs {
		total += inn.HistoryLogs[i].Runs
	}
	return total
}

// signedTotal computes the team-score delta of a delivery.
func signedTotal(runs, extraRuns, bonusRuns int, negative bool) int {
	total := runs + extraRuns + bonusRuns
	if negative {
		return -total
	}
	return total
}

func validBallType(bt BallType) bool {
	switch bt {
	case BallRegular, BallWide, BallNoBall, BallLegBye, BallBye:
		return true
	}
	return false
}

func validWicketType(wt WicketType) bool {
	switch wt {
	case WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped, WicketHitWicket, WicketRetired:
		return true
	}
	return false
}

// BallInput is the validated scorer input for one delivery.
type BallInput struct {
	OverNumber     int
	BallNumber     int
	Runs           int
	ExtraRuns      int
	BonusRuns      int
	IsNegativeRuns bool
	Commentary     string
	StrikerID      uint
	BowlerID       uint
	BallType       BallType
	IsBoundary     bool

	IsWicket    bool
	WicketType  WicketType
	PlayerOutID uint

	FielderID         uint
	RunsSaved         int
	RunsMissed        int
	CatchMissed       bool
	FieldingHighlight string
}

// Validate checks the scorer input against the append contract.
func (in *BallInput) Validate() error {
	if in.OverNumber < 0 || in.BallNumber < 1 {
		return fmt.Errorf("%w: over and ball numbers are required", ErrInvalidArgument)
	}
	if in.StrikerID == 0 || in.BowlerID == 0 {
		return fmt.Errorf("%w: striker and bowler are required", ErrInvalidArgument)
	}
	if in.Commentary == "" {
		return fmt.Errorf("%w: commentary is required", ErrInvalidArgument)
	}
	if in.Runs < 0 || in.ExtraRuns < 0 || in.BonusRuns < 0 {
		return fmt.Errorf("%w: run components must be non-negative", ErrInvalidArgument)
	}
	if in.BallType != "" && !validBallType(in.BallType) {
		return fmt.Errorf("%w: unknown ball type %q", ErrInvalidArgument, in.BallType)
	}
	if in.IsWicket {
		if in.WicketType == "" || in.PlayerOutID == 0 {
			return fmt.Errorf("%w: wicket requires wicket type and player out", ErrInvalidArgument)
		}
		if !validWicketType(in.WicketType) {
			return fmt.Errorf("%w: unknown wicket type %q", ErrInvalidArgument, in.WicketType)
		}
	}
	return nil
}

// AppendResult reports what happened to the innings as a consequence of
// one delivery, so the caller knows which events to broadcast.
type AppendResult struct {
	Ball             *Ball
	OverComplete     bool
	InningsComplete  bool
	EnteredFinalOver bool
}

// AppendBall validates and appends a delivery to the ledger, updates the
// innings totals, recomputes overs from the ledger and evaluates
// completion against maxOvers.
func (inn *Innings) AppendBall(in BallInput, maxOvers float64) (*AppendResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if inn.IsComplete {
		return nil, ErrInningsAlreadyComplete
	}

	ballType := in.BallType
	if ballType == "" {
		ballType = BallRegular
	}

	inn.NextBallID++
	ball := Ball{
		ID:                inn.NextBallID,
		OverNumber:        in.OverNumber,
		BallNumber:        in.BallNumber,
		BallType:          ballType,
		Runs:              in.Runs,
		ExtraRuns:         in.ExtraRuns,
		BonusRuns:         in.BonusRuns,
		IsNegativeRuns:    in.IsNegativeRuns,
		TotalRuns:         signedTotal(in.Runs, in.ExtraRuns, in.BonusRuns, in.IsNegativeRuns),
		IsBoundary:        in.IsBoundary || in.Runs == 4 || in.Runs == 6,
		IsExtra:           ballType != BallRegular,
		IsWicket:          in.IsWicket,
		WicketType:        in.WicketType,
		PlayerOutID:       in.PlayerOutID,
		StrikerID:         in.StrikerID,
		BowlerID:          in.BowlerID,
		FielderID:         in.FielderID,
		RunsSaved:         in.RunsSaved,
		RunsMissed:        in.RunsMissed,
		CatchMissed:       in.CatchMissed,
		FieldingHighlight: in.FieldingHighlight,
		Commentary:        in.Commentary,
		Timestamp:         time.Now().UTC(),
	}

	inn.Balls = append(inn.Balls, ball)
	inn.TotalRuns += ball.TotalRuns
	if ball.IsWicket {
		inn.Wickets++
	}
	inn.Overs = OversFromLegalBalls(inn.LegalBalls())

	res := &AppendResult{Ball: &inn.Balls[len(inn.Balls)-1]}

	if ball.BallType == BallRegular && ball.BallNumber == 6 {
		res.OverComplete = true
	}

	if maxOvers > 0 && !inn.IsFinalOver && inn.Overs >= maxOvers-1 {
		inn.IsFinalOver = true
		res.EnteredFinalOver = true
	}

	if (maxOvers > 0 && inn.Overs >= maxOvers) || inn.Wickets >= 10 {
		inn.IsComplete = true
		res.InningsComplete = true
	}

	return res, nil
}

// UndoResult reports the consequences of removing the last delivery.
type UndoResult struct {
	Ball               *Ball
	CompletionReverted bool
}

// UndoBall removes the most recent ledger entry, reverses the totals it
// applied and re-evaluates completion, which may flip back to false.
func (inn *Innings) UndoBall(maxOvers float64) (*UndoResult, error) {
	if len(inn.Balls) == 0 {
		return nil, ErrNoDeliveries
	}

	last := inn.Balls[len(inn.Balls)-1]
	inn.Balls = inn.Balls[:len(inn.Balls)-1]

	inn.TotalRuns -= last.TotalRuns
	if last.IsWicket {
		inn.Wickets--
	}
	inn.Overs = OversFromLegalBalls(inn.LegalBalls())

	res := &UndoResult{Ball: &last}

	stillComplete := (maxOvers > 0 && inn.Overs >= maxOvers) || inn.Wickets >= 10
	if inn.IsComplete && !stillComplete && inn.DeclarationInfo == nil && inn.OversReductionInfo == nil {
		inn.IsComplete = false
		res.CompletionReverted = true
	}

	if maxOvers > 0 && inn.IsFinalOver && inn.Overs < maxOvers-1 {
		inn.IsFinalOver = false
	}

	return res, nil
}

// FindBall returns the ledger entry with the given id.
func (inn *Innings) FindBall(ballID uint) *Ball {
	for i := range inn.Balls {
		if inn.Balls[i].ID == ballID {
			return &inn.Balls[i]
		}
	}
	return nil
}

// ApplyCorrection appends a signed run adjustment to the innings history
// log and applies it to the total. The ledger entry itself is untouched.
func (inn *Innings) ApplyCorrection(ballID uint, runs int, reason string) {
	inn.HistoryLogs = append(inn.HistoryLogs, HistoryLog{
		BallID:    ballID,
		Runs:      runs,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	inn.TotalRuns += runs
}

// ApplyToss assigns both innings' teams from the toss. Re-invoking
// overwrites the assignment; there is no re-toss guard.
func (m *Match) ApplyToss(winnerTeamID uint, decision string) error {
	if m.TeamAID == nil || m.TeamBID == nil {
		return ErrTeamsUnresolved
	}
	if winnerTeamID != *m.TeamAID && winnerTeamID != *m.TeamBID {
		return ErrInvalidToss
	}
	if decision != DecisionBatting && decision != DecisionBowling {
		return fmt.Errorf("%w: toss decision must be batting or bowling", ErrInvalidArgument)
	}

	other := *m.TeamAID
	if winnerTeamID == *m.TeamAID {
		other = *m.TeamBID
	}

	battingFirst := winnerTeamID
	if decision == DecisionBowling {
		battingFirst = other
	}
	bowlingFirst := other
	if battingFirst == other {
		bowlingFirst = winnerTeamID
	}

	first := m.InningsByNumber(1)
	second := m.InningsByNumber(2)
	first.BattingTeamID = battingFirst
	first.BowlingTeamID = bowlingFirst
	second.BattingTeamID = bowlingFirst
	second.BowlingTeamID = battingFirst

	m.TossWinnerID = &winnerTeamID
	m.TossDecision = decision
	return nil
}

// CanTransitionTo validates a status change against the state machine.
func (m *Match) CanTransitionTo(next MatchStatus) error {
	if m.Status == StatusCompleted || m.Status == StatusAbandoned {
		return fmt.Errorf("%w: match is %s", ErrInvalidTransition, m.Status)
	}

	switch next {
	case StatusLive:
		if m.Status != StatusScheduled && m.Status != StatusPaused && m.Status != StatusDelayed {
			return fmt.Errorf("%w: cannot go live from %s", ErrInvalidTransition, m.Status)
		}
	case StatusCompleted:
		if m.FirstInnings == nil || !m.FirstInnings.IsComplete {
			return ErrFirstInningsIncomplete
		}
	case StatusPaused, StatusDelayed, StatusAbandoned, StatusScheduled:
		// always reachable from a non-terminal state
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, next)
	}
	return nil
}

// Target is the score the chasing side must reach: the DLS revision when
// applied, else one more than the first-innings total.
func (m *Match) Target() int {
	if m.DLS != nil && m.DLS.IsApplied {
		return m.DLS.RevisedTarget
	}
	if m.FirstInnings == nil {
		return 1
	}
	return m.FirstInnings.TotalRuns + 1
}

// ComputeResult decides the winner and margin once the match completes.
// A nil winner with empty margin means no second innings was played; a nil
// winner with margin "tie" is an exact tie.
func (m *Match) ComputeResult() (winnerID *uint, margin string) {
	if m.SecondInnings == nil || m.FirstInnings == nil {
		return nil, ""
	}

	target := m.Target()
	secondRuns := m.SecondInnings.TotalRuns

	switch {
	case secondRuns >= target:
		winner := m.SecondInnings.BattingTeamID
		return &winner, fmt.Sprintf("%d wickets", 10-m.SecondInnings.Wickets)
	case secondRuns == target-1:
		return nil, "tie"
	default:
		winner := m.FirstInnings.BattingTeamID
		return &winner, fmt.Sprintf("%d runs", target-1-secondRuns)
	}
}

// EffectiveOvers is the overs-per-innings value currently in force,
// chaining from the latest revision.
func (m *Match) EffectiveOvers() float64 {
	if n := len(m.OversChangeHistory); n > 0 {
		return m.OversChangeHistory[n-1].NewOvers
	}
	return m.MaxOvers()
}

// ChangeOvers records an overs revision and force-completes any in-progress
// innings already at or past the new limit. Returns the innings numbers it
// completed.
func (m *Match) ChangeOvers(newOvers float64, reason, commentary string) ([]int, error) {
	if newOvers <= 0 {
		return nil, fmt.Errorf("%w: new overs must be positive", ErrInvalidArgument)
	}

	m.OversChangeHistory = append(m.OversChangeHistory, OversChange{
		PreviousOvers: m.EffectiveOvers(),
		NewOvers:      newOvers,
		Reason:        reason,
		Commentary:    commentary,
		Timestamp:     time.Now().UTC(),
	})
	m.CurrentOversPerInnings = &newOvers

	var completed []int
	for i, inn := range []*Innings{m.FirstInnings, m.SecondInnings} {
		if inn == nil || inn.IsComplete {
			continue
		}
		if newOvers <= inn.Overs {
			inn.IsComplete = true
			inn.OversReductionInfo = &OversReductionInfo{
				ReducedTo:  newOvers,
				Reason:     reason,
				OccurredAt: time.Now().UTC(),
			}
			completed = append(completed, i+1)
		}
	}
	return completed, nil
}

// EndInnings closes an innings explicitly (declaration or umpire call).
func (inn *Innings) EndInnings(declared bool, commentary string) error {
	if inn.IsComplete {
		return ErrInningsAlreadyComplete
	}
	inn.IsComplete = true
	if declared {
		inn.DeclarationInfo = &DeclarationInfo{
			DeclaredAt: time.Now().UTC(),
			Commentary: commentary,
		}
	}
	return nil
}

// participants lists every (player, team) pair that touched the ball in
// both innings, for the completion-time statistics pass.
func (m *Match) participants() []participant {
	var out []participant
	for _, inn := range []*Innings{m.FirstInnings, m.SecondInnings} {
		if inn == nil {
			continue
		}
		for i := range inn.Balls {
			b := &inn.Balls[i]
			out = append(out,
				participant{b.StrikerID, inn.BattingTeamID},
				participant{b.BowlerID, inn.BowlingTeamID},
			)
			if b.PlayerOutID != 0 {
				out = append(out, participant{b.PlayerOutID, inn.BattingTeamID})
			}
			if b.FielderID != 0 {
				out = append(out, participant{b.FielderID, inn.BowlingTeamID})
			}
		}
	}
	return out
}

type participant struct {
	PlayerID uint
	TeamID   uint
}
