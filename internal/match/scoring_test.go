package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legalBall(over, ballNum, runs int) BallInput {
	return BallInput{
		OverNumber: over,
		BallNumber: ballNum,
		Runs:       runs,
		Commentary: fmt.Sprintf("%d runs", runs),
		StrikerID:  1,
		BowlerID:   2,
		BallType:   BallRegular,
	}
}

func wicketBall(over, ballNum int, playerOut uint) BallInput {
	in := legalBall(over, ballNum, 0)
	in.Commentary = "wicket"
	in.IsWicket = true
	in.WicketType = WicketBowled
	in.PlayerOutID = playerOut
	return in
}

func TestOversEncoding(t *testing.T) {
	tests := []struct {
		legalBalls int
		want       float64
	}{
		{0, 0.0},
		{1, 0.1},
		{5, 0.5},
		{6, 1.0},
		{7, 1.1},
		{11, 1.5},
		{12, 2.0},
		{119, 19.5},
		{120, 20.0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d balls", tt.legalBalls), func(t *testing.T) {
			assert.InDelta(t, tt.want, OversFromLegalBalls(tt.legalBalls), 0.0001)
		})
	}
}

func TestAppendBallUpdatesInnings(t *testing.T) {
	inn := &Innings{}

	res, err := inn.AppendBall(legalBall(0, 1, 1), 20)
	require.NoError(t, err)
	assert.False(t, res.OverComplete)

	four := legalBall(0, 2, 4)
	four.IsBoundary = true
	_, err = inn.AppendBall(four, 20)
	require.NoError(t, err)

	res, err = inn.AppendBall(wicketBall(0, 3, 1), 20)
	require.NoError(t, err)
	assert.False(t, res.InningsComplete)

	assert.Equal(t, 5, inn.TotalRuns)
	assert.Equal(t, 1, inn.Wickets)
	assert.InDelta(t, 0.3, inn.Overs, 0.0001)
}

func TestUndoWicketBallRestoresScore(t *testing.T) {
	inn := &Innings{}

	_, err := inn.AppendBall(legalBall(0, 1, 1), 20)
	require.NoError(t, err)
	_, err = inn.AppendBall(legalBall(0, 2, 4), 20)
	require.NoError(t, err)
	_, err = inn.AppendBall(wicketBall(0, 3, 1), 20)
	require.NoError(t, err)

	res, err := inn.UndoBall(20)
	require.NoError(t, err)
	assert.True(t, res.Ball.IsWicket)

	assert.Equal(t, 5, inn.TotalRuns)
	assert.Equal(t, 0, inn.Wickets)
	assert.InDelta(t, 0.2, inn.Overs, 0.0001)
}

func TestAppendThenUndoIsExactInverse(t *testing.T) {
	inn := &Innings{}

	_, err := inn.AppendBall(legalBall(0, 1, 2), 20)
	require.NoError(t, err)

	before := *inn
	beforeBalls := len(inn.Balls)

	inputs := []BallInput{
		legalBall(0, 2, 1),
		{OverNumber: 0, BallNumber: 2, ExtraRuns: 1, Commentary: "wide", StrikerID: 1, BowlerID: 2, BallType: BallWide},
		wicketBall(0, 3, 1),
		{OverNumber: 0, BallNumber: 4, Runs: 2, BonusRuns: 1, Commentary: "overthrow", StrikerID: 3, BowlerID: 2, BallType: BallRegular},
	}
	for _, in := range inputs {
		_, err := inn.AppendBall(in, 20)
		require.NoError(t, err)
	}
	for range inputs {
		_, err := inn.UndoBall(20)
		require.NoError(t, err)
	}

	assert.Equal(t, before.TotalRuns, inn.TotalRuns)
	assert.Equal(t, before.Wickets, inn.Wickets)
	assert.InDelta(t, before.Overs, inn.Overs, 0.0001)
	assert.Equal(t, before.IsComplete, inn.IsComplete)
	assert.Len(t, inn.Balls, beforeBalls)
}

func TestUndoOnEmptyLedgerFails(t *testing.T) {
	inn := &Innings{}
	_, err := inn.UndoBall(20)
	assert.ErrorIs(t, err, ErrNoDeliveries)
}

func TestTenWicketsCompletesInningsRegardlessOfOvers(t *testing.T) {
	inn := &Innings{}

	for i := 0; i < 10; i++ {
		res, err := inn.AppendBall(wicketBall(i/6, i%6+1, uint(i+1)), 50)
		require.NoError(t, err)
		if i == 9 {
			assert.True(t, res.InningsComplete)
		}
	}

	assert.Equal(t, 10, inn.Wickets)
	assert.True(t, inn.IsComplete)
	assert.Less(t, inn.Overs, 50.0)
}

func TestUndoTenthWicketRevertsCompletion(t *testing.T) {
	inn := &Innings{}
	for i := 0; i < 10; i++ {
		_, err := inn.AppendBall(wicketBall(i/6, i%6+1, uint(i+1)), 50)
		require.NoError(t, err)
	}
	require.True(t, inn.IsComplete)

	res, err := inn.UndoBall(50)
	require.NoError(t, err)

	assert.True(t, res.CompletionReverted)
	assert.False(t, inn.IsComplete)
	assert.Equal(t, 9, inn.Wickets)
}

func TestAppendAfterCompletionFails(t *testing.T) {
	inn := &Innings{}
	for i := 0; i < 6; i++ {
		_, err := inn.AppendBall(legalBall(0, i+1, 0), 1)
		require.NoError(t, err)
	}
	require.True(t, inn.IsComplete)

	_, err := inn.AppendBall(legalBall(1, 1, 0), 1)
	assert.ErrorIs(t, err, ErrInningsAlreadyComplete)
}

func TestFinalOverFlagSetOnEnteringLastOver(t *testing.T) {
	inn := &Innings{}
	var entered bool
	for i := 0; i < 6; i++ {
		res, err := inn.AppendBall(legalBall(0, i+1, 0), 2)
		require.NoError(t, err)
		if res.EnteredFinalOver {
			entered = true
		}
	}

	assert.True(t, entered)
	assert.True(t, inn.IsFinalOver)
	assert.False(t, inn.IsComplete)
}

func TestWicketRequiresTypeAndPlayerOut(t *testing.T) {
	inn := &Innings{}

	in := legalBall(0, 1, 0)
	in.IsWicket = true
	_, err := inn.AppendBall(in, 20)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNegativeRunsCorrectionBall(t *testing.T) {
	inn := &Innings{}
	_, err := inn.AppendBall(legalBall(0, 1, 4), 20)
	require.NoError(t, err)

	in := BallInput{
		OverNumber:     0,
		BallNumber:     2,
		BonusRuns:      2,
		IsNegativeRuns: true,
		Commentary:     "penalty reversed",
		StrikerID:      1,
		BowlerID:       2,
		BallType:       BallRegular,
	}
	_, err = inn.AppendBall(in, 20)
	require.NoError(t, err)

	assert.Equal(t, 2, inn.TotalRuns)
	assert.Equal(t, inn.LedgerRuns(), inn.TotalRuns)
}

func TestApplyCorrectionKeepsLedgerInvariant(t *testing.T) {
	inn := &Innings{}
	_, err := inn.AppendBall(legalBall(0, 1, 3), 20)
	require.NoError(t, err)

	inn.ApplyCorrection(1, 2, "scoring error")
	inn.ApplyCorrection(1, -1, "over-correction")

	assert.Equal(t, 4, inn.TotalRuns)
	assert.Equal(t, inn.LedgerRuns(), inn.TotalRuns)
	assert.Len(t, inn.HistoryLogs, 2)
}

func uintPtr(v uint) *uint { return &v }

func newTossMatch() *Match {
	return &Match{
		TeamAID: uintPtr(11),
		TeamBID: uintPtr(22),
		Status:  StatusScheduled,
	}
}

func TestApplyTossAssignsInverseInnings(t *testing.T) {
	m := newTossMatch()

	require.NoError(t, m.ApplyToss(22, DecisionBowling))

	// winner bowls, so team A bats first
	assert.Equal(t, uint(11), m.FirstInnings.BattingTeamID)
	assert.Equal(t, uint(22), m.FirstInnings.BowlingTeamID)
	assert.Equal(t, uint(22), m.SecondInnings.BattingTeamID)
	assert.Equal(t, uint(11), m.SecondInnings.BowlingTeamID)
}

func TestApplyTossRejectsOutsideTeam(t *testing.T) {
	m := newTossMatch()
	assert.ErrorIs(t, m.ApplyToss(99, DecisionBatting), ErrInvalidToss)
}

func TestApplyTossRejectsUnresolvedTeams(t *testing.T) {
	m := &Match{TeamAID: uintPtr(11)}
	assert.ErrorIs(t, m.ApplyToss(11, DecisionBatting), ErrTeamsUnresolved)
}

func TestReTossOverwritesAssignment(t *testing.T) {
	m := newTossMatch()
	require.NoError(t, m.ApplyToss(11, DecisionBatting))
	require.NoError(t, m.ApplyToss(22, DecisionBatting))

	assert.Equal(t, uint(22), m.FirstInnings.BattingTeamID)
	assert.Equal(t, uint(22), *m.TossWinnerID)
}

func TestTransitionRules(t *testing.T) {
	tests := []struct {
		name    string
		from    MatchStatus
		to      MatchStatus
		wantErr error
	}{
		{"scheduled to live", StatusScheduled, StatusLive, nil},
		{"paused to live", StatusPaused, StatusLive, nil},
		{"delayed to live", StatusDelayed, StatusLive, nil},
		{"completed is terminal", StatusCompleted, StatusLive, ErrInvalidTransition},
		{"abandoned is terminal", StatusAbandoned, StatusPaused, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTossMatch()
			m.Status = tt.from
			err := m.CanTransitionTo(tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompleteBeforeFirstInningsIsConflict(t *testing.T) {
	m := newTossMatch()
	m.Status = StatusLive
	m.FirstInnings = &Innings{IsComplete: false}

	assert.ErrorIs(t, m.CanTransitionTo(StatusCompleted), ErrFirstInningsIncomplete)
}

func TestComputeResultChaseWinMargin(t *testing.T) {
	m := newTossMatch()
	m.FirstInnings = &Innings{BattingTeamID: 11, TotalRuns: 150, IsComplete: true}
	m.SecondInnings = &Innings{BattingTeamID: 22, TotalRuns: 151, Wickets: 3, IsComplete: true}

	winner, margin := m.ComputeResult()
	require.NotNil(t, winner)
	assert.Equal(t, uint(22), *winner)
	assert.Equal(t, "7 wickets", margin)
}

func TestComputeResultDefendWinMargin(t *testing.T) {
	m := newTossMatch()
	m.FirstInnings = &Innings{BattingTeamID: 11, TotalRuns: 150, IsComplete: true}
	m.SecondInnings = &Innings{BattingTeamID: 22, TotalRuns: 135, IsComplete: true}

	winner, margin := m.ComputeResult()
	require.NotNil(t, winner)
	assert.Equal(t, uint(11), *winner)
	assert.Equal(t, "15 runs", margin)
}

func TestComputeResultTie(t *testing.T) {
	m := newTossMatch()
	m.FirstInnings = &Innings{BattingTeamID: 11, TotalRuns: 150, IsComplete: true}
	m.SecondInnings = &Innings{BattingTeamID: 22, TotalRuns: 150, IsComplete: true}

	winner, margin := m.ComputeResult()
	assert.Nil(t, winner)
	assert.Equal(t, "tie", margin)
}

func TestComputeResultUsesRevisedTarget(t *testing.T) {
	m := newTossMatch()
	m.FirstInnings = &Innings{BattingTeamID: 11, TotalRuns: 200, IsComplete: true}
	m.SecondInnings = &Innings{BattingTeamID: 22, TotalRuns: 140, Wickets: 5, IsComplete: true}
	m.DLS = &DLSInfo{IsApplied: true, RevisedTarget: 140}

	winner, margin := m.ComputeResult()
	require.NotNil(t, winner)
	assert.Equal(t, uint(22), *winner)
	assert.Equal(t, "5 wickets", margin)
}

func TestChangeOversForcesCompletion(t *testing.T) {
	m := newTossMatch()
	m.FirstInnings = &Innings{BattingTeamID: 11}
	for i := 0; i < 60; i++ { // 10 overs bowled
		_, err := m.FirstInnings.AppendBall(legalBall(i/6, i%6+1, 0), 20)
		require.NoError(t, err)
	}
	require.InDelta(t, 10.0, m.FirstInnings.Overs, 0.0001)

	completed, err := m.ChangeOvers(10, "rain", "covers on")
	require.NoError(t, err)

	assert.Equal(t, []int{1}, completed)
	assert.True(t, m.FirstInnings.IsComplete)
	require.NotNil(t, m.FirstInnings.OversReductionInfo)
	assert.InDelta(t, 10.0, m.FirstInnings.OversReductionInfo.ReducedTo, 0.0001)
}

func TestChangeOversHistoryChains(t *testing.T) {
	m := newTossMatch()
	overs := 20.0
	m.CurrentOversPerInnings = &overs

	_, err := m.ChangeOvers(15, "rain", "")
	require.NoError(t, err)
	_, err = m.ChangeOvers(12, "more rain", "")
	require.NoError(t, err)

	require.Len(t, m.OversChangeHistory, 2)
	assert.InDelta(t, 20.0, m.OversChangeHistory[0].PreviousOvers, 0.0001)
	assert.InDelta(t, 15.0, m.OversChangeHistory[0].NewOvers, 0.0001)
	assert.InDelta(t, 15.0, m.OversChangeHistory[1].PreviousOvers, 0.0001)
	assert.InDelta(t, 12.0, m.OversChangeHistory[1].NewOvers, 0.0001)
	assert.InDelta(t, 12.0, m.MaxOvers(), 0.0001)
}

func TestEndInningsTwiceIsConflict(t *testing.T) {
	inn := &Innings{}
	require.NoError(t, inn.EndInnings(true, "declared at tea"))
	require.NotNil(t, inn.DeclarationInfo)

	assert.ErrorIs(t, inn.EndInnings(false, ""), ErrInningsAlreadyComplete)
}

func TestUndoDoesNotRevertDeclaredInnings(t *testing.T) {
	inn := &Innings{}
	_, err := inn.AppendBall(legalBall(0, 1, 2), 20)
	require.NoError(t, err)
	require.NoError(t, inn.EndInnings(true, ""))

	res, err := inn.UndoBall(20)
	require.NoError(t, err)

	assert.False(t, res.CompletionReverted)
	assert.True(t, inn.IsComplete)
}
