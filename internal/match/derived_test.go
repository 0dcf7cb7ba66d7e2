package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildInnings appends a sequence of deliveries to a fresh innings.
func buildInnings(t *testing.T, inputs []BallInput) *Innings {
	t.Helper()
	inn := &Innings{}
	for _, in := range inputs {
		_, err := inn.AppendBall(in, 50)
		require.NoError(t, err)
	}
	return inn
}

func strikerBall(striker uint, runs int) BallInput {
	return BallInput{
		OverNumber: 0,
		BallNumber: 1,
		Runs:       runs,
		Commentary: "played",
		StrikerID:  striker,
		BowlerID:   99,
		BallType:   BallRegular,
		IsBoundary: runs == 4 || runs == 6,
	}
}

func TestBattingScorecardAccumulatesPerStriker(t *testing.T) {
	wide := strikerBall(1, 0)
	wide.BallType = BallWide
	wide.ExtraRuns = 1

	out := strikerBall(1, 0)
	out.IsWicket = true
	out.WicketType = WicketCaught
	out.PlayerOutID = 1

	inn := buildInnings(t, []BallInput{
		strikerBall(1, 4),
		wide,
		strikerBall(2, 6),
		strikerBall(1, 1),
		out,
	})

	card := BattingScorecard(inn)
	require.Len(t, card, 2)

	// order of first appearance
	assert.Equal(t, uint(1), card[0].PlayerID)
	assert.Equal(t, 5, card[0].Runs)
	assert.Equal(t, 3, card[0].Balls) // wide not faced
	assert.Equal(t, 1, card[0].Fours)
	assert.True(t, card[0].Dismissed)
	assert.Equal(t, WicketCaught, card[0].WicketType)

	assert.Equal(t, uint(2), card[1].PlayerID)
	assert.Equal(t, 1, card[1].Sixes)
	assert.False(t, card[1].Dismissed)
	assert.InDelta(t, 600.0, card[1].StrikeRate, 0.001)
}

func TestBattingScorecardEmptyLedger(t *testing.T) {
	assert.Empty(t, BattingScorecard(&Innings{}))
	assert.Empty(t, BattingScorecard(nil))
}

func TestFallOfWicketsRecordsScoreAtDismissal(t *testing.T) {
	out1 := strikerBall(1, 0)
	out1.IsWicket = true
	out1.WicketType = WicketBowled
	out1.PlayerOutID = 1

	out2 := strikerBall(3, 2)
	out2.IsWicket = true
	out2.WicketType = WicketRunOut
	out2.PlayerOutID = 3

	inn := buildInnings(t, []BallInput{
		strikerBall(1, 4),
		out1,
		strikerBall(3, 1),
		out2,
	})

	fow := FallOfWickets(inn)
	require.Len(t, fow, 2)

	assert.Equal(t, 1, fow[0].WicketNumber)
	assert.Equal(t, uint(1), fow[0].PlayerOutID)
	assert.Equal(t, 4, fow[0].Score)
	assert.InDelta(t, 0.2, fow[0].Overs, 0.0001)

	assert.Equal(t, 2, fow[1].WicketNumber)
	assert.Equal(t, 7, fow[1].Score)
	assert.InDelta(t, 0.4, fow[1].Overs, 0.0001)
}

func TestPartnershipsCloseOnDismissal(t *testing.T) {
	out := strikerBall(2, 0)
	out.IsWicket = true
	out.WicketType = WicketBowled
	out.PlayerOutID = 2

	inn := buildInnings(t, []BallInput{
		strikerBall(1, 1), // batter 1 on strike
		strikerBall(2, 4), // batter 2 inferred as partner
		strikerBall(1, 2),
		out,               // batter 2 out, 1 survives
		strikerBall(3, 6), // new stand: 1 and 3
		strikerBall(1, 1),
	})

	stands := Partnerships(inn)
	require.Len(t, stands, 2)

	first := stands[0]
	assert.Equal(t, uint(1), first.Batsman1ID)
	assert.Equal(t, uint(2), first.Batsman2ID)
	assert.Equal(t, 7, first.Runs)
	assert.Equal(t, 4, first.Balls)
	assert.True(t, first.EndedByWicket)

	second := stands[1]
	assert.Equal(t, uint(1), second.Batsman1ID)
	assert.Equal(t, uint(3), second.Batsman2ID)
	assert.Equal(t, 7, second.Runs)
	assert.False(t, second.EndedByWicket)
}

func TestPartnershipRunsIncludeExtras(t *testing.T) {
	wide := strikerBall(1, 0)
	wide.BallType = BallWide
	wide.ExtraRuns = 1

	inn := buildInnings(t, []BallInput{
		strikerBall(1, 2),
		wide,
	})

	stands := Partnerships(inn)
	require.Len(t, stands, 1)
	assert.Equal(t, 3, stands[0].Runs)
	assert.Equal(t, 1, stands[0].Balls) // wide not a ball faced
}

func TestComputeBattingStatusPartition(t *testing.T) {
	out := strikerBall(2, 0)
	out.IsWicket = true
	out.WicketType = WicketBowled
	out.PlayerOutID = 2

	inn := buildInnings(t, []BallInput{
		strikerBall(1, 1),
		strikerBall(2, 0),
		out,
	})
	inn.CurrentStrikerID = 1
	inn.CurrentNonStrikerID = 3

	roster := []uint{1, 2, 3, 4, 5}
	status := ComputeBattingStatus(inn, roster)

	assert.ElementsMatch(t, []uint{1, 3}, status.Batting)
	assert.ElementsMatch(t, []uint{2}, status.Out)
	assert.ElementsMatch(t, []uint{4, 5}, status.YetToBat)
}

func TestComputeBattingStatusNilInnings(t *testing.T) {
	status := ComputeBattingStatus(nil, []uint{1, 2})
	assert.Empty(t, status.Batting)
	assert.Empty(t, status.Out)
	assert.ElementsMatch(t, []uint{1, 2}, status.YetToBat)
}
