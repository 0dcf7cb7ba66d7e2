package match

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ParthMakwana-13/stumps/internal/stats"
	"github.com/ParthMakwana-13/stumps/internal/tournament"
)

// --- in-memory repositories ---

type memStatsRepo struct {
	rows map[[2]uint]*stats.PlayerStats
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{rows: make(map[[2]uint]*stats.PlayerStats)}
}

func (r *memStatsRepo) GetOrCreate(playerID, teamID uint) (*stats.PlayerStats, error) {
	key := [2]uint{playerID, teamID}
	if ps, ok := r.rows[key]; ok {
		return ps, nil
	}
	ps := &stats.PlayerStats{
		PlayerID: playerID,
		TeamID:   teamID,
		Career:   make(stats.CareerStats),
		Matches:  stats.MatchBreakdown{},
	}
	r.rows[key] = ps
	return ps, nil
}

func (r *memStatsRepo) GetByPlayerAndTeam(playerID, teamID uint) (*stats.PlayerStats, error) {
	return r.rows[[2]uint{playerID, teamID}], nil
}

func (r *memStatsRepo) GetByPlayer(playerID uint) ([]stats.PlayerStats, error) {
	var out []stats.PlayerStats
	for _, ps := range r.rows {
		if ps.PlayerID == playerID {
			out = append(out, *ps)
		}
	}
	return out, nil
}

func (r *memStatsRepo) Save(ps *stats.PlayerStats) error {
	r.rows[[2]uint{ps.PlayerID, ps.TeamID}] = ps
	return nil
}

type memTournamentRepo struct {
	statuses map[uint]string
}

func newMemTournamentRepo() *memTournamentRepo {
	return &memTournamentRepo{statuses: make(map[uint]string)}
}

func (r *memTournamentRepo) GetTournamentByID(id uint) (*tournament.Tournament, error) {
	return nil, nil
}

func (r *memTournamentRepo) UpdateStatus(id uint, status string) error {
	r.statuses[id] = status
	return nil
}

type memMatchRepo struct {
	matches map[uint]*Match
	stats   *memStatsRepo
	series  *memTournamentRepo
}

func newMemMatchRepo(matches ...*Match) *memMatchRepo {
	r := &memMatchRepo{
		matches: make(map[uint]*Match),
		stats:   newMemStatsRepo(),
		series:  newMemTournamentRepo(),
	}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return r
}

func (r *memMatchRepo) GetMatchByID(id uint) (*Match, error) { return r.matches[id], nil }

func (r *memMatchRepo) Save(m *Match) error {
	r.matches[m.ID] = m
	return nil
}

func (r *memMatchRepo) GetMatchesByTournament(tournamentID uint, page, pageSize int) ([]Match, int64, error) {
	return nil, 0, nil
}

func (r *memMatchRepo) GetMatchesByUmpire(userID uint) ([]Match, error) { return nil, nil }

func (r *memMatchRepo) WithTransaction(txFunc func(MatchRepository, stats.StatsRepository, tournament.TournamentRepository) error) error {
	return txFunc(r, r.stats, r.series)
}

type recordingPublisher struct {
	events  []string
	dropped []uint
}

func (p *recordingPublisher) Publish(matchID uint, eventType string, payload any) {
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) DropMatch(matchID uint) {
	p.dropped = append(p.dropped, matchID)
}

// --- fixtures ---

func newDefendedMatch(id uint) *Match {
	return &Match{
		Model:        gorm.Model{ID: id},
		TournamentID: 5,
		TeamAID:      uintPtr(11),
		TeamBID:      uintPtr(22),
		Status:       StatusLive,
		FirstInnings: &Innings{
			BattingTeamID: 11, BowlingTeamID: 22,
			TotalRuns: 160, Wickets: 4, IsComplete: true,
		},
		SecondInnings: &Innings{
			BattingTeamID: 22, BowlingTeamID: 11,
			TotalRuns: 140, Wickets: 10, IsComplete: true,
		},
	}
}

func patchStatus(t *testing.T, mc *MatchController, matchID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PATCH("/matches/:matchId/status", mc.UpdateMatchStatus)

	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/matches/%d/status", matchID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- tests ---

func TestRunOutWicketCreditsBowler(t *testing.T) {
	m := &Match{
		Model:      gorm.Model{ID: 1},
		Tournament: &tournament.Tournament{BallType: tournament.BallTypeWhite, OversPerInnings: 20},
	}
	inn := m.InningsByNumber(1)
	inn.BattingTeamID = 11
	inn.BowlingTeamID = 22

	in := wicketBall(0, 1, 1)
	in.WicketType = WicketRunOut
	in.FielderID = 7
	res, err := inn.AppendBall(in, m.MaxOvers())
	require.NoError(t, err)

	evt := ballEvent(m, inn, res.Ball)
	require.True(t, evt.CreditedToBowler)

	bowler := &stats.PlayerStats{PlayerID: 2, TeamID: 22, Career: make(stats.CareerStats)}
	stats.ApplyBowling(bowler, evt)
	assert.Equal(t, 1, bowler.Career[tournament.BallTypeWhite].Bowling.Wickets)
}

func TestCompletingFinalClosesTournament(t *testing.T) {
	repo := newMemMatchRepo(newDefendedMatch(1))
	pub := &recordingPublisher{}
	mc := NewMatchController(repo, nil, pub)

	w := patchStatus(t, mc, 1, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	m := repo.matches[1]
	require.NotNil(t, m.WinnerTeamID)
	assert.Equal(t, uint(11), *m.WinnerTeamID)
	assert.Equal(t, "20 runs", m.ResultMargin)

	assert.Equal(t, tournament.StatusCompleted, repo.series.statuses[5])
	assert.Equal(t, []uint{1}, pub.dropped)
}

func TestCompletingKnockoutSeedsNextMatchOnly(t *testing.T) {
	semi := newDefendedMatch(1)
	semi.NextMatchID = uintPtr(2)
	semi.NextMatchSlot = SlotTeamB
	final := &Match{
		Model:        gorm.Model{ID: 2},
		TournamentID: 5,
		TeamAID:      uintPtr(33),
		Status:       StatusScheduled,
	}
	repo := newMemMatchRepo(semi, final)
	mc := NewMatchController(repo, nil, &recordingPublisher{})

	w := patchStatus(t, mc, 1, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, repo.matches[2].TeamBID)
	assert.Equal(t, uint(11), *repo.matches[2].TeamBID)

	// the bracket is not finished yet
	_, touched := repo.series.statuses[5]
	assert.False(t, touched)
}

func TestGoingLiveMarksTournamentOngoing(t *testing.T) {
	m := &Match{
		Model:        gorm.Model{ID: 1},
		TournamentID: 5,
		Tournament:   &tournament.Tournament{Status: tournament.StatusUpcoming},
		TeamAID:      uintPtr(11),
		TeamBID:      uintPtr(22),
		Status:       StatusScheduled,
	}
	repo := newMemMatchRepo(m)
	pub := &recordingPublisher{}
	mc := NewMatchController(repo, nil, pub)

	w := patchStatus(t, mc, 1, `{"status":"live"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, tournament.StatusOngoing, repo.series.statuses[5])
	assert.Empty(t, pub.dropped)
}

func TestAbandoningMatchDropsLiveRoom(t *testing.T) {
	m := newDefendedMatch(1)
	repo := newMemMatchRepo(m)
	pub := &recordingPublisher{}
	mc := NewMatchController(repo, nil, pub)

	w := patchStatus(t, mc, 1, `{"abandon":{"reason":"rain"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, StatusAbandoned, repo.matches[1].Status)
	assert.Equal(t, []uint{1}, pub.dropped)
}
