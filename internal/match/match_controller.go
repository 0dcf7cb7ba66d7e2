package match

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ParthMakwana-13/stumps/internal/live"
	"github.com/ParthMakwana-13/stumps/internal/middleware"
	"github.com/ParthMakwana-13/stumps/internal/stats"
	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/ParthMakwana-13/stumps/internal/tournament"
	"github.com/ParthMakwana-13/stumps/pkg/responses"
	"github.com/gin-gonic/gin"
)

// MatchController handles live-scoring HTTP requests
type MatchController struct {
	repo      MatchRepository
	teamRepo  team.TeamRepository
	publisher live.Publisher
}

// NewMatchController creates a new match controller
func NewMatchController(repo MatchRepository, teamRepo team.TeamRepository, publisher live.Publisher) *MatchController {
	if publisher == nil {
		publisher = live.NoopPublisher{}
	}
	return &MatchController{
		repo:      repo,
		teamRepo:  teamRepo,
		publisher: publisher,
	}
}

// pendingEvent is an event decided inside the transaction and broadcast
// only after it commits.
type pendingEvent struct {
	Type    string
	Payload any
}

func (mc *MatchController) broadcast(matchID uint, events []pendingEvent) {
	for _, evt := range events {
		mc.publisher.Publish(matchID, evt.Type, evt.Payload)
	}
}

func parseMatchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("matchId"), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid match ID")
		return 0, false
	}
	return uint(id), true
}

// respondEngineError maps engine errors onto the HTTP taxonomy.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		responses.NotFound(c, "Match")
	case errors.Is(err, ErrBallNotFound):
		responses.NotFound(c, "Ball")
	case errors.Is(err, ErrInningsNotFound):
		responses.NotFound(c, "Innings")
	case errors.Is(err, ErrNoDeliveries):
		responses.NotFound(c, "Delivery")
	case errors.Is(err, ErrInningsAlreadyComplete),
		errors.Is(err, ErrFirstInningsIncomplete):
		responses.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInvalidToss),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNoActionSpecified),
		errors.Is(err, ErrTeamsUnresolved):
		responses.BadRequest(c, err.Error())
	default:
		responses.InternalServerError(c, "Failed to process scoring operation")
	}
}

func ballTypeBucket(m *Match) string {
	if m.Tournament != nil && m.Tournament.BallType != "" {
		return m.Tournament.BallType
	}
	return tournament.BallTypeOther
}

// ballEvent translates a ledger entry into the projector's input.
func ballEvent(m *Match, inn *Innings, b *Ball) stats.BallEvent {
	batRuns := b.Runs
	if b.IsNegativeRuns {
		batRuns = 0
	}
	return stats.BallEvent{
		MatchID:           m.ID,
		BallType:          ballTypeBucket(m),
		Kind:              string(b.BallType),
		BatRuns:           batRuns,
		TotalRuns:         b.TotalRuns,
		IsBoundary:        b.IsBoundary,
		StrikerID:         b.StrikerID,
		StrikerTeamID:     inn.BattingTeamID,
		BowlerID:          b.BowlerID,
		BowlerTeamID:      inn.BowlingTeamID,
		WicketTaken:       b.IsWicket,
		WicketType:        string(b.WicketType),
		CreditedToBowler:  b.IsWicket,
		DismissedPlayerID: b.PlayerOutID,
		DismissedTeamID:   inn.BattingTeamID,
		FielderID:         b.FielderID,
		FielderTeamID:     inn.BowlingTeamID,
		RunsSaved:         b.RunsSaved,
		RunsMissed:        b.RunsMissed,
		CatchMissed:       b.CatchMissed,
	}
}

func inningsSummary(inn *Innings) gin.H {
	return gin.H{
		"total_runs":  inn.TotalRuns,
		"wickets":     inn.Wickets,
		"overs":       inn.Overs,
		"is_complete": inn.IsComplete,
	}
}

// --- DTOs for requests ---

// UpdateTossRequest defines the payload for recording the toss
type UpdateTossRequest struct {
	TossWinnerID uint   `json:"toss_winner_id" binding:"required"`
	TossDecision string `json:"toss_decision" binding:"required,oneof=batting bowling"`
}

// AddBallRequest defines the payload for recording one delivery
type AddBallRequest struct {
	Innings        int    `json:"innings" binding:"required,oneof=1 2"`
	OverNumber     int    `json:"over_number" binding:"min=0"`
	BallNumber     int    `json:"ball_number" binding:"required,min=1,max=6"`
	Runs           int    `json:"runs" binding:"min=0"`
	ExtraRuns      int    `json:"extra_runs" binding:"min=0"`
	BonusRuns      int    `json:"bonus_runs" binding:"min=0"`
	IsNegativeRuns bool   `json:"is_negative_runs"`
	Commentary     string `json:"commentary" binding:"required"`
	StrikerID      uint   `json:"striker_id" binding:"required"`
	BowlerID       uint   `json:"bowler_id" binding:"required"`
	BallType       string `json:"ball_type" binding:"omitempty,oneof=regular wide noball legbye bye"`
	IsBoundary     bool   `json:"is_boundary"`

	IsWicket    bool   `json:"is_wicket"`
	WicketType  string `json:"wicket_type" binding:"omitempty,oneof=bowled caught lbw runout stumped hitwicket retired"`
	PlayerOutID uint   `json:"player_out_id"`

	FielderID         uint   `json:"fielder_id"`
	RunsSaved         int    `json:"runs_saved" binding:"min=0"`
	RunsMissed        int    `json:"runs_missed" binding:"min=0"`
	CatchMissed       bool   `json:"catch_missed"`
	FieldingHighlight string `json:"fielding_highlight"`
}

// UndoBallRequest defines the payload for removing the last delivery
type UndoBallRequest struct {
	Innings int `json:"innings" binding:"required,oneof=1 2"`
}

// UpdateBallRequest defines the payload for correcting a recorded delivery
type UpdateBallRequest struct {
	Innings           int     `json:"innings" binding:"required,oneof=1 2"`
	FielderID         *uint   `json:"fielder_id,omitempty"`
	RunsSaved         *int    `json:"runs_saved,omitempty" binding:"omitempty,min=0"`
	RunsMissed        *int    `json:"runs_missed,omitempty" binding:"omitempty,min=0"`
	CatchMissed       *bool   `json:"catch_missed,omitempty"`
	FieldingHighlight *string `json:"fielding_highlight,omitempty"`
	NegativeRuns      *int    `json:"negative_runs,omitempty" binding:"omitempty,min=0"`
	BonusRuns         *int    `json:"bonus_runs,omitempty" binding:"omitempty,min=0"`
	Reason            string  `json:"reason,omitempty"`
}

// ReviseTargetAction applies a DLS target revision
type ReviseTargetAction struct {
	RevisedTarget int     `json:"revised_target" binding:"required,min=1"`
	RevisedOvers  float64 `json:"revised_overs,omitempty"`
}

// EndInningsAction closes an innings, optionally as a declaration
type EndInningsAction struct {
	Innings    int    `json:"innings" binding:"required,oneof=1 2"`
	Declared   bool   `json:"declared"`
	Commentary string `json:"commentary,omitempty"`
}

// ChangeOversAction revises the overs per innings
type ChangeOversAction struct {
	NewOvers   float64 `json:"new_overs" binding:"required,gt=0"`
	Reason     string  `json:"reason,omitempty"`
	Commentary string  `json:"commentary,omitempty"`
}

// AbandonAction abandons the match
type AbandonAction struct {
	Reason     string `json:"reason" binding:"required"`
	Commentary string `json:"commentary,omitempty"`
}

// UpdateMatchStatusRequest bundles the combinable status actions. At least
// one action must be present.
type UpdateMatchStatusRequest struct {
	Status       *string             `json:"status,omitempty" binding:"omitempty,oneof=scheduled live paused delayed completed"`
	ReviseTarget *ReviseTargetAction `json:"revise_target,omitempty"`
	EndInnings   *EndInningsAction   `json:"end_innings,omitempty"`
	ChangeOvers  *ChangeOversAction  `json:"change_overs,omitempty"`
	Abandon      *AbandonAction      `json:"abandon,omitempty"`
}

func (r *UpdateMatchStatusRequest) hasAction() bool {
	return r.Status != nil || r.ReviseTarget != nil || r.EndInnings != nil ||
		r.ChangeOvers != nil || r.Abandon != nil
}

// UpdatePlayersRequest defines the payload for the four active participants
type UpdatePlayersRequest struct {
	Innings             int    `json:"innings" binding:"required,oneof=1 2"`
	CurrentStrikerID    uint   `json:"current_striker_id" binding:"required"`
	CurrentNonStrikerID uint   `json:"current_non_striker_id" binding:"required"`
	CurrentBowlerID     uint   `json:"current_bowler_id" binding:"required"`
	CurrentKeeperID     uint   `json:"current_keeper_id" binding:"required"`

	ReplacedPlayerID    *uint  `json:"replaced_player_id,omitempty"`
	ReplacementPlayerID *uint  `json:"replacement_player_id,omitempty"`
	ReplacementRole     string `json:"replacement_role,omitempty"`
	ReplacementReason   string `json:"replacement_reason,omitempty"`
}

// --- Mutating handlers ---

// UpdateToss records the toss and fixes both innings' team assignment
// @Summary Record the toss
// @Tags matches
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param request body UpdateTossRequest true "Toss details"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{matchId}/toss [patch]
func (mc *MatchController) UpdateToss(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req UpdateTossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	var updated *Match
	err := mc.repo.WithTransaction(func(repo MatchRepository, _ stats.StatsRepository, _ tournament.TournamentRepository) error {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMatchNotFound
		}
		if err := m.ApplyToss(req.TossWinnerID, req.TossDecision); err != nil {
			return err
		}
		updated = m
		return repo.Save(m)
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	mc.broadcast(matchID, []pendingEvent{{live.EventTossUpdated, gin.H{
		"toss_winner_id": req.TossWinnerID,
		"toss_decision":  req.TossDecision,
	}}})
	responses.SendSuccess(c, http.StatusOK, "Toss recorded successfully", updated)
}

// AddBall appends a delivery to an innings ledger and projects statistics
// @Summary Record one delivery
// @Tags matches
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param request body AddBallRequest true "Delivery details"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{matchId}/ball [post]
func (mc *MatchController) AddBall(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req AddBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	var events []pendingEvent
	var ball *Ball
	var summary gin.H

	err := mc.repo.WithTransaction(func(repo MatchRepository, statsRepo stats.StatsRepository, _ tournament.TournamentRepository) error {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMatchNotFound
		}

		inn := m.InningsByNumber(req.Innings)
		res, err := inn.AppendBall(BallInput{
			OverNumber:        req.OverNumber,
			BallNumber:        req.BallNumber,
			Runs:              req.Runs,
			ExtraRuns:         req.ExtraRuns,
			BonusRuns:         req.BonusRuns,
			IsNegativeRuns:    req.IsNegativeRuns,
			Commentary:        req.Commentary,
			StrikerID:         req.StrikerID,
			BowlerID:          req.BowlerID,
			BallType:          BallType(req.BallType),
			IsBoundary:        req.IsBoundary,
			IsWicket:          req.IsWicket,
			WicketType:        WicketType(req.WicketType),
			PlayerOutID:       req.PlayerOutID,
			FielderID:         req.FielderID,
			RunsSaved:         req.RunsSaved,
			RunsMissed:        req.RunsMissed,
			CatchMissed:       req.CatchMissed,
			FieldingHighlight: req.FieldingHighlight,
		}, m.MaxOvers())
		if err != nil {
			return err
		}

		projector := stats.NewProjector(statsRepo)
		if err := projector.ApplyBall(ballEvent(m, inn, res.Ball)); err != nil {
			return err
		}

		ball = res.Ball
		summary = inningsSummary(inn)

		events = append(events, pendingEvent{live.EventBallAdded, gin.H{
			"innings": req.Innings,
			"ball":    res.Ball,
			"score":   summary,
		}})
		if res.OverComplete {
			events = append(events, pendingEvent{live.EventOverComplete, gin.H{
				"innings": req.Innings,
				"over":    res.Ball.OverNumber,
			}})
		}
		if res.EnteredFinalOver {
			events = append(events, pendingEvent{live.EventFinalOver, gin.H{"innings": req.Innings}})
		}
		if res.InningsComplete {
			events = append(events, pendingEvent{live.EventInningsComplete, gin.H{
				"innings": req.Innings,
				"score":   summary,
			}})
		}

		return repo.Save(m)
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	mc.broadcast(matchID, events)
	responses.SendSuccess(c, http.StatusOK, "Ball recorded successfully", gin.H{
		"ball":  ball,
		"score": summary,
	})
}

// UndoBall removes the most recent delivery and reverses its statistics
// @Summary Undo the last delivery
// @Tags matches
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param request body UndoBallRequest true "Innings to undo in"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{matchId}/undo-ball [post]
func (mc *MatchController) UndoBall(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req UndoBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	var events []pendingEvent
	var summary gin.H

	err := mc.repo.WithTransaction(func(repo MatchRepository, statsRepo stats.StatsRepository, _ tournament.TournamentRepository) error {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMatchNotFound
		}

		inn := m.InningsByNumber(req.Innings)
		res, err := inn.UndoBall(m.MaxOvers())
		if err != nil {
			return err
		}

		projector := stats.NewProjector(statsRepo)
		if err := projector.ReverseBall(ballEvent(m, inn, res.Ball)); err != nil {
			return err
		}

		summary = inningsSummary(inn)
		events = append(events, pendingEvent{live.EventBallUndone, gin.H{
			"innings": req.Innings,
			"ball_id": res.Ball.ID,
			"score":   summary,
		}})
		if res.CompletionReverted {
			events = append(events, pendingEvent{live.EventInningsStatusChange, gin.H{
				"innings":     req.Innings,
				"is_complete": false,
			}})
		}

		return repo.Save(m)
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	mc.broadcast(matchID, events)
	responses.SendSuccess(c, http.StatusOK, "Ball undone successfully", gin.H{"score": summary})
}

// UpdateBall corrects a recorded delivery's fielding annotations and applies
// manual run adjustments through the innings history log
// @Summary Correct a recorded delivery
// @Tags matches
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param ballId path int true "Ball ID"
// @Param request body UpdateBallRequest true "Correction details"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{matchId}/update-ball/{ballId} [patch]
func (mc *MatchController) UpdateBall(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	ballID, err := strconv.ParseUint(c.Param("ballId"), 10, 32)
	if err != nil || ballID == 0 {
		responses.BadRequest(c, "Invalid ball ID")
		return
	}

	var req UpdateBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	var updatedBall *Ball
	var summary gin.H

	err = mc.repo.WithTransaction(func(repo MatchRepository, statsRepo stats.StatsRepository, _ tournament.TournamentRepository) error {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMatchNotFound
		}

		inn := m.InningsByNumber(req.Innings)
		ball := inn.FindBall(uint(ballID))
		if ball == nil {
			return ErrBallNotFound
		}

		// fielding annotation deltas flow into the fielder's record
		fieldingDelta := stats.BallEvent{
			MatchID:  m.ID,
			BallType: ballTypeBucket(m),
		}

		if req.FielderID != nil {
			ball.FielderID = *req.FielderID
		}
		if req.RunsSaved != nil {
			fieldingDelta.RunsSaved = *req.RunsSaved - ball.RunsSaved
			ball.RunsSaved = *req.RunsSaved
		}
		if req.RunsMissed != nil {
			fieldingDelta.RunsMissed = *req.RunsMissed - ball.RunsMissed
			ball.RunsMissed = *req.RunsMissed
		}
		if req.CatchMissed != nil {
			fieldingDelta.CatchMissed = !ball.CatchMissed && *req.CatchMissed
			ball.CatchMissed = *req.CatchMissed
		}
		if req.FieldingHighlight != nil {
			ball.FieldingHighlight = *req.FieldingHighlight
		}

		if ball.FielderID != 0 &&
			(fieldingDelta.RunsSaved != 0 || fieldingDelta.RunsMissed != 0 || fieldingDelta.CatchMissed) {
			fielder, err := statsRepo.GetOrCreate(ball.FielderID, inn.BowlingTeamID)
			if err != nil {
				return err
			}
			stats.ApplyFielding(fielder, fieldingDelta)
			if err := statsRepo.Save(fielder); err != nil {
				return err
			}
		}

		if req.BonusRuns != nil && *req.BonusRuns != 0 {
			inn.ApplyCorrection(ball.ID, *req.BonusRuns, req.Reason)
		}
		if req.NegativeRuns != nil && *req.NegativeRuns != 0 {
			inn.ApplyCorrection(ball.ID, -*req.NegativeRuns, req.Reason)
		}

		updatedBall = ball
		summary = inningsSummary(inn)
		return repo.Save(m)
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	mc.broadcast(matchID, []pendingEvent{{live.EventBallUpdated, gin.H{
		"innings": req.Innings,
		"ball":    updatedBall,
		"score":   summary,
	}}})
	responses.SendSuccess(c, http.StatusOK, "Ball updated successfully", gin.H{
		"ball":  updatedBall,
		"score": summary,
	})
}

// UpdateMatchStatus applies a bundle of status actions atomically
// @Summary Update match status, DLS, innings or overs
// @Tags matches
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param request body UpdateMatchStatusRequest true "Status actions"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{matchId}/status [patch]
func (mc *MatchController) UpdateMatchStatus(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req UpdateMatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	if !req.hasAction() {
		respondEngineError(c, ErrNoActionSpecified)
		return
	}

	var events []pendingEvent
	var updated *Match
	var terminal bool

	err := mc.repo.WithTransaction(func(repo MatchRepository, statsRepo stats.StatsRepository, tournamentRepo tournament.TournamentRepository) error {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMatchNotFound
		}

		if req.ReviseTarget != nil {
			m.DLS = &DLSInfo{
				IsApplied:     true,
				RevisedTarget: req.ReviseTarget.RevisedTarget,
				RevisedOvers:  req.ReviseTarget.RevisedOvers,
				AppliedAt:     time.Now().UTC(),
			}
		}

		if req.EndInnings != nil {
			inn := m.InningsByNumber(req.EndInnings.Innings)
			if err := inn.EndInnings(req.EndInnings.Declared, req.EndInnings.Commentary); err != nil {
				return err
			}
			events = append(events, pendingEvent{live.EventInningsComplete, gin.H{
				"innings": req.EndInnings.Innings,
				"score":   inningsSummary(inn),
			}})
		}

		if req.ChangeOvers != nil {
			completed, err := m.ChangeOvers(req.ChangeOvers.NewOvers, req.ChangeOvers.Reason, req.ChangeOvers.Commentary)
			if err != nil {
				return err
			}
			for _, n := range completed {
				events = append(events, pendingEvent{live.EventInningsComplete, gin.H{
					"innings": n,
					"score":   inningsSummary(m.InningsByNumber(n)),
				}})
			}
		}

		if req.Abandon != nil {
			if err := m.CanTransitionTo(StatusAbandoned); err != nil {
				return err
			}
			m.Status = StatusAbandoned
			m.AbandonInfo = &AbandonInfo{
				Reason:      req.Abandon.Reason,
				Commentary:  req.Abandon.Commentary,
				AbandonedAt: time.Now().UTC(),
			}
			terminal = true
			events = append(events, pendingEvent{live.EventStatusChanged, gin.H{
				"status": StatusAbandoned,
				"reason": req.Abandon.Reason,
			}})
		}

		if req.Status != nil {
			next := MatchStatus(*req.Status)
			if err := m.CanTransitionTo(next); err != nil {
				return err
			}
			m.Status = next

			if next == StatusLive && m.Tournament != nil && m.Tournament.Status == tournament.StatusUpcoming {
				if err := tournamentRepo.UpdateStatus(m.TournamentID, tournament.StatusOngoing); err != nil {
					return err
				}
			}

			if next == StatusCompleted {
				terminal = true
				if err := mc.completeMatch(repo, statsRepo, tournamentRepo, m); err != nil {
					return err
				}
			}

			events = append(events, pendingEvent{live.EventStatusChanged, gin.H{
				"status": next,
				"winner": m.WinnerTeamID,
				"margin": m.ResultMargin,
			}})
		}

		updated = m
		return repo.Save(m)
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	mc.broadcast(matchID, events)
	if terminal {
		mc.publisher.DropMatch(matchID)
	}
	responses.SendSuccess(c, http.StatusOK, "Match status updated successfully", updated)
}

// completeMatch runs the completion side effects: result computation, the
// statistics reconciliation pass, knockout progression and, for the last
// match of the bracket, closing out the tournament.
func (mc *MatchController) completeMatch(repo MatchRepository, statsRepo stats.StatsRepository, tournamentRepo tournament.TournamentRepository, m *Match) error {
	winnerID, margin := m.ComputeResult()
	m.WinnerTeamID = winnerID
	m.ResultMargin = margin

	projector := stats.NewProjector(statsRepo)
	var participants []stats.PlayerTeam
	for _, p := range m.participants() {
		participants = append(participants, stats.PlayerTeam{PlayerID: p.PlayerID, TeamID: p.TeamID})
	}
	if err := projector.ReconcilePlayers(m.ID, participants); err != nil {
		return err
	}

	if winnerID != nil && m.NextMatchID != nil {
		next, err := repo.GetMatchByID(*m.NextMatchID)
		if err != nil {
			return err
		}
		if next != nil {
			if m.NextMatchSlot == SlotTeamB {
				next.TeamBID = winnerID
			} else {
				next.TeamAID = winnerID
			}
			if err := repo.Save(next); err != nil {
				return err
			}
		}
	}

	// a match with no onward slot is the last one in the bracket
	if m.NextMatchID == nil {
		if err := tournamentRepo.UpdateStatus(m.TournamentID, tournament.StatusCompleted); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCurrentPlayers sets the four active participants of an innings
// @Summary Update the active players
// @Tags matches
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param request body UpdatePlayersRequest true "Active participants"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{matchId}/players [patch]
func (mc *MatchController) UpdateCurrentPlayers(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req UpdatePlayersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	var updated *Innings
	err := mc.repo.WithTransaction(func(repo MatchRepository, _ stats.StatsRepository, _ tournament.TournamentRepository) error {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMatchNotFound
		}

		inn := m.InningsByNumber(req.Innings)
		inn.CurrentStrikerID = req.CurrentStrikerID
		inn.CurrentNonStrikerID = req.CurrentNonStrikerID
		inn.CurrentBowlerID = req.CurrentBowlerID
		inn.CurrentKeeperID = req.CurrentKeeperID

		if req.ReplacedPlayerID != nil && req.ReplacementPlayerID != nil {
			inn.PlayerReplacements = append(inn.PlayerReplacements, PlayerReplacement{
				OriginalPlayerID:    *req.ReplacedPlayerID,
				ReplacementPlayerID: *req.ReplacementPlayerID,
				Role:                req.ReplacementRole,
				Reason:              req.ReplacementReason,
				Timestamp:           time.Now().UTC(),
			})
		}

		updated = inn
		return repo.Save(m)
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	mc.broadcast(matchID, []pendingEvent{{live.EventPlayersUpdated, gin.H{
		"innings":                req.Innings,
		"current_striker_id":     req.CurrentStrikerID,
		"current_non_striker_id": req.CurrentNonStrikerID,
		"current_bowler_id":      req.CurrentBowlerID,
		"current_keeper_id":      req.CurrentKeeperID,
	}}})
	responses.SendSuccess(c, http.StatusOK, "Players updated successfully", updated)
}

// --- Read handlers ---

// GetMatch returns the resolved match with per-player batting state
// @Summary Get match detail
// @Tags matches
// @Produce json
// @Param matchId path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{matchId} [get]
func (mc *MatchController) GetMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Match retrieved successfully", gin.H{
		"match":                    m,
		"first_innings_scorecard":  BattingScorecard(m.FirstInnings),
		"second_innings_scorecard": BattingScorecard(m.SecondInnings),
	})
}

// GetMatchHighlights returns scorecards, fall of wickets and partnerships
// @Summary Get match highlights
// @Tags matches
// @Produce json
// @Param matchId path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{matchId}/highlights [get]
func (mc *MatchController) GetMatchHighlights(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	highlights := gin.H{}
	for name, inn := range map[string]*Innings{
		"first_innings":  m.FirstInnings,
		"second_innings": m.SecondInnings,
	} {
		highlights[name] = gin.H{
			"scorecard":       BattingScorecard(inn),
			"fall_of_wickets": FallOfWickets(inn),
			"partnerships":    Partnerships(inn),
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Highlights retrieved successfully", highlights)
}

// GetBattingStatus partitions the batting team's roster
// @Summary Get batting status for an innings
// @Tags matches
// @Produce json
// @Param matchId path int true "Match ID"
// @Param innings query int true "Innings number (1 or 2)"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{matchId}/batting-status [get]
func (mc *MatchController) GetBattingStatus(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	inningsNum, err := strconv.Atoi(c.DefaultQuery("innings", "1"))
	if err != nil || (inningsNum != 1 && inningsNum != 2) {
		responses.BadRequest(c, "innings must be 1 or 2")
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	inn := m.InningsByNumber(inningsNum)

	var roster []uint
	if inn.BattingTeamID != 0 {
		battingTeam, err := mc.teamRepo.GetTeamWithPlayers(inn.BattingTeamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to fetch team roster")
			return
		}
		if battingTeam != nil {
			for _, p := range battingTeam.Players {
				roster = append(roster, p.UserID)
			}
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Batting status retrieved successfully",
		ComputeBattingStatus(inn, roster))
}

// GetUmpireMatches lists the matches assigned to the calling umpire
// @Summary Get my umpire assignments
// @Tags matches
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 401 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/umpire/my-matches [get]
func (mc *MatchController) GetUmpireMatches(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	matches, err := mc.repo.GetMatchesByUmpire(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch matches")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Matches retrieved successfully", matches)
}

// GetTournamentMatches lists a tournament's matches
// @Summary List matches in a tournament
// @Tags matches
// @Produce json
// @Param tournamentId path int true "Tournament ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse
// @Router /tournaments/{tournamentId}/matches [get]
func (mc *MatchController) GetTournamentMatches(c *gin.Context) {
	tournamentID, err := strconv.ParseUint(c.Param("tournamentId"), 10, 32)
	if err != nil || tournamentID == 0 {
		responses.BadRequest(c, "Invalid tournament ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	matches, total, err := mc.repo.GetMatchesByTournament(uint(tournamentID), page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch matches")
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Matches retrieved successfully", matches, total, page, pageSize)
}
