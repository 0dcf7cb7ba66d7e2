package stats

import (
	"net/http"
	"strconv"

	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/ParthMakwana-13/stumps/pkg/responses"
	"github.com/gin-gonic/gin"
)

// StatsController serves read access to player statistics.
type StatsController struct {
	repo     StatsRepository
	teamRepo team.TeamRepository
}

// NewStatsController creates a new stats controller
func NewStatsController(repo StatsRepository, teamRepo team.TeamRepository) *StatsController {
	return &StatsController{repo: repo, teamRepo: teamRepo}
}

// GetPlayerStats returns a player's statistics across every team they have
// played for, or narrowed to a single team via the team_id query parameter
// @Summary Get player statistics
// @Tags stats
// @Produce json
// @Param playerId path int true "Player ID"
// @Param team_id query int false "Limit to one team"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{playerId}/stats [get]
func (sc *StatsController) GetPlayerStats(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("playerId"), 10, 32)
	if err != nil || playerID == 0 {
		responses.BadRequest(c, "Invalid player ID")
		return
	}

	if teamParam := c.Query("team_id"); teamParam != "" {
		teamID, err := strconv.ParseUint(teamParam, 10, 32)
		if err != nil || teamID == 0 {
			responses.BadRequest(c, "Invalid team ID")
			return
		}

		t, err := sc.teamRepo.GetTeamByID(uint(teamID))
		if err != nil {
			responses.InternalServerError(c, "Failed to fetch team")
			return
		}
		if t == nil {
			responses.NotFound(c, "Team")
			return
		}

		ps, err := sc.repo.GetByPlayerAndTeam(uint(playerID), uint(teamID))
		if err != nil {
			responses.InternalServerError(c, "Failed to fetch player stats")
			return
		}
		if ps == nil {
			responses.NotFound(c, "Player stats")
			return
		}
		responses.SendSuccess(c, http.StatusOK, "Player stats retrieved successfully", ps)
		return
	}

	rows, err := sc.repo.GetByPlayer(uint(playerID))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch player stats")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player stats retrieved successfully", rows)
}
