package match

import (
	"github.com/ParthMakwana-13/stumps/internal/live"
	mw "github.com/ParthMakwana-13/stumps/internal/middleware"
	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MatchRoutes sets up all scoring and match-read routes.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, teamRepo team.TeamRepository, publisher live.Publisher, jwtSecret string) {
	matchRepo := NewGormMatchRepository(db)
	matchController := NewMatchController(matchRepo, teamRepo, publisher)

	// Public read routes
	matches := router.Group("/matches")
	{
		matches.GET("/:matchId", matchController.GetMatch)
		matches.GET("/:matchId/highlights", matchController.GetMatchHighlights)
		matches.GET("/:matchId/batting-status", matchController.GetBattingStatus)
	}

	// Scoring routes require authentication
	scoring := router.Group("/matches")
	scoring.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		scoring.PATCH("/:matchId/toss", matchController.UpdateToss)
		scoring.POST("/:matchId/ball", matchController.AddBall)
		scoring.POST("/:matchId/undo-ball", matchController.UndoBall)
		scoring.PATCH("/:matchId/update-ball/:ballId", matchController.UpdateBall)
		scoring.PATCH("/:matchId/status", matchController.UpdateMatchStatus)
		scoring.PATCH("/:matchId/players", matchController.UpdateCurrentPlayers)
		scoring.GET("/umpire/my-matches", matchController.GetUmpireMatches)
	}

	// Tournament match listing
	tournaments := router.Group("/tournaments")
	{
		tournaments.GET("/:tournamentId/matches", matchController.GetTournamentMatches)
	}
}
