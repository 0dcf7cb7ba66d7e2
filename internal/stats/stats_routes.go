package stats

import (
	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatsRoutes sets up the public statistics read routes.
func StatsRoutes(router *gin.RouterGroup, db *gorm.DB, teamRepo team.TeamRepository) {
	controller := NewStatsController(NewGormStatsRepository(db), teamRepo)

	players := router.Group("/players")
	{
		players.GET("/:playerId/stats", controller.GetPlayerStats)
	}
}
