package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ParthMakwana-13/stumps/config"
	"github.com/ParthMakwana-13/stumps/internal/live"
	"github.com/ParthMakwana-13/stumps/internal/match"
	"github.com/ParthMakwana-13/stumps/internal/stats"
	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/ParthMakwana-13/stumps/pkg/responses"
)

func SetupRoutes(hub *live.Hub) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	cfg := config.GetConfig()
	db := config.DB

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "stumps", "status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Live score subscriptions
	r.GET("/ws/matches/:matchId", func(c *gin.Context) {
		matchID, err := strconv.ParseUint(c.Param("matchId"), 10, 32)
		if err != nil || matchID == 0 {
			responses.BadRequest(c, "Invalid match ID")
			return
		}
		hub.HandleWS(c.Writer, c.Request, uint(matchID))
	})

	// API routes
	api := r.Group("/api")
	teamRepo := team.NewGormTeamRepository(db)
	match.MatchRoutes(api, db, teamRepo, hub, cfg.JWT.AccessTokenSecret)
	stats.StatsRoutes(api, db, teamRepo)

	return r
}
