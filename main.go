package main

import (
	"log"

	"github.com/ParthMakwana-13/stumps/config"
	_ "github.com/ParthMakwana-13/stumps/docs"
	"github.com/ParthMakwana-13/stumps/internal/live"
	"github.com/ParthMakwana-13/stumps/internal/match"
	"github.com/ParthMakwana-13/stumps/internal/stats"
	"github.com/ParthMakwana-13/stumps/internal/team"
	"github.com/ParthMakwana-13/stumps/internal/tournament"
	"github.com/ParthMakwana-13/stumps/internal/user"
	"github.com/ParthMakwana-13/stumps/internal/venue"
	"github.com/ParthMakwana-13/stumps/routes"
)

// @title Stumps Live Scoring API
// @version 1.0
// @description Ball-by-ball cricket scoring and progression engine 🏏
// @host localhost:8088
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{},
		&team.Team{}, &team.TeamPlayer{},
		&venue.Ground{},
		&tournament.Tournament{},
		&match.Match{},
		&stats.PlayerStats{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	hub := live.NewHub()
	r := routes.SetupRoutes(hub)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
