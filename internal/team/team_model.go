package team

import (
	"github.com/ParthMakwana-13/stumps/internal/user"
	"gorm.io/gorm"
)

// Team represents a cricket team registered in the league.
type Team struct {
	gorm.Model
	TeamName    string       `json:"team_name" gorm:"not null"`
	Logo        string       `json:"logo,omitempty"`
	CreatedByID uint         `json:"created_by_id" gorm:"index"`
	Players     []TeamPlayer `json:"players,omitempty" gorm:"foreignKey:TeamID"`
}

// TeamPlayer links a user to a team roster.
type TeamPlayer struct {
	gorm.Model
	TeamID       uint      `json:"team_id" gorm:"index;not null;uniqueIndex:idx_team_player_unique"`
	UserID       uint      `json:"user_id" gorm:"index;not null;uniqueIndex:idx_team_player_unique"`
	User         user.User `json:"player" gorm:"foreignKey:UserID"`
	Role         string    `json:"role" gorm:"default:'player'"` // "player", "captain", "keeper"
	JerseyNumber int       `json:"jersey_number,omitempty"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
}
