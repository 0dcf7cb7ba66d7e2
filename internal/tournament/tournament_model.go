package tournament

import (
	"time"

	"gorm.io/gorm"
)

// Tournament status values
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Ball types used across a tournament; player career stats are bucketed
// by this value.
const (
	BallTypeWhite = "white"
	BallTypeRed   = "red"
	BallTypePink  = "pink"
	BallTypeOther = "other"
)

// Tournament is a series of matches sharing a format and ball type.
type Tournament struct {
	gorm.Model
	SeriesName      string     `json:"series_name" gorm:"not null"`
	TournamentType  string     `json:"tournament_type" gorm:"default:'league'"` // "league", "knockout", "bilateral"
	BallType        string     `json:"ball_type" gorm:"default:'white'"`
	PitchType       string     `json:"pitch_type,omitempty"`
	OversPerInnings float64    `json:"overs_per_innings" gorm:"not null"`
	OversPerBowler  float64    `json:"overs_per_bowler,omitempty"`
	Status          string     `json:"status" gorm:"default:'upcoming';index"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	CreatedByID     uint       `json:"created_by_id" gorm:"index"`
}
