package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository exposes the read operations the scoring engine needs from
// a roster. Team CRUD is owned by the club-management service.
type TeamRepository interface {
	GetTeamByID(id uint) (*Team, error)
	GetTeamWithPlayers(id uint) (*Team, error)
}

// GormTeamRepository implements TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// GetTeamByID retrieves a team without its roster.
func (r *GormTeamRepository) GetTeamByID(id uint) (*Team, error) {
	var t Team
	result := r.db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &t, nil
}

// GetTeamWithPlayers retrieves a team with its full roster, player details included.
func (r *GormTeamRepository) GetTeamWithPlayers(id uint) (*Team, error) {
	var t Team
	result := r.db.
		Preload("Players", "is_active = ?", true).
		Preload("Players.User").
		First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &t, nil
}
