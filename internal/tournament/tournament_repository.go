package tournament

import (
	"errors"

	"gorm.io/gorm"
)

// TournamentRepository defines the operations the match engine needs from
// the series a match belongs to.
type TournamentRepository interface {
	GetTournamentByID(id uint) (*Tournament, error)
	UpdateStatus(id uint, status string) error
}

// GormTournamentRepository implements TournamentRepository using GORM
type GormTournamentRepository struct {
	db *gorm.DB
}

// NewGormTournamentRepository creates a new GormTournamentRepository
func NewGormTournamentRepository(db *gorm.DB) *GormTournamentRepository {
	return &GormTournamentRepository{db: db}
}

// GetTournamentByID retrieves a tournament by its ID.
func (r *GormTournamentRepository) GetTournamentByID(id uint) (*Tournament, error) {
	var t Tournament
	result := r.db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &t, nil
}

// UpdateStatus transitions a tournament to a new lifecycle status.
func (r *GormTournamentRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&Tournament{}).Where("id = ?", id).Update("status", status).Error
}
