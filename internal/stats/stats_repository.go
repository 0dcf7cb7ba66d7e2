package stats

import (
	"errors"

	"gorm.io/gorm"
)

// StatsRepository defines the persistence operations for player statistics.
// Writes happen inside the match repository's transaction, which hands out
// a repository bound to it.
type StatsRepository interface {
	GetOrCreate(playerID, teamID uint) (*PlayerStats, error)
	GetByPlayerAndTeam(playerID, teamID uint) (*PlayerStats, error)
	GetByPlayer(playerID uint) ([]PlayerStats, error)
	Save(ps *PlayerStats) error
}

// GormStatsRepository implements StatsRepository using GORM
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GormStatsRepository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// GetOrCreate fetches the stats row for a (player, team) pair, creating an
// empty one on first contact with the ball.
func (r *GormStatsRepository) GetOrCreate(playerID, teamID uint) (*PlayerStats, error) {
	var ps PlayerStats
	result := r.db.Where("player_id = ? AND team_id = ?", playerID, teamID).First(&ps)
	if result.Error == nil {
		return &ps, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	ps = PlayerStats{
		PlayerID: playerID,
		TeamID:   teamID,
		Career:   make(CareerStats),
		Matches:  MatchBreakdown{},
	}
	if err := r.db.Create(&ps).Error; err != nil {
		return nil, err
	}
	return &ps, nil
}

// GetByPlayerAndTeam fetches a stats row without creating it.
func (r *GormStatsRepository) GetByPlayerAndTeam(playerID, teamID uint) (*PlayerStats, error) {
	var ps PlayerStats
	result := r.db.Where("player_id = ? AND team_id = ?", playerID, teamID).First(&ps)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ps, nil
}

// GetByPlayer fetches all stats rows for a player across teams.
func (r *GormStatsRepository) GetByPlayer(playerID uint) ([]PlayerStats, error) {
	var rows []PlayerStats
	if err := r.db.Where("player_id = ?", playerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists a mutated stats row.
func (r *GormStatsRepository) Save(ps *PlayerStats) error {
	return r.db.Save(ps).Error
}
