package match

import (
	"errors"

	"github.com/ParthMakwana-13/stumps/internal/stats"
	"github.com/ParthMakwana-13/stumps/internal/tournament"
	"gorm.io/gorm"
)

// MatchRepository defines methods to interact with match data
type MatchRepository interface {
	GetMatchByID(id uint) (*Match, error)
	Save(m *Match) error
	GetMatchesByTournament(tournamentID uint, page, pageSize int) ([]Match, int64, error)
	GetMatchesByUmpire(userID uint) ([]Match, error)

	// Transaction support. The stats and tournament repositories handed to
	// txFunc are bound to the same transaction, so ledger, projection and
	// series bookkeeping commit or roll back together.
	WithTransaction(txFunc func(repo MatchRepository, statsRepo stats.StatsRepository, tournamentRepo tournament.TournamentRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// GetMatchByID retrieves a match with its tournament, teams and umpires.
func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var m Match
	result := r.db.
		Preload("Tournament").
		Preload("Venue").
		Preload("TeamA").
		Preload("TeamB").
		Preload("Umpires").
		First(&m, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &m, nil
}

// Save persists a mutated match row, including its JSONB innings columns.
func (r *GormMatchRepository) Save(m *Match) error {
	return r.db.Save(m).Error
}

// GetMatchesByTournament lists a tournament's matches, newest first.
func (r *GormMatchRepository) GetMatchesByTournament(tournamentID uint, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{}).Where("tournament_id = ?", tournamentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("TeamA").
		Preload("TeamB").
		Order("scheduled_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&matches).Error
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// GetMatchesByUmpire lists matches the user is assigned to umpire.
func (r *GormMatchRepository) GetMatchesByUmpire(userID uint) ([]Match, error) {
	var matches []Match
	err := r.db.
		Joins("JOIN match_umpires ON match_umpires.match_id = matches.id").
		Where("match_umpires.user_id = ?", userID).
		Preload("Tournament").
		Preload("TeamA").
		Preload("TeamB").
		Order("scheduled_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository, stats.StatsRepository, tournament.TournamentRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormMatchRepository{db: tx}
	err := txFunc(txRepo, stats.NewGormStatsRepository(tx), tournament.NewGormTournamentRepository(tx))
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
