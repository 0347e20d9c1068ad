package repositories

import (
	"sync"

	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
	"gorm.io/gorm"
)

type CapitalRepository struct {
	db *gorm.DB

	// Reference rows never change after seeding, so the first successful
	// read is cached for the lifetime of the process.
	mu    sync.RWMutex
	cache []models.CapitalFact
}

func NewCapitalRepository(db *gorm.DB) *CapitalRepository {
	return &CapitalRepository{db: db}
}

// AllFacts returns every country/capital pair in the reference set.
func (r *CapitalRepository) AllFacts() ([]models.CapitalFact, error) {
	r.mu.RLock()
	if r.cache != nil {
		facts := r.cache
		r.mu.RUnlock()
		return facts, nil
	}
	r.mu.RUnlock()

	var facts []models.CapitalFact
	result := r.db.Find(&facts)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load capitals")
	}
	if len(facts) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no capitals in reference set")
	}

	r.mu.Lock()
	r.cache = facts
	r.mu.Unlock()

	return facts, nil
}

// Count reports how many reference rows exist, bypassing the cache.
func (r *CapitalRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.CapitalFact{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count capitals")
	}
	return count, nil
}
