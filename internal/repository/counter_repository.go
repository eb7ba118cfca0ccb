package repository

import (
	"errors"

	"github.com/soaringcoupons/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository named sequence access interface
type CounterRepository interface {
	Next(name string) (int64, error)
	WithTx(tx *gorm.DB) *GormCounterRepository
}

// GormCounterRepository GORM implementation
type GormCounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a counter repository
func NewCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// WithTx binds to a transaction
func (r *GormCounterRepository) WithTx(tx *gorm.DB) *GormCounterRepository {
	if tx == nil {
		return r
	}
	return &GormCounterRepository{db: tx}
}

// Next increments the named counter and returns the new value. The row is
// locked for the duration of the surrounding transaction, so two concurrent
// allocations can never observe the same value.
func (r *GormCounterRepository) Next(name string) (int64, error) {
	var counter models.Counter
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", name).
		First(&counter).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		counter = models.Counter{ID: name, Value: 0}
		if err := r.db.Create(&counter).Error; err != nil {
			return 0, err
		}
	}

	counter.Value++
	if err := r.db.Model(&models.Counter{}).
		Where("id = ?", name).
		Update("value", counter.Value).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
