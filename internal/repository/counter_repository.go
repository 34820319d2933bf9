package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nkengderick/biotec-api/internal/model"
)

// CounterRepository allocates monotonically increasing sequence numbers.
// When constructed over a transaction, Next holds the counter's row lock
// until that transaction ends, so two promotions drawing from the same
// counter are serialized instead of racing a full-collection scan.
type CounterRepository interface {
	Next(ctx context.Context, key string) (int64, error)
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a counter repository over db, which may be a
// transaction handle.
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

// Next increments and returns the counter for key. The row is created on
// first use.
func (r *counterRepository) Next(ctx context.Context, key string) (int64, error) {
	var counter model.MemberCodeCounter
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("`key` = ?", key).
		First(&counter).Error
	if err == gorm.ErrRecordNotFound {
		counter = model.MemberCodeCounter{Key: key, Value: 0}
		if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
			// Another transaction created it first: re-read under lock.
			if !IsDuplicateEntry(err) {
				return 0, err
			}
			if err := r.db.WithContext(ctx).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("`key` = ?", key).
				First(&counter).Error; err != nil {
				return 0, err
			}
		}
	} else if err != nil {
		return 0, err
	}

	counter.Value++
	if err := r.db.WithContext(ctx).Model(&model.MemberCodeCounter{}).
		Where("`key` = ?", key).
		Update("value", counter.Value).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
