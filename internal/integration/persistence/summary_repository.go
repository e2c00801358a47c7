// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/integration/persistence/model"
)

// summaryRepository implements the adapter.SummaryRepository interface.
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository instance.
func NewSummaryRepository(db *gorm.DB) adapter.SummaryRepository {
	return &summaryRepository{
		db: db,
	}
}

// Find retrieves the summary document for an owner and period type.
func (r *summaryRepository) Find(ctx context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, periodType entity.PeriodType) (*entity.Summary, error) {
	var summaryModel model.SummaryModel
	result := r.db.WithContext(ctx).
		Where("id = ?", entity.SummaryID(ownerID, ownerType, periodType)).
		First(&summaryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSummaryNotFound
		}
		return nil, result.Error
	}
	return summaryModel.ToEntity()
}

// Mutate loads (or initializes) the summary, applies fn, and persists the
// result inside one transaction. The read takes a row lock, so a concurrent
// Mutate of the same document waits for the commit and rebuilds from the
// fresh buckets instead of a stale read.
func (r *summaryRepository) Mutate(ctx context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, periodType entity.PeriodType, fn adapter.SummaryMutator) error {
	summaryID := entity.SummaryID(ownerID, ownerType, periodType)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var summaryModel model.SummaryModel
		var summary *entity.Summary

		result := lockForUpdate(tx).Where("id = ?", summaryID).First(&summaryModel)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}
			summary = entity.NewSummary(ownerID, ownerType, periodType)
		} else {
			loaded, err := summaryModel.ToEntity()
			if err != nil {
				return err
			}
			summary = loaded
		}

		if err := fn(summary); err != nil {
			return err
		}
		summary.UpdatedAt = time.Now().UTC()

		updated, err := model.SummaryFromEntity(summary)
		if err != nil {
			return err
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(updated).Error
	})
}

// lockForUpdate adds SELECT ... FOR UPDATE to the summary read. sqlite has no
// row locks and rejects the syntax; its single-writer lock already serializes
// transactions there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
