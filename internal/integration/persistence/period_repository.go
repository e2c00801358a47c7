// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/integration/persistence/model"
)

// periodRepository implements the adapter.PeriodRepository interface.
type periodRepository struct {
	db         *gorm.DB
	batchLimit int
}

// NewPeriodRepository creates a new period repository instance. batchLimit is
// the per-batch write ceiling enforced on SaveBatch.
func NewPeriodRepository(db *gorm.DB, batchLimit int) adapter.PeriodRepository {
	return &periodRepository{
		db:         db,
		batchLimit: batchLimit,
	}
}

// FindByID retrieves a period by its deterministic ID.
func (r *periodRepository) FindByID(ctx context.Context, id string) (*entity.Period, error) {
	var periodModel model.PeriodModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&periodModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPeriodNotFound
		}
		return nil, result.Error
	}
	return periodModel.ToEntity()
}

// FindByObligation retrieves all periods belonging to an obligation.
func (r *periodRepository) FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*entity.Period, error) {
	var periodModels []model.PeriodModel
	result := r.db.WithContext(ctx).
		Where("obligation_id = ?", obligationID).
		Order("source_period_id ASC").
		Find(&periodModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toPeriodEntities(periodModels)
}

// FindActiveByBucket retrieves all active periods for one bucket key.
func (r *periodRepository) FindActiveByBucket(ctx context.Context, key adapter.PeriodBucketKey) ([]*entity.Period, error) {
	var periodModels []model.PeriodModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND owner_type = ?", key.OwnerID, string(key.OwnerType)).
		Where("source_period_id = ? AND period_type = ?", key.SourcePeriodID, string(key.PeriodType)).
		Where("state = ?", string(entity.PeriodStateActive)).
		Order("merchant_name ASC, id ASC").
		Find(&periodModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toPeriodEntities(periodModels)
}

// Save upserts a single period by its deterministic ID.
func (r *periodRepository) Save(ctx context.Context, period *entity.Period) error {
	periodModel, err := model.PeriodFromEntity(period)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(periodModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// SaveBatch upserts one batch of periods in a single transaction. The caller
// chunks anything larger than the batch limit; exceeding it here is a
// programming error.
func (r *periodRepository) SaveBatch(ctx context.Context, periods []*entity.Period) error {
	if len(periods) == 0 {
		return nil
	}
	if len(periods) > r.batchLimit {
		return fmt.Errorf("batch of %d periods exceeds write limit of %d", len(periods), r.batchLimit)
	}

	periodModels := make([]*model.PeriodModel, len(periods))
	for i, p := range periods {
		periodModel, err := model.PeriodFromEntity(p)
		if err != nil {
			return err
		}
		periodModels[i] = periodModel
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(periodModels)
		return result.Error
	})
}

func toPeriodEntities(periodModels []model.PeriodModel) ([]*entity.Period, error) {
	periods := make([]*entity.Period, len(periodModels))
	for i, pm := range periodModels {
		period, err := pm.ToEntity()
		if err != nil {
			return nil, err
		}
		periods[i] = period
	}
	return periods, nil
}
