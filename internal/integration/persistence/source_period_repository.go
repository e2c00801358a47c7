// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/integration/persistence/model"
)

// sourcePeriodRepository implements the adapter.SourcePeriodRepository interface.
type sourcePeriodRepository struct {
	db *gorm.DB
}

// NewSourcePeriodRepository creates a new source period repository instance.
func NewSourcePeriodRepository(db *gorm.DB) adapter.SourcePeriodRepository {
	return &sourcePeriodRepository{
		db: db,
	}
}

// FindByID retrieves one source period.
func (r *sourcePeriodRepository) FindByID(ctx context.Context, id string) (*entity.SourcePeriod, error) {
	var sourcePeriodModel model.SourcePeriodModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&sourcePeriodModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSourcePeriodNotFound
		}
		return nil, result.Error
	}
	return sourcePeriodModel.ToEntity(), nil
}

// FindOverlapping retrieves all source periods intersecting [start, end].
func (r *sourcePeriodRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]*entity.SourcePeriod, error) {
	var sourcePeriodModels []model.SourcePeriodModel
	result := r.db.WithContext(ctx).
		Where("end_date >= ? AND start_date <= ?", start, end).
		Order("start_date ASC, type ASC").
		Find(&sourcePeriodModels)
	if result.Error != nil {
		return nil, result.Error
	}

	sourcePeriods := make([]*entity.SourcePeriod, len(sourcePeriodModels))
	for i, sm := range sourcePeriodModels {
		sourcePeriods[i] = sm.ToEntity()
	}
	return sourcePeriods, nil
}

// FindIDsInRange retrieves source period ids of one type intersecting [start, end].
func (r *sourcePeriodRepository) FindIDsInRange(ctx context.Context, periodType entity.PeriodType, start, end time.Time) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).
		Model(&model.SourcePeriodModel{}).
		Where("type = ?", string(periodType)).
		Where("end_date >= ? AND start_date <= ?", start, end).
		Order("start_date ASC").
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
