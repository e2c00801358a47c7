// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/integration/persistence/model"
)

// obligationRepository implements the adapter.ObligationRepository interface.
type obligationRepository struct {
	db *gorm.DB
}

// NewObligationRepository creates a new obligation repository instance.
func NewObligationRepository(db *gorm.DB) adapter.ObligationRepository {
	return &obligationRepository{
		db: db,
	}
}

// CreateWithEvent creates the obligation and its lifecycle event in one
// transaction. Either both rows commit or neither does, so the event worker
// eventually materializes every obligation that exists.
func (r *obligationRepository) CreateWithEvent(ctx context.Context, obligation *entity.Obligation, event *entity.ObligationEvent) error {
	obligationModel, err := model.ObligationFromEntity(obligation)
	if err != nil {
		return err
	}
	eventModel := model.ObligationEventFromEntity(event)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(obligationModel).Error; err != nil {
			return err
		}
		return tx.Create(eventModel).Error
	})
}

// FindByID retrieves an obligation by its ID.
func (r *obligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Obligation, error) {
	var obligationModel model.ObligationModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&obligationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrObligationNotFound
		}
		return nil, result.Error
	}
	return obligationModel.ToEntity()
}

// FindByProviderStreamID retrieves an obligation by the provider stream id.
func (r *obligationRepository) FindByProviderStreamID(ctx context.Context, streamID string) (*entity.Obligation, error) {
	var obligationModel model.ObligationModel
	result := r.db.WithContext(ctx).Where("provider_stream_id = ?", streamID).First(&obligationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrObligationNotFound
		}
		return nil, result.Error
	}
	return obligationModel.ToEntity()
}

// FindByOwner retrieves all obligations for an owner.
func (r *obligationRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, activeOnly bool) ([]*entity.Obligation, error) {
	query := r.db.WithContext(ctx).
		Where("owner_id = ? AND owner_type = ?", ownerID, string(ownerType))
	if activeOnly {
		query = query.Where("status = ?", string(entity.ObligationStatusActive))
	}

	var obligationModels []model.ObligationModel
	result := query.Order("merchant_name ASC, created_at ASC").Find(&obligationModels)
	if result.Error != nil {
		return nil, result.Error
	}

	obligations := make([]*entity.Obligation, len(obligationModels))
	for i, om := range obligationModels {
		obligation, err := om.ToEntity()
		if err != nil {
			return nil, err
		}
		obligations[i] = obligation
	}
	return obligations, nil
}

// UpdateWithEvent saves obligation changes and the classified event in one
// transaction.
func (r *obligationRepository) UpdateWithEvent(ctx context.Context, obligation *entity.Obligation, event *entity.ObligationEvent) error {
	obligationModel, err := model.ObligationFromEntity(obligation)
	if err != nil {
		return err
	}
	eventModel := model.ObligationEventFromEntity(event)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(obligationModel).Error; err != nil {
			return err
		}
		return tx.Create(eventModel).Error
	})
}
