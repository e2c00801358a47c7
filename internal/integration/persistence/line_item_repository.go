// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/integration/persistence/model"
)

// lineItemRepository implements the adapter.LineItemRepository interface.
type lineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository creates a new line item repository instance.
func NewLineItemRepository(db *gorm.DB) adapter.LineItemRepository {
	return &lineItemRepository{
		db: db,
	}
}

// FindByObligation retrieves all settled line items linked to an obligation.
func (r *lineItemRepository) FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*entity.TransactionLineItem, error) {
	var lineItemModels []model.LineItemModel
	result := r.db.WithContext(ctx).
		Where("obligation_id = ?", obligationID).
		Where("pending = ?", false).
		Order("date ASC, id ASC").
		Find(&lineItemModels)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.TransactionLineItem, len(lineItemModels))
	for i, lm := range lineItemModels {
		items[i] = lm.ToEntity()
	}
	return items, nil
}

// ReplaceForObligation replaces the linked line item set for an obligation.
func (r *lineItemRepository) ReplaceForObligation(ctx context.Context, obligationID uuid.UUID, items []*entity.TransactionLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("obligation_id = ?", obligationID).Delete(&model.LineItemModel{}).Error; err != nil {
			return err
		}
		for _, item := range items {
			lineItemModel := model.LineItemFromEntity(item)
			lineItemModel.ObligationID = obligationID
			if err := tx.Create(lineItemModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
