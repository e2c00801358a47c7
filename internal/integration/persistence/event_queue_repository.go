// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/integration/persistence/model"
)

// eventQueueRepository implements the adapter.EventQueueRepository interface
// on top of the obligation_events table.
type eventQueueRepository struct {
	db *gorm.DB
}

// NewEventQueueRepository creates a new event queue repository instance.
func NewEventQueueRepository(db *gorm.DB) adapter.EventQueueRepository {
	return &eventQueueRepository{
		db: db,
	}
}

// Enqueue persists a pending event.
func (r *eventQueueRepository) Enqueue(ctx context.Context, event *entity.ObligationEvent) error {
	eventModel := model.ObligationEventFromEntity(event)
	result := r.db.WithContext(ctx).Create(eventModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetPending retrieves up to limit pending or failed events, oldest first.
// Failed events come back for retry; handlers are idempotent so re-delivery
// is safe.
func (r *eventQueueRepository) GetPending(ctx context.Context, limit int) ([]*entity.ObligationEvent, error) {
	var eventModels []model.ObligationEventModel
	result := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(entity.EventStatusPending),
			string(entity.EventStatusFailed),
		}).
		Order("created_at ASC").
		Limit(limit).
		Find(&eventModels)
	if result.Error != nil {
		return nil, result.Error
	}

	events := make([]*entity.ObligationEvent, len(eventModels))
	for i, em := range eventModels {
		events[i] = em.ToEntity()
	}
	return events, nil
}

// Update persists event state transitions.
func (r *eventQueueRepository) Update(ctx context.Context, event *entity.ObligationEvent) error {
	eventModel := model.ObligationEventFromEntity(event)
	result := r.db.WithContext(ctx).Save(eventModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
