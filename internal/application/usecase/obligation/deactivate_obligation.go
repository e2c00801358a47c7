// Package obligation contains obligation lifecycle use cases.
package obligation

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
)

// DeactivateObligationInput represents the input for soft deactivation.
type DeactivateObligationInput struct {
	ObligationID uuid.UUID
	OwnerID      uuid.UUID
}

// DeactivateObligationUseCase soft-deactivates an obligation. History is
// never hard-deleted; existing periods remain queryable and only new period
// generation stops.
type DeactivateObligationUseCase struct {
	obligationRepo adapter.ObligationRepository
}

// NewDeactivateObligationUseCase creates a new DeactivateObligationUseCase instance.
func NewDeactivateObligationUseCase(obligationRepo adapter.ObligationRepository) *DeactivateObligationUseCase {
	return &DeactivateObligationUseCase{
		obligationRepo: obligationRepo,
	}
}

// Execute marks the obligation inactive and enqueues the update event.
func (uc *DeactivateObligationUseCase) Execute(ctx context.Context, input DeactivateObligationInput) error {
	obligation, err := uc.obligationRepo.FindByID(ctx, input.ObligationID)
	if err != nil {
		return err
	}
	if obligation.OwnerID != input.OwnerID {
		return domainerror.ErrNotAuthorizedToModifyObligation
	}
	if !obligation.IsActive() {
		return nil
	}

	obligation.Deactivate()
	event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventUpdated)
	event.Deactivated = true
	return uc.obligationRepo.UpdateWithEvent(ctx, obligation, event)
}
