// Package obligation contains obligation lifecycle use cases.
package obligation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
)

// UpdateObligationInput represents the input for updating an obligation.
// Nil pointer fields are left unchanged.
type UpdateObligationInput struct {
	ObligationID uuid.UUID
	OwnerID      uuid.UUID

	Amount       *decimal.Decimal
	MerchantName *string
	Description  *string

	// LinkedItems, when non-nil, replaces the obligation's linked
	// transaction set wholesale. The matcher rebuilds from the full set, so
	// replacement (not patching) is the safe contract.
	LinkedItems []*entity.TransactionLineItem
}

// UpdateObligationUseCase persists obligation field changes, classifies
// them, and writes an updated event carrying the classification in the same
// transaction. The heavy lifting (period recompute, matching, summaries)
// happens in the event worker, never in this write path.
type UpdateObligationUseCase struct {
	obligationRepo adapter.ObligationRepository
	lineItemRepo   adapter.LineItemRepository
}

// NewUpdateObligationUseCase creates a new UpdateObligationUseCase instance.
func NewUpdateObligationUseCase(
	obligationRepo adapter.ObligationRepository,
	lineItemRepo adapter.LineItemRepository,
) *UpdateObligationUseCase {
	return &UpdateObligationUseCase{
		obligationRepo: obligationRepo,
		lineItemRepo:   lineItemRepo,
	}
}

// Execute applies the changes and enqueues the classified update event.
func (uc *UpdateObligationUseCase) Execute(ctx context.Context, input UpdateObligationInput) (*entity.Obligation, error) {
	obligation, err := uc.obligationRepo.FindByID(ctx, input.ObligationID)
	if err != nil {
		return nil, err
	}
	if obligation.OwnerID != input.OwnerID {
		return nil, domainerror.ErrNotAuthorizedToModifyObligation
	}

	event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventUpdated)

	if input.Amount != nil && !input.Amount.Abs().Equal(obligation.Amount) {
		if input.Amount.IsZero() {
			return nil, domainerror.ErrInvalidObligationAmount
		}
		obligation.Amount = input.Amount.Abs()
		event.AmountChanged = true
	}
	if input.MerchantName != nil && *input.MerchantName != obligation.MerchantName {
		obligation.MerchantName = *input.MerchantName
		event.NameChanged = true
	}
	if input.Description != nil && *input.Description != obligation.Description {
		obligation.Description = *input.Description
		event.NameChanged = true
	}

	if input.LinkedItems != nil {
		ids := make([]string, len(input.LinkedItems))
		for i, item := range input.LinkedItems {
			ids[i] = item.ID
		}
		if !sameIDSet(ids, obligation.LinkedTransactionIDs) {
			if err := uc.lineItemRepo.ReplaceForObligation(ctx, obligation.ID, input.LinkedItems); err != nil {
				return nil, err
			}
			obligation.LinkedTransactionIDs = ids
			event.LinkedChanged = true
		}
	}

	if !event.AmountChanged && !event.NameChanged && !event.LinkedChanged {
		return obligation, nil
	}

	obligation.UpdatedAt = time.Now().UTC()
	if err := uc.obligationRepo.UpdateWithEvent(ctx, obligation, event); err != nil {
		return nil, err
	}
	return obligation, nil
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}
