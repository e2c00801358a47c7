// Package obligation contains obligation lifecycle use cases.
package obligation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// CreateObligationInput represents the input for manual obligation entry.
type CreateObligationInput struct {
	OwnerID      uuid.UUID
	OwnerType    entity.OwnerType
	MerchantName string
	Description  string
	Type         entity.ObligationType
	Amount       decimal.Decimal
	Cadence      string
	FirstDate    time.Time
}

// CreateObligationUseCase handles manual creation of an obligation. The
// obligation row and its created event commit in one transaction; downstream
// materialization runs in the event worker and never blocks or fails this
// path.
type CreateObligationUseCase struct {
	obligationRepo adapter.ObligationRepository
}

// NewCreateObligationUseCase creates a new CreateObligationUseCase instance.
func NewCreateObligationUseCase(obligationRepo adapter.ObligationRepository) *CreateObligationUseCase {
	return &CreateObligationUseCase{
		obligationRepo: obligationRepo,
	}
}

// Execute validates, persists, and enqueues the created event.
func (uc *CreateObligationUseCase) Execute(ctx context.Context, input CreateObligationInput) (*entity.Obligation, error) {
	if input.Amount.IsZero() {
		return nil, domainerror.ErrInvalidObligationAmount
	}
	if input.Type != entity.ObligationTypeBill && input.Type != entity.ObligationTypeIncome {
		return nil, domainerror.ErrInvalidObligationType
	}

	cadence, known := valueobject.NormalizeCadence(input.Cadence)
	if !known {
		slog.Warn("Unknown cadence on manual entry, defaulting to monthly",
			"cadence", input.Cadence,
			"merchant", input.MerchantName,
		)
	}

	obligation := entity.NewObligation(
		input.OwnerID,
		input.OwnerType,
		input.MerchantName,
		input.Description,
		input.Type,
		input.Amount,
		cadence,
		input.FirstDate,
	)

	event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventCreated)
	if err := uc.obligationRepo.CreateWithEvent(ctx, obligation, event); err != nil {
		return nil, err
	}
	return obligation, nil
}
