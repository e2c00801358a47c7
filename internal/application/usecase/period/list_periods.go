package period

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
)

// ListPeriodsInput identifies the obligation whose periods are requested.
type ListPeriodsInput struct {
	ObligationID uuid.UUID
}

// ListPeriodsUseCase returns an obligation's materialized periods, ordered
// by source period.
type ListPeriodsUseCase struct {
	obligationRepo adapter.ObligationRepository
	periodRepo     adapter.PeriodRepository
}

// NewListPeriodsUseCase creates a new ListPeriodsUseCase instance.
func NewListPeriodsUseCase(
	obligationRepo adapter.ObligationRepository,
	periodRepo adapter.PeriodRepository,
) *ListPeriodsUseCase {
	return &ListPeriodsUseCase{
		obligationRepo: obligationRepo,
		periodRepo:     periodRepo,
	}
}

// Execute lists the obligation's periods. The obligation lookup runs first so
// an unknown id surfaces as not-found rather than an empty list.
func (uc *ListPeriodsUseCase) Execute(ctx context.Context, input ListPeriodsInput) ([]*entity.Period, error) {
	if _, err := uc.obligationRepo.FindByID(ctx, input.ObligationID); err != nil {
		return nil, err
	}
	return uc.periodRepo.FindByObligation(ctx, input.ObligationID)
}
