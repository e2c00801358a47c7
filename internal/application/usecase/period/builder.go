// Package period contains period materialization and the obligation
// lifecycle handlers.
package period

import (
	"fmt"
	"time"

	"github.com/billflow/backend/internal/application/usecase/occurrence"
	"github.com/billflow/backend/internal/domain/entity"
)

// buildPeriod assembles one period record from an obligation and a source
// period: occurrence expansion, proration, aggregate totals. The result has
// all occurrences unpaid; matching runs as a separate step.
func buildPeriod(
	generate *occurrence.GenerateOccurrencesUseCase,
	prorate *occurrence.CalculateProrationUseCase,
	obligation *entity.Obligation,
	sourcePeriod *entity.SourcePeriod,
) (*entity.Period, error) {
	occurrences, err := generate.Execute(occurrence.GenerateOccurrencesInput{
		Obligation:   obligation,
		SourcePeriod: sourcePeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("generate occurrences: %w", err)
	}

	proration, err := prorate.Execute(occurrence.CalculateProrationInput{
		Obligation:  obligation,
		WindowStart: sourcePeriod.StartDate,
		WindowEnd:   sourcePeriod.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("calculate proration: %w", err)
	}

	now := time.Now().UTC()
	p := &entity.Period{
		ID:                  entity.PeriodID(obligation.ID, sourcePeriod.ID),
		ObligationID:        obligation.ID,
		OwnerID:             obligation.OwnerID,
		OwnerType:           obligation.OwnerType,
		SourcePeriodID:      sourcePeriod.ID,
		PeriodType:          sourcePeriod.Type,
		MerchantName:        obligation.MerchantName,
		Description:         obligation.Description,
		Cadence:             obligation.Cadence,
		AmountPerOccurrence: obligation.Amount,
		ProratedAmount:      proration.Amount,
		DueInPeriod:         proration.DueInWindow,
		Occurrences:         occurrences,
		State:               entity.PeriodStateActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	p.RecalculateTotals()
	return p, nil
}
