// Package occurrence contains the occurrence and proration calculators.
package occurrence

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// GenerateOccurrencesInput represents the input for occurrence generation.
type GenerateOccurrencesInput struct {
	Obligation   *entity.Obligation
	SourcePeriod *entity.SourcePeriod
}

// GenerateOccurrencesUseCase expands an obligation into the concrete dated
// occurrences falling inside one source period. It is pure: no repository
// access, deterministic output for a given input.
type GenerateOccurrencesUseCase struct{}

// NewGenerateOccurrencesUseCase creates a new GenerateOccurrencesUseCase instance.
func NewGenerateOccurrencesUseCase() *GenerateOccurrencesUseCase {
	return &GenerateOccurrencesUseCase{}
}

// Execute returns the ordered occurrence list for the obligation inside the
// source period. Zero occurrences is a valid result, e.g. a monthly bill
// whose due date does not fall inside a weekly window.
//
// Alignment: from the anchor date, step backward one cadence interval at a
// time while the candidate stays after the period start, then step forward
// until the candidate is at or after the start. This locates the first
// in-phase occurrence at-or-after the period start without assuming the
// anchor lies on either side of the window.
func (uc *GenerateOccurrencesUseCase) Execute(input GenerateOccurrencesInput) ([]entity.Occurrence, error) {
	obligation := input.Obligation
	period := input.SourcePeriod

	anchor, ok := obligation.AnchorDate()
	if !ok {
		return nil, domainerror.ErrMissingAnchorDate
	}

	cadence, known := valueobject.NormalizeCadence(string(obligation.Cadence))
	if !known {
		slog.Warn("Unknown cadence, falling back to monthly",
			"obligation_id", obligation.ID,
			"cadence", obligation.Cadence,
		)
	}

	candidate := anchor
	for candidate.After(period.StartDate) {
		candidate = cadence.Previous(candidate)
	}
	for candidate.Before(period.StartDate) {
		candidate = cadence.Next(candidate)
	}

	var occurrences []entity.Occurrence
	for !candidate.After(period.EndDate) {
		index := len(occurrences)
		occurrences = append(occurrences, entity.Occurrence{
			ID:          entity.OccurrenceID(period.ID, index),
			Index:       index,
			DueDate:     candidate,
			DrawDate:    valueobject.AdjustForWeekend(candidate),
			AmountDue:   obligation.Amount,
			Status:      entity.OccurrenceStatusUnpaid,
			AmountPaid:  decimal.Zero,
			PaymentType: "",
		})
		candidate = cadence.Next(candidate)
	}

	return occurrences, nil
}
