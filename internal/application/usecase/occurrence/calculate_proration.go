// Package occurrence contains the occurrence and proration calculators.
package occurrence

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// CalculateProrationInput represents the input for proration.
type CalculateProrationInput struct {
	Obligation *entity.Obligation

	// Window boundaries, inclusive. The window may be shorter than one
	// cadence interval, e.g. a week inside a monthly bill.
	WindowStart time.Time
	WindowEnd   time.Time
}

// CalculateProrationOutput represents the proration result.
type CalculateProrationOutput struct {
	// Amount is the accrual for the window, rounded to two decimal places
	// half-up at this output boundary only.
	Amount decimal.Decimal

	// DueInWindow reports whether the obligation's next due occurrence from
	// its anchor falls inside the window, boundaries inclusive. Kept for the
	// legacy due-period indicator on periods.
	DueInWindow bool
}

// CalculateProrationUseCase computes the amount to accrue for an obligation
// inside an arbitrary sub-window of its cadence cycle.
type CalculateProrationUseCase struct{}

// NewCalculateProrationUseCase creates a new CalculateProrationUseCase instance.
func NewCalculateProrationUseCase() *CalculateProrationUseCase {
	return &CalculateProrationUseCase{}
}

// Execute computes the prorated accrual.
//
// Monthly cadences integrate day by day: each calendar day in the window
// accrues monthlyAmount / daysInThatCalendarMonth, so a window spanning a
// month boundary sums two partials with different day-rates. All other
// cadences accrue (daysInWindow / nominalCadenceDays) x amount. Rounding
// happens once, on the final sum.
func (uc *CalculateProrationUseCase) Execute(input CalculateProrationInput) (*CalculateProrationOutput, error) {
	obligation := input.Obligation
	if input.WindowEnd.Before(input.WindowStart) {
		return &CalculateProrationOutput{Amount: decimal.Zero}, nil
	}

	cadence, known := valueobject.NormalizeCadence(string(obligation.Cadence))
	if !known {
		slog.Warn("Unknown cadence, falling back to monthly",
			"obligation_id", obligation.ID,
			"cadence", obligation.Cadence,
		)
	}

	var amount decimal.Decimal
	if cadence == valueobject.CadenceMonthly {
		amount = integrateMonthlyDayRates(obligation.Amount, input.WindowStart, input.WindowEnd)
	} else {
		days := valueobject.DaysInclusive(input.WindowStart, input.WindowEnd)
		amount = obligation.Amount.
			Mul(decimal.NewFromInt(int64(days))).
			Div(decimal.NewFromInt(int64(cadence.NominalDays())))
	}

	dueInWindow, err := uc.dueInWindow(obligation, cadence, input.WindowStart, input.WindowEnd)
	if err != nil {
		return nil, err
	}

	return &CalculateProrationOutput{
		Amount:      amount.Round(2),
		DueInWindow: dueInWindow,
	}, nil
}

// dueInWindow locates the single cadence-tracking due occurrence relative to
// the window: the first in-phase date at-or-after the window start, checked
// against the inclusive window end.
func (uc *CalculateProrationUseCase) dueInWindow(obligation *entity.Obligation, cadence valueobject.Cadence, start, end time.Time) (bool, error) {
	anchor, ok := obligation.AnchorDate()
	if !ok {
		return false, domainerror.ErrMissingAnchorDate
	}

	candidate := anchor
	for candidate.After(start) {
		candidate = cadence.Previous(candidate)
	}
	for candidate.Before(start) {
		candidate = cadence.Next(candidate)
	}
	return !candidate.After(end), nil
}

// integrateMonthlyDayRates walks the window one calendar day at a time,
// accruing that day's share of the monthly amount. Intermediate sums are not
// rounded; the caller rounds the final result.
func integrateMonthlyDayRates(monthlyAmount decimal.Decimal, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	for !day.After(last) {
		daysInMonth := decimal.NewFromInt(int64(valueobject.DaysInMonth(day)))
		total = total.Add(monthlyAmount.Div(daysInMonth))
		day = day.AddDate(0, 0, 1)
	}
	return total
}
