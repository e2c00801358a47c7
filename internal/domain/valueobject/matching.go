// Package valueobject contains domain value objects for the Billflow system.
package valueobject

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType classifies how a matched transaction relates to its occurrence.
type PaymentType string

const (
	// PaymentTypeRegular is an on-time payment close to the expected amount.
	PaymentTypeRegular PaymentType = "REGULAR"
	// PaymentTypeExtraPrincipal is a payment exceeding the due amount by more
	// than the extra-principal threshold.
	PaymentTypeExtraPrincipal PaymentType = "EXTRA_PRINCIPAL"
	// PaymentTypeCatchUp is a payment dated after the occurrence due date.
	PaymentTypeCatchUp PaymentType = "CATCH_UP"
	// PaymentTypeAdvance is a payment made well before the occurrence due date.
	PaymentTypeAdvance PaymentType = "ADVANCE"
)

// MatchingConfig contains the configuration for transaction-to-occurrence
// matching.
type MatchingConfig struct {
	// DateToleranceDays is the maximum absolute day-distance between a
	// transaction date and an occurrence due date for a match to be accepted.
	DateToleranceDays int

	// ExtraPrincipalPercent is the fraction by which a payment must exceed
	// the due amount to classify as EXTRA_PRINCIPAL. 0.10 = 10%.
	ExtraPrincipalPercent decimal.Decimal

	// AdvanceDays is how many days before the due date a payment must land
	// to classify as ADVANCE.
	AdvanceDays int
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		DateToleranceDays:     3,
		ExtraPrincipalPercent: decimal.NewFromFloat(0.10),
		AdvanceDays:           7,
	}
}

// DayDistance returns the absolute distance between two dates in whole days,
// ignoring the time-of-day component.
func DayDistance(a, b time.Time) int {
	ad := truncateToDay(a)
	bd := truncateToDay(b)
	days := int(ad.Sub(bd).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// WithinTolerance reports whether a transaction date is close enough to an
// occurrence due date to be considered a match.
func (c MatchingConfig) WithinTolerance(transactionDate, dueDate time.Time) bool {
	return DayDistance(transactionDate, dueDate) <= c.DateToleranceDays
}

// ClassifyPayment determines the payment type for a matched transaction.
// Precedence: amount overshoot, then lateness, then earliness.
func (c MatchingConfig) ClassifyPayment(amountPaid, amountDue decimal.Decimal, transactionDate, dueDate time.Time) PaymentType {
	threshold := amountDue.Add(amountDue.Mul(c.ExtraPrincipalPercent))
	if amountPaid.GreaterThan(threshold) {
		return PaymentTypeExtraPrincipal
	}

	td := truncateToDay(transactionDate)
	dd := truncateToDay(dueDate)
	if td.After(dd) {
		return PaymentTypeCatchUp
	}
	if DayDistance(transactionDate, dueDate) > c.AdvanceDays {
		return PaymentTypeAdvance
	}
	return PaymentTypeRegular
}
