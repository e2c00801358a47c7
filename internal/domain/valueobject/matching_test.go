package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDayDistance(t *testing.T) {
	t.Run("should be symmetric", func(t *testing.T) {
		a := date(2024, time.June, 10)
		b := date(2024, time.June, 13)
		if DayDistance(a, b) != 3 || DayDistance(b, a) != 3 {
			t.Errorf("expected distance 3 both ways, got %d and %d", DayDistance(a, b), DayDistance(b, a))
		}
	})

	t.Run("should ignore time of day", func(t *testing.T) {
		a := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.UTC)
		b := time.Date(2024, time.June, 11, 0, 1, 0, 0, time.UTC)
		if got := DayDistance(a, b); got != 1 {
			t.Errorf("expected distance 1, got %d", got)
		}
	})

	t.Run("should return 0 for the same day", func(t *testing.T) {
		if got := DayDistance(date(2024, time.June, 10), date(2024, time.June, 10)); got != 0 {
			t.Errorf("expected distance 0, got %d", got)
		}
	})
}

func TestWithinTolerance(t *testing.T) {
	config := DefaultMatchingConfig()
	due := date(2024, time.June, 10)

	t.Run("should accept a transaction exactly at tolerance", func(t *testing.T) {
		if !config.WithinTolerance(date(2024, time.June, 13), due) {
			t.Error("expected 3-day distance to be within tolerance")
		}
	})

	t.Run("should reject a transaction one day past tolerance", func(t *testing.T) {
		if config.WithinTolerance(date(2024, time.June, 14), due) {
			t.Error("expected 4-day distance to be outside tolerance")
		}
	})

	t.Run("should accept early transactions within tolerance", func(t *testing.T) {
		if !config.WithinTolerance(date(2024, time.June, 7), due) {
			t.Error("expected 3 days early to be within tolerance")
		}
	})
}

func TestClassifyPayment(t *testing.T) {
	config := DefaultMatchingConfig()
	due := date(2024, time.June, 10)
	amountDue := decimal.NewFromInt(100)

	t.Run("should classify on-time expected amount as regular", func(t *testing.T) {
		got := config.ClassifyPayment(amountDue, amountDue, due, due)
		if got != PaymentTypeRegular {
			t.Errorf("expected REGULAR, got %s", got)
		}
	})

	t.Run("should classify overshoot above ten percent as extra principal", func(t *testing.T) {
		got := config.ClassifyPayment(decimal.NewFromFloat(110.01), amountDue, due, due)
		if got != PaymentTypeExtraPrincipal {
			t.Errorf("expected EXTRA_PRINCIPAL, got %s", got)
		}
	})

	t.Run("should keep exactly ten percent over as regular", func(t *testing.T) {
		got := config.ClassifyPayment(decimal.NewFromInt(110), amountDue, due, due)
		if got != PaymentTypeRegular {
			t.Errorf("expected REGULAR at the threshold, got %s", got)
		}
	})

	t.Run("should classify payments after the due date as catch up", func(t *testing.T) {
		got := config.ClassifyPayment(amountDue, amountDue, date(2024, time.June, 12), due)
		if got != PaymentTypeCatchUp {
			t.Errorf("expected CATCH_UP, got %s", got)
		}
	})

	t.Run("should classify payments more than seven days early as advance", func(t *testing.T) {
		got := config.ClassifyPayment(amountDue, amountDue, date(2024, time.June, 2), due)
		if got != PaymentTypeAdvance {
			t.Errorf("expected ADVANCE, got %s", got)
		}
	})

	t.Run("should keep exactly seven days early as regular", func(t *testing.T) {
		got := config.ClassifyPayment(amountDue, amountDue, date(2024, time.June, 3), due)
		if got != PaymentTypeRegular {
			t.Errorf("expected REGULAR at seven days early, got %s", got)
		}
	})

	t.Run("should let amount overshoot win over lateness", func(t *testing.T) {
		got := config.ClassifyPayment(decimal.NewFromInt(150), amountDue, date(2024, time.June, 12), due)
		if got != PaymentTypeExtraPrincipal {
			t.Errorf("expected EXTRA_PRINCIPAL to take precedence, got %s", got)
		}
	})

	t.Run("should let lateness win over earliness check", func(t *testing.T) {
		// A late payment can never be ADVANCE even when far from the due date.
		got := config.ClassifyPayment(amountDue, amountDue, date(2024, time.June, 25), due)
		if got != PaymentTypeCatchUp {
			t.Errorf("expected CATCH_UP, got %s", got)
		}
	})
}
