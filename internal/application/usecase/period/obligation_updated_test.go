package period

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/usecase/matching"
	"github.com/billflow/backend/internal/application/usecase/summary"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

type updatedFixture struct {
	obligation     *entity.Obligation
	obligationRepo *fakeObligationRepo
	periodRepo     *fakePeriodRepo
	sourceRepo     *fakeSourcePeriodRepo
	lineItemRepo   *fakeLineItemRepo
	summaryRepo    *fakeSummaryRepo
	uc             *HandleObligationUpdatedUseCase
}

// newUpdatedFixture materializes June and July periods for a monthly rent
// obligation and wires the update handler against fakes.
func newUpdatedFixture(t *testing.T) *updatedFixture {
	t.Helper()
	ctx := context.Background()

	obligation := rentObligation()
	obligationRepo := newFakeObligationRepo(obligation)
	periodRepo := newFakePeriodRepo()
	sourceRepo := &fakeSourcePeriodRepo{sourcePeriods: []*entity.SourcePeriod{
		monthSourcePeriod("2024-06", 2024, time.June),
		monthSourcePeriod("2024-07", 2024, time.July),
	}}
	lineItemRepo := &fakeLineItemRepo{}
	summaryRepo := newFakeSummaryRepo()

	materialize := NewMaterializePeriodsUseCase(periodRepo, sourceRepo, 500, 3)
	if _, err := materialize.Execute(ctx, MaterializePeriodsInput{
		Obligation:  obligation,
		WindowStart: date(2024, time.June, 1),
		WindowEnd:   date(2024, time.July, 31),
	}); err != nil {
		t.Fatalf("fixture materialization failed: %v", err)
	}

	match := matching.NewMatchTransactionsUseCase(periodRepo, lineItemRepo, valueobject.DefaultMatchingConfig())
	recalculate := summary.NewRecalculateBucketUseCase(periodRepo, summaryRepo, nil)
	rematch := NewRematchObligationUseCase(obligationRepo, periodRepo, match, recalculate)

	return &updatedFixture{
		obligation:     obligation,
		obligationRepo: obligationRepo,
		periodRepo:     periodRepo,
		sourceRepo:     sourceRepo,
		lineItemRepo:   lineItemRepo,
		summaryRepo:    summaryRepo,
		uc:             NewHandleObligationUpdatedUseCase(obligationRepo, periodRepo, sourceRepo, rematch, recalculate),
	}
}

// settleJune marks the June period's occurrence paid, simulating settled
// payment history.
func (f *updatedFixture) settleJune(t *testing.T) {
	t.Helper()
	p := f.periodRepo.periods[entity.PeriodID(f.obligation.ID, "2024-06")]
	if p == nil || len(p.Occurrences) == 0 {
		t.Fatal("fixture missing June period occurrences")
	}
	txID := "tx-june"
	p.Occurrences[0].Status = entity.OccurrenceStatusPaid
	p.Occurrences[0].TransactionID = &txID
	p.Occurrences[0].AmountPaid = p.Occurrences[0].AmountDue
	p.Occurrences[0].PaymentType = valueobject.PaymentTypeRegular
	p.RecalculateTotals()
}

func TestHandleObligationUpdatedUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("should rebuild unsettled periods on an amount change and freeze settled ones", func(t *testing.T) {
		f := newUpdatedFixture(t)
		f.settleJune(t)

		f.obligation.Amount = decimal.NewFromInt(1500)
		result, err := f.uc.Execute(ctx, HandleObligationUpdatedInput{
			ObligationID:  f.obligation.ID,
			AmountChanged: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PeriodsWritten != 1 || result.PeriodsSkipped != 1 {
			t.Errorf("expected 1 written and 1 skipped, got %d and %d", result.PeriodsWritten, result.PeriodsSkipped)
		}

		june := f.periodRepo.periods[entity.PeriodID(f.obligation.ID, "2024-06")]
		if !june.AmountPerOccurrence.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected the settled June period frozen at 1200, got %s", june.AmountPerOccurrence)
		}
		if june.Occurrences[0].Status != entity.OccurrenceStatusPaid {
			t.Error("expected the settled June occurrence to keep its payment")
		}

		july := f.periodRepo.periods[entity.PeriodID(f.obligation.ID, "2024-07")]
		if !july.AmountPerOccurrence.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected the July period rebuilt at 1500, got %s", july.AmountPerOccurrence)
		}
		if !july.TotalAmountDue.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected July total due 1500, got %s", july.TotalAmountDue)
		}
	})

	t.Run("should propagate a name change to settled periods too", func(t *testing.T) {
		f := newUpdatedFixture(t)
		f.settleJune(t)

		f.obligation.MerchantName = "Acme Properties LLC"
		result, err := f.uc.Execute(ctx, HandleObligationUpdatedInput{
			ObligationID: f.obligation.ID,
			NameChanged:  true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PeriodsWritten != 2 {
			t.Errorf("expected both periods written, got %d", result.PeriodsWritten)
		}

		june := f.periodRepo.periods[entity.PeriodID(f.obligation.ID, "2024-06")]
		if june.MerchantName != "Acme Properties LLC" {
			t.Errorf("expected the settled period renamed, got %q", june.MerchantName)
		}
		if june.Occurrences[0].Status != entity.OccurrenceStatusPaid {
			t.Error("expected the payment untouched by a display-only change")
		}
	})

	t.Run("should mark all periods inactive on deactivation", func(t *testing.T) {
		f := newUpdatedFixture(t)

		f.obligation.Deactivate()
		result, err := f.uc.Execute(ctx, HandleObligationUpdatedInput{
			ObligationID: f.obligation.ID,
			Deactivated:  true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PeriodsWritten != 2 {
			t.Errorf("expected both periods written, got %d", result.PeriodsWritten)
		}
		for _, id := range []string{"2024-06", "2024-07"} {
			p := f.periodRepo.periods[entity.PeriodID(f.obligation.ID, id)]
			if p.State != entity.PeriodStateInactive {
				t.Errorf("period %s: expected inactive state, got %s", id, p.State)
			}
		}
	})

	t.Run("should remove deactivated periods from summary buckets", func(t *testing.T) {
		f := newUpdatedFixture(t)

		// Seed the summary with the active buckets first.
		recalculate := summary.NewRecalculateBucketUseCase(f.periodRepo, f.summaryRepo, nil)
		for _, id := range []string{"2024-06", "2024-07"} {
			err := recalculate.Execute(ctx, summary.RecalculateBucketInput{
				OwnerID:        f.obligation.OwnerID,
				OwnerType:      f.obligation.OwnerType,
				SourcePeriodID: id,
				PeriodType:     entity.PeriodTypeMonth,
			})
			if err != nil {
				t.Fatalf("seeding summary failed: %v", err)
			}
		}

		f.obligation.Deactivate()
		if _, err := f.uc.Execute(ctx, HandleObligationUpdatedInput{
			ObligationID: f.obligation.ID,
			Deactivated:  true,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := f.summaryRepo.summaries[entity.SummaryID(f.obligation.OwnerID, f.obligation.OwnerType, entity.PeriodTypeMonth)]
		if s == nil {
			t.Fatal("expected a summary document")
		}
		if len(s.Buckets) != 0 {
			t.Errorf("expected all buckets removed after deactivation, got %d", len(s.Buckets))
		}
	})

	t.Run("should rematch when the linked transaction set changes", func(t *testing.T) {
		f := newUpdatedFixture(t)

		f.lineItemRepo.items = []*entity.TransactionLineItem{{
			ID:           "tx-1",
			ObligationID: f.obligation.ID,
			Date:         date(2024, time.June, 1),
			Amount:       decimal.NewFromInt(1200),
		}}
		result, err := f.uc.Execute(ctx, HandleObligationUpdatedInput{
			ObligationID:  f.obligation.ID,
			LinkedChanged: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.HasErrors() {
			t.Fatalf("unexpected errors: %v", result.Errors)
		}

		june := f.periodRepo.periods[entity.PeriodID(f.obligation.ID, "2024-06")]
		if june.Occurrences[0].Status != entity.OccurrenceStatusPaid {
			t.Error("expected the June occurrence matched after the linked set change")
		}
		if june.Status != entity.PeriodStatusPaid {
			t.Errorf("expected June fully paid, got %s", june.Status)
		}
	})

	t.Run("should skip silently when the obligation no longer exists", func(t *testing.T) {
		f := newUpdatedFixture(t)
		delete(f.obligationRepo.obligations, f.obligation.ID)

		result, err := f.uc.Execute(ctx, HandleObligationUpdatedInput{
			ObligationID:  f.obligation.ID,
			AmountChanged: true,
		})
		if err != nil {
			t.Fatalf("expected a missing obligation to be skipped, got %v", err)
		}
		if result.PeriodsWritten != 0 {
			t.Errorf("expected nothing written, got %d", result.PeriodsWritten)
		}
	})
}
