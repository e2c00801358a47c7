package persistence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

func newTestPeriod(ownerID uuid.UUID, sourcePeriodID, merchant string) *entity.Period {
	obligationID := uuid.New()
	txID := "tx-1"
	p := &entity.Period{
		ID:                  entity.PeriodID(obligationID, sourcePeriodID),
		ObligationID:        obligationID,
		OwnerID:             ownerID,
		OwnerType:           entity.OwnerTypeUser,
		SourcePeriodID:      sourcePeriodID,
		PeriodType:          entity.PeriodTypeMonth,
		MerchantName:        merchant,
		Cadence:             valueobject.CadenceMonthly,
		AmountPerOccurrence: decimal.NewFromInt(100),
		ProratedAmount:      decimal.NewFromInt(100),
		DueInPeriod:         true,
		State:               entity.PeriodStateActive,
		Occurrences: []entity.Occurrence{
			{
				ID:          entity.OccurrenceID(sourcePeriodID, 0),
				Index:       0,
				DueDate:     date(2024, time.June, 10),
				DrawDate:    date(2024, time.June, 10),
				AmountDue:   decimal.NewFromInt(100),
				Status:      entity.OccurrenceStatusPaid,
				TransactionID: &txID,
				AmountPaid:  decimal.NewFromInt(100),
				PaymentType: valueobject.PaymentTypeRegular,
			},
			{
				ID:         entity.OccurrenceID(sourcePeriodID, 1),
				Index:      1,
				DueDate:    date(2024, time.June, 24),
				DrawDate:   date(2024, time.June, 24),
				AmountDue:  decimal.NewFromInt(100),
				Status:     entity.OccurrenceStatusUnpaid,
				AmountPaid: decimal.Zero,
			},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	p.RecalculateTotals()
	return p
}

func TestPeriodRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip a period with its occurrence document", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 500)
		period := newTestPeriod(uuid.New(), "2024-06", "Iron Gym")

		if err := repo.Save(ctx, period); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := repo.FindByID(ctx, period.ID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(loaded.Occurrences) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(loaded.Occurrences))
		}
		first := loaded.Occurrences[0]
		if first.Status != entity.OccurrenceStatusPaid {
			t.Errorf("expected first occurrence paid, got %s", first.Status)
		}
		if first.TransactionID == nil || *first.TransactionID != "tx-1" {
			t.Error("expected the transaction id preserved")
		}
		if first.PaymentType != valueobject.PaymentTypeRegular {
			t.Errorf("expected REGULAR payment type, got %s", first.PaymentType)
		}
		if !first.DueDate.Equal(date(2024, time.June, 10)) {
			t.Errorf("expected due date preserved, got %v", first.DueDate)
		}
		if loaded.Occurrences[1].TransactionID != nil {
			t.Error("expected the unpaid occurrence without a transaction id")
		}
		if !loaded.TotalAmountPaid.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected total paid 100, got %s", loaded.TotalAmountPaid)
		}
		if loaded.Status != entity.PeriodStatusPartiallyPaid {
			t.Errorf("expected partially_paid, got %s", loaded.Status)
		}
	})

	t.Run("should upsert on repeated saves of the same id", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewPeriodRepository(db, 500)
		period := newTestPeriod(uuid.New(), "2024-06", "Iron Gym")

		if err := repo.Save(ctx, period); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		period.MerchantName = "Iron Gym Downtown"
		if err := repo.Save(ctx, period); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		loaded, err := repo.FindByID(ctx, period.ID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if loaded.MerchantName != "Iron Gym Downtown" {
			t.Errorf("expected updated merchant, got %q", loaded.MerchantName)
		}

		var count int64
		db.Table("periods").Count(&count)
		if count != 1 {
			t.Errorf("expected a single row after upsert, got %d", count)
		}
	})

	t.Run("should return not found for an unknown period", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 500)

		_, err := repo.FindByID(ctx, "missing")
		if !errors.Is(err, domainerror.ErrPeriodNotFound) {
			t.Errorf("expected ErrPeriodNotFound, got %v", err)
		}
	})

	t.Run("should list periods by obligation ordered by source period", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 500)
		ownerID := uuid.New()
		p1 := newTestPeriod(ownerID, "2024-07", "Iron Gym")
		p2 := newTestPeriod(ownerID, "2024-06", "Iron Gym")
		p2.ObligationID = p1.ObligationID
		p2.ID = entity.PeriodID(p2.ObligationID, p2.SourcePeriodID)

		for _, p := range []*entity.Period{p1, p2} {
			if err := repo.Save(ctx, p); err != nil {
				t.Fatalf("save failed: %v", err)
			}
		}

		periods, err := repo.FindByObligation(ctx, p1.ObligationID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(periods) != 2 {
			t.Fatalf("expected 2 periods, got %d", len(periods))
		}
		if periods[0].SourcePeriodID != "2024-06" || periods[1].SourcePeriodID != "2024-07" {
			t.Error("expected periods ordered by source period id")
		}
	})

	t.Run("should scope bucket queries to active periods of the key", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 500)
		ownerID := uuid.New()

		rent := newTestPeriod(ownerID, "2024-06", "Rent")
		gym := newTestPeriod(ownerID, "2024-06", "Gym")
		inactive := newTestPeriod(ownerID, "2024-06", "Cancelled")
		inactive.State = entity.PeriodStateInactive
		otherBucket := newTestPeriod(ownerID, "2024-07", "Rent")
		otherOwner := newTestPeriod(uuid.New(), "2024-06", "Rent")

		for _, p := range []*entity.Period{rent, gym, inactive, otherBucket, otherOwner} {
			if err := repo.Save(ctx, p); err != nil {
				t.Fatalf("save failed: %v", err)
			}
		}

		periods, err := repo.FindActiveByBucket(ctx, adapter.PeriodBucketKey{
			OwnerID:        ownerID,
			OwnerType:      entity.OwnerTypeUser,
			SourcePeriodID: "2024-06",
			PeriodType:     entity.PeriodTypeMonth,
		})
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(periods) != 2 {
			t.Fatalf("expected 2 periods in the bucket, got %d", len(periods))
		}
		if periods[0].MerchantName != "Gym" || periods[1].MerchantName != "Rent" {
			t.Errorf("expected merchant ordering, got %q then %q", periods[0].MerchantName, periods[1].MerchantName)
		}
	})

	t.Run("should commit a full batch atomically", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 500)
		ownerID := uuid.New()
		batch := []*entity.Period{
			newTestPeriod(ownerID, "2024-06", "Rent"),
			newTestPeriod(ownerID, "2024-07", "Rent"),
			newTestPeriod(ownerID, "2024-08", "Rent"),
		}

		if err := repo.SaveBatch(ctx, batch); err != nil {
			t.Fatalf("batch save failed: %v", err)
		}
		for _, p := range batch {
			if _, err := repo.FindByID(ctx, p.ID); err != nil {
				t.Errorf("period %s not persisted: %v", p.ID, err)
			}
		}
	})

	t.Run("should reject a batch above the write limit", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 2)
		ownerID := uuid.New()
		batch := []*entity.Period{
			newTestPeriod(ownerID, "2024-06", "Rent"),
			newTestPeriod(ownerID, "2024-07", "Rent"),
			newTestPeriod(ownerID, "2024-08", "Rent"),
		}

		err := repo.SaveBatch(ctx, batch)
		if err == nil {
			t.Fatal("expected an error for an oversized batch")
		}
		if !strings.Contains(err.Error(), "exceeds write limit") {
			t.Errorf("expected a write-limit error, got %v", err)
		}
	})

	t.Run("should accept an empty batch", func(t *testing.T) {
		repo := NewPeriodRepository(newTestDB(t), 500)
		if err := repo.SaveBatch(ctx, nil); err != nil {
			t.Errorf("expected no error for an empty batch, got %v", err)
		}
	})
}
