package summary

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

type fakePeriodRepo struct {
	periods map[string]*entity.Period
}

func newFakePeriodRepo(periods ...*entity.Period) *fakePeriodRepo {
	r := &fakePeriodRepo{periods: make(map[string]*entity.Period)}
	for _, p := range periods {
		r.periods[p.ID] = p
	}
	return r
}

func (r *fakePeriodRepo) FindByID(_ context.Context, id string) (*entity.Period, error) {
	if p, ok := r.periods[id]; ok {
		return p, nil
	}
	return nil, domainerror.ErrPeriodNotFound
}

func (r *fakePeriodRepo) FindByObligation(_ context.Context, obligationID uuid.UUID) ([]*entity.Period, error) {
	var out []*entity.Period
	for _, p := range r.periods {
		if p.ObligationID == obligationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePeriodRepo) FindActiveByBucket(_ context.Context, key adapter.PeriodBucketKey) ([]*entity.Period, error) {
	var out []*entity.Period
	for _, p := range r.periods {
		if p.OwnerID == key.OwnerID &&
			p.OwnerType == key.OwnerType &&
			p.SourcePeriodID == key.SourcePeriodID &&
			p.PeriodType == key.PeriodType &&
			p.State == entity.PeriodStateActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MerchantName < out[j].MerchantName })
	return out, nil
}

func (r *fakePeriodRepo) Save(_ context.Context, period *entity.Period) error {
	r.periods[period.ID] = period
	return nil
}

func (r *fakePeriodRepo) SaveBatch(_ context.Context, periods []*entity.Period) error {
	for _, p := range periods {
		r.periods[p.ID] = p
	}
	return nil
}

type fakeSummaryRepo struct {
	summaries   map[string]*entity.Summary
	mutateCount int
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[string]*entity.Summary)}
}

func (r *fakeSummaryRepo) Find(_ context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, periodType entity.PeriodType) (*entity.Summary, error) {
	if s, ok := r.summaries[entity.SummaryID(ownerID, ownerType, periodType)]; ok {
		return s, nil
	}
	return nil, domainerror.ErrSummaryNotFound
}

func (r *fakeSummaryRepo) Mutate(_ context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, periodType entity.PeriodType, fn adapter.SummaryMutator) error {
	id := entity.SummaryID(ownerID, ownerType, periodType)
	s, ok := r.summaries[id]
	if !ok {
		s = entity.NewSummary(ownerID, ownerType, periodType)
	}
	if err := fn(s); err != nil {
		return err
	}
	r.summaries[id] = s
	r.mutateCount++
	return nil
}

type recordingCache struct {
	store       map[string]*entity.Summary
	invalidated []string
	getErr      error
	sets        int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: make(map[string]*entity.Summary)}
}

func (c *recordingCache) Get(_ context.Context, summaryID string) (*entity.Summary, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.store[summaryID], nil
}

func (c *recordingCache) Set(_ context.Context, summary *entity.Summary) error {
	c.store[summary.ID] = summary
	c.sets++
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, summaryID string) error {
	delete(c.store, summaryID)
	c.invalidated = append(c.invalidated, summaryID)
	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func bucketPeriod(ownerID uuid.UUID, sourcePeriodID, merchant string, amount decimal.Decimal) *entity.Period {
	obligationID := uuid.New()
	p := &entity.Period{
		ID:                  entity.PeriodID(obligationID, sourcePeriodID),
		ObligationID:        obligationID,
		OwnerID:             ownerID,
		OwnerType:           entity.OwnerTypeUser,
		SourcePeriodID:      sourcePeriodID,
		PeriodType:          entity.PeriodTypeMonth,
		MerchantName:        merchant,
		Cadence:             valueobject.CadenceMonthly,
		AmountPerOccurrence: amount,
		State:               entity.PeriodStateActive,
		Occurrences: []entity.Occurrence{{
			ID:         entity.OccurrenceID(sourcePeriodID, 0),
			DueDate:    date(2024, time.June, 15),
			DrawDate:   date(2024, time.June, 17),
			AmountDue:  amount,
			Status:     entity.OccurrenceStatusUnpaid,
			AmountPaid: decimal.Zero,
		}},
	}
	p.RecalculateTotals()
	return p
}

func TestRecalculateBucketUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	input := RecalculateBucketInput{
		OwnerID:        ownerID,
		OwnerType:      entity.OwnerTypeUser,
		SourcePeriodID: "2024-06",
		PeriodType:     entity.PeriodTypeMonth,
	}

	t.Run("should project active bucket periods into summary entries", func(t *testing.T) {
		periodRepo := newFakePeriodRepo(
			bucketPeriod(ownerID, "2024-06", "Rent", decimal.NewFromInt(1200)),
			bucketPeriod(ownerID, "2024-06", "Gym", decimal.NewFromInt(10)),
		)
		summaryRepo := newFakeSummaryRepo()
		uc := NewRecalculateBucketUseCase(periodRepo, summaryRepo, nil)

		if err := uc.Execute(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := summaryRepo.summaries[entity.SummaryID(ownerID, entity.OwnerTypeUser, entity.PeriodTypeMonth)]
		if s == nil {
			t.Fatal("expected a summary document")
		}
		entries := s.Buckets["2024-06"]
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].MerchantName != "Gym" || entries[1].MerchantName != "Rent" {
			t.Errorf("expected entries ordered by merchant, got %q then %q",
				entries[0].MerchantName, entries[1].MerchantName)
		}
		if !entries[1].TotalAmountDue.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected rent total due 1200, got %s", entries[1].TotalAmountDue)
		}
	})

	t.Run("should delete the bucket key when no active periods remain", func(t *testing.T) {
		inactive := bucketPeriod(ownerID, "2024-06", "Rent", decimal.NewFromInt(1200))
		inactive.State = entity.PeriodStateInactive
		periodRepo := newFakePeriodRepo(inactive)
		summaryRepo := newFakeSummaryRepo()

		// Pre-populate the bucket the recompute should empty out.
		seed := entity.NewSummary(ownerID, entity.OwnerTypeUser, entity.PeriodTypeMonth)
		seed.SetBucket("2024-06", []entity.SummaryEntry{{PeriodID: inactive.ID}})
		summaryRepo.summaries[seed.ID] = seed

		uc := NewRecalculateBucketUseCase(periodRepo, summaryRepo, nil)
		if err := uc.Execute(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := summaryRepo.summaries[seed.ID]
		if _, ok := s.Buckets["2024-06"]; ok {
			t.Error("expected the empty bucket key deleted, found it present")
		}
	})

	t.Run("should not touch sibling buckets", func(t *testing.T) {
		periodRepo := newFakePeriodRepo(
			bucketPeriod(ownerID, "2024-06", "Rent", decimal.NewFromInt(1200)),
		)
		summaryRepo := newFakeSummaryRepo()
		seed := entity.NewSummary(ownerID, entity.OwnerTypeUser, entity.PeriodTypeMonth)
		seed.SetBucket("2024-05", []entity.SummaryEntry{{PeriodID: "keep-me"}})
		summaryRepo.summaries[seed.ID] = seed

		uc := NewRecalculateBucketUseCase(periodRepo, summaryRepo, nil)
		if err := uc.Execute(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := summaryRepo.summaries[seed.ID]
		if len(s.Buckets["2024-05"]) != 1 || s.Buckets["2024-05"][0].PeriodID != "keep-me" {
			t.Error("expected the May bucket untouched")
		}
		if len(s.Buckets["2024-06"]) != 1 {
			t.Errorf("expected the June bucket rebuilt with 1 entry, got %d", len(s.Buckets["2024-06"]))
		}
	})

	t.Run("should invalidate the cache after a recompute", func(t *testing.T) {
		periodRepo := newFakePeriodRepo(
			bucketPeriod(ownerID, "2024-06", "Rent", decimal.NewFromInt(1200)),
		)
		summaryRepo := newFakeSummaryRepo()
		cache := newRecordingCache()
		uc := NewRecalculateBucketUseCase(periodRepo, summaryRepo, cache)

		if err := uc.Execute(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantID := entity.SummaryID(ownerID, entity.OwnerTypeUser, entity.PeriodTypeMonth)
		if len(cache.invalidated) != 1 || cache.invalidated[0] != wantID {
			t.Errorf("expected invalidation of %q, got %v", wantID, cache.invalidated)
		}
	})

	t.Run("should surface repository failures", func(t *testing.T) {
		summaryRepo := newFakeSummaryRepo()
		uc := NewRecalculateBucketUseCase(failingPeriodRepo{}, summaryRepo, nil)

		if err := uc.Execute(ctx, input); err == nil {
			t.Error("expected an error from the failing repository")
		}
	})
}

type failingPeriodRepo struct{}

var errStoreDown = errors.New("store unavailable")

func (failingPeriodRepo) FindByID(context.Context, string) (*entity.Period, error) {
	return nil, errStoreDown
}

func (failingPeriodRepo) FindByObligation(context.Context, uuid.UUID) ([]*entity.Period, error) {
	return nil, errStoreDown
}

func (failingPeriodRepo) FindActiveByBucket(context.Context, adapter.PeriodBucketKey) ([]*entity.Period, error) {
	return nil, errStoreDown
}

func (failingPeriodRepo) Save(context.Context, *entity.Period) error { return errStoreDown }

func (failingPeriodRepo) SaveBatch(context.Context, []*entity.Period) error { return errStoreDown }
