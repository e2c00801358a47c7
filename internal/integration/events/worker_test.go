package events

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/application/usecase/matching"
	"github.com/billflow/backend/internal/application/usecase/period"
	"github.com/billflow/backend/internal/application/usecase/summary"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

var errStoreDown = errors.New("obligation store down")

type fakeQueue struct {
	events []*entity.ObligationEvent
}

func (q *fakeQueue) Enqueue(_ context.Context, event *entity.ObligationEvent) error {
	q.events = append(q.events, event)
	return nil
}

func (q *fakeQueue) GetPending(_ context.Context, limit int) ([]*entity.ObligationEvent, error) {
	var out []*entity.ObligationEvent
	for _, e := range q.events {
		if e.Status == entity.EventStatusPending || e.Status == entity.EventStatusFailed {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (q *fakeQueue) Update(_ context.Context, _ *entity.ObligationEvent) error {
	// Events are shared pointers; state transitions are already visible.
	return nil
}

type fakeObligationRepo struct {
	obligations map[uuid.UUID]*entity.Obligation
	err         error
}

func (r *fakeObligationRepo) CreateWithEvent(_ context.Context, obligation *entity.Obligation, _ *entity.ObligationEvent) error {
	r.obligations[obligation.ID] = obligation
	return nil
}

func (r *fakeObligationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Obligation, error) {
	if r.err != nil {
		return nil, r.err
	}
	if o, ok := r.obligations[id]; ok {
		return o, nil
	}
	return nil, domainerror.ErrObligationNotFound
}

func (r *fakeObligationRepo) FindByProviderStreamID(_ context.Context, _ string) (*entity.Obligation, error) {
	return nil, domainerror.ErrObligationNotFound
}

func (r *fakeObligationRepo) FindByOwner(_ context.Context, _ uuid.UUID, _ entity.OwnerType, _ bool) ([]*entity.Obligation, error) {
	return nil, nil
}

func (r *fakeObligationRepo) UpdateWithEvent(_ context.Context, obligation *entity.Obligation, _ *entity.ObligationEvent) error {
	r.obligations[obligation.ID] = obligation
	return nil
}

type fakePeriodRepo struct {
	periods map[string]*entity.Period
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
	sort.Slice(out, func(i, j int) bool { return out[i].SourcePeriodID < out[j].SourcePeriodID })
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

func (r *fakePeriodRepo) Save(_ context.Context, p *entity.Period) error {
	r.periods[p.ID] = p
	return nil
}

func (r *fakePeriodRepo) SaveBatch(_ context.Context, periods []*entity.Period) error {
	for _, p := range periods {
		r.periods[p.ID] = p
	}
	return nil
}

type fakeSourcePeriodRepo struct {
	sourcePeriods []*entity.SourcePeriod
}

func (r *fakeSourcePeriodRepo) FindByID(_ context.Context, id string) (*entity.SourcePeriod, error) {
	for _, sp := range r.sourcePeriods {
		if sp.ID == id {
			return sp, nil
		}
	}
	return nil, domainerror.ErrSourcePeriodNotFound
}

func (r *fakeSourcePeriodRepo) FindOverlapping(_ context.Context, start, end time.Time) ([]*entity.SourcePeriod, error) {
	var out []*entity.SourcePeriod
	for _, sp := range r.sourcePeriods {
		if sp.Overlaps(start, end) {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (r *fakeSourcePeriodRepo) FindIDsInRange(_ context.Context, periodType entity.PeriodType, start, end time.Time) ([]string, error) {
	var out []string
	for _, sp := range r.sourcePeriods {
		if sp.Type == periodType && sp.Overlaps(start, end) {
			out = append(out, sp.ID)
		}
	}
	return out, nil
}

type fakeLineItemRepo struct {
	items []*entity.TransactionLineItem
}

func (r *fakeLineItemRepo) FindByObligation(_ context.Context, obligationID uuid.UUID) ([]*entity.TransactionLineItem, error) {
	var out []*entity.TransactionLineItem
	for _, item := range r.items {
		if item.ObligationID == obligationID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeLineItemRepo) ReplaceForObligation(_ context.Context, _ uuid.UUID, _ []*entity.TransactionLineItem) error {
	return nil
}

type fakeSummaryRepo struct {
	summaries map[string]*entity.Summary
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
	return nil
}

type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string) (*entity.Summary, error) { return nil, nil }
func (noopCache) Set(_ context.Context, _ *entity.Summary) error           { return nil }
func (noopCache) Invalidate(_ context.Context, _ string) error             { return nil }

type workerFixture struct {
	queue          *fakeQueue
	obligationRepo *fakeObligationRepo
	periodRepo     *fakePeriodRepo
	summaryRepo    *fakeSummaryRepo
	worker         *Worker
}

func newWorkerFixture(obligations ...*entity.Obligation) *workerFixture {
	obligationRepo := &fakeObligationRepo{obligations: make(map[uuid.UUID]*entity.Obligation)}
	for _, o := range obligations {
		obligationRepo.obligations[o.ID] = o
	}
	periodRepo := &fakePeriodRepo{periods: make(map[string]*entity.Period)}
	sourcePeriodRepo := &fakeSourcePeriodRepo{sourcePeriods: []*entity.SourcePeriod{{
		ID:        "2024-06",
		Type:      entity.PeriodTypeMonth,
		StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		Year:      2024,
	}}}
	summaryRepo := &fakeSummaryRepo{summaries: make(map[string]*entity.Summary)}

	materialize := period.NewMaterializePeriodsUseCase(periodRepo, sourcePeriodRepo, 500, 3)
	match := matching.NewMatchTransactionsUseCase(periodRepo, &fakeLineItemRepo{}, valueobject.DefaultMatchingConfig())
	recalculate := summary.NewRecalculateBucketUseCase(periodRepo, summaryRepo, noopCache{})
	created := period.NewHandleObligationCreatedUseCase(obligationRepo, materialize, match, recalculate)
	rematch := period.NewRematchObligationUseCase(obligationRepo, periodRepo, match, recalculate)
	updated := period.NewHandleObligationUpdatedUseCase(obligationRepo, periodRepo, sourcePeriodRepo, rematch, recalculate)

	queue := &fakeQueue{}
	return &workerFixture{
		queue:          queue,
		obligationRepo: obligationRepo,
		periodRepo:     periodRepo,
		summaryRepo:    summaryRepo,
		worker: NewWorker(queue, created, updated, WorkerConfig{
			PollInterval: time.Second,
			BatchSize:    10,
			MaxAttempts:  3,
		}),
	}
}

func rentObligation() *entity.Obligation {
	return entity.NewObligation(
		uuid.New(),
		entity.OwnerTypeUser,
		"Acme Property Management",
		"Monthly rent",
		entity.ObligationTypeBill,
		decimal.NewFromInt(1200),
		valueobject.CadenceMonthly,
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	)
}

func TestWorker(t *testing.T) {
	ctx := context.Background()

	t.Run("should run the created cascade and mark the event processed", func(t *testing.T) {
		obligation := rentObligation()
		f := newWorkerFixture(obligation)
		event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventCreated)
		f.queue.events = append(f.queue.events, event)

		f.worker.ProcessNow(ctx)

		if event.Status != entity.EventStatusProcessed {
			t.Fatalf("expected the event processed, got %s", event.Status)
		}
		if event.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", event.Attempts)
		}

		periodID := entity.PeriodID(obligation.ID, "2024-06")
		p, ok := f.periodRepo.periods[periodID]
		if !ok {
			t.Fatal("expected the June period materialized")
		}
		if !p.ProratedAmount.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected prorated 1200, got %s", p.ProratedAmount)
		}

		doc, ok := f.summaryRepo.summaries[entity.SummaryID(obligation.OwnerID, obligation.OwnerType, entity.PeriodTypeMonth)]
		if !ok {
			t.Fatal("expected the summary document created")
		}
		entries := doc.Buckets["2024-06"]
		if len(entries) != 1 || entries[0].MerchantName != "Acme Property Management" {
			t.Errorf("expected the rent entry in the June bucket, got %v", entries)
		}

		remaining, _ := f.queue.GetPending(ctx, 10)
		if len(remaining) != 0 {
			t.Errorf("expected no retrievable events, got %d", len(remaining))
		}
	})

	t.Run("should deliver a deactivation to the updated handler", func(t *testing.T) {
		obligation := rentObligation()
		f := newWorkerFixture(obligation)
		f.queue.events = append(f.queue.events, entity.NewObligationEvent(obligation.ID, entity.ObligationEventCreated))
		f.worker.ProcessNow(ctx)

		obligation.Deactivate()
		event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventUpdated)
		event.Deactivated = true
		f.queue.events = append(f.queue.events, event)

		f.worker.ProcessNow(ctx)

		if event.Status != entity.EventStatusProcessed {
			t.Fatalf("expected the event processed, got %s", event.Status)
		}
		p := f.periodRepo.periods[entity.PeriodID(obligation.ID, "2024-06")]
		if p.State != entity.PeriodStateInactive {
			t.Errorf("expected the period inactive, got %s", p.State)
		}
		doc := f.summaryRepo.summaries[entity.SummaryID(obligation.OwnerID, obligation.OwnerType, entity.PeriodTypeMonth)]
		if _, ok := doc.Buckets["2024-06"]; ok {
			t.Error("expected the June bucket emptied")
		}
	})

	t.Run("should mark the event failed when the handler errors", func(t *testing.T) {
		obligation := rentObligation()
		f := newWorkerFixture(obligation)
		f.obligationRepo.err = errStoreDown
		event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventCreated)
		f.queue.events = append(f.queue.events, event)

		f.worker.ProcessNow(ctx)

		if event.Status != entity.EventStatusFailed {
			t.Fatalf("expected the event failed, got %s", event.Status)
		}
		if event.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", event.Attempts)
		}
		if !strings.Contains(event.LastError, "store down") {
			t.Errorf("expected the handler error recorded, got %q", event.LastError)
		}

		remaining, _ := f.queue.GetPending(ctx, 10)
		if len(remaining) != 1 {
			t.Errorf("expected the failed event retrievable for retry, got %d", len(remaining))
		}
	})

	t.Run("should retire an event after exhausting retries", func(t *testing.T) {
		obligation := rentObligation()
		f := newWorkerFixture(obligation)
		f.obligationRepo.err = errStoreDown
		event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventCreated)
		event.Status = entity.EventStatusFailed
		event.Attempts = 3
		event.LastError = "obligation store down"
		f.queue.events = append(f.queue.events, event)

		f.worker.ProcessNow(ctx)

		if event.Status != entity.EventStatusProcessed {
			t.Fatalf("expected the exhausted event retired, got %s", event.Status)
		}
		if event.Attempts != 3 {
			t.Errorf("expected no further attempts, got %d", event.Attempts)
		}
	})

	t.Run("should skip an unknown event kind", func(t *testing.T) {
		f := newWorkerFixture()
		event := entity.NewObligationEvent(uuid.New(), entity.ObligationEventKind("renamed"))
		f.queue.events = append(f.queue.events, event)

		f.worker.ProcessNow(ctx)

		if event.Status != entity.EventStatusProcessed {
			t.Errorf("expected the unknown event acknowledged, got %s", event.Status)
		}
	})

	t.Run("should treat a missing obligation as a skip", func(t *testing.T) {
		f := newWorkerFixture()
		event := entity.NewObligationEvent(uuid.New(), entity.ObligationEventCreated)
		f.queue.events = append(f.queue.events, event)

		f.worker.ProcessNow(ctx)

		if event.Status != entity.EventStatusProcessed {
			t.Fatalf("expected the event processed, got %s", event.Status)
		}
		if len(f.periodRepo.periods) != 0 {
			t.Error("expected no periods written")
		}
	})
}
