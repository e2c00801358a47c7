package period

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
)

type fakeObligationRepo struct {
	obligations map[uuid.UUID]*entity.Obligation
}

func newFakeObligationRepo(obligations ...*entity.Obligation) *fakeObligationRepo {
	r := &fakeObligationRepo{obligations: make(map[uuid.UUID]*entity.Obligation)}
	for _, o := range obligations {
		r.obligations[o.ID] = o
	}
	return r
}

func (r *fakeObligationRepo) CreateWithEvent(_ context.Context, obligation *entity.Obligation, _ *entity.ObligationEvent) error {
	r.obligations[obligation.ID] = obligation
	return nil
}

func (r *fakeObligationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Obligation, error) {
	if o, ok := r.obligations[id]; ok {
		return o, nil
	}
	return nil, domainerror.ErrObligationNotFound
}

func (r *fakeObligationRepo) FindByProviderStreamID(_ context.Context, streamID string) (*entity.Obligation, error) {
	for _, o := range r.obligations {
		if o.ProviderStreamID == streamID {
			return o, nil
		}
	}
	return nil, domainerror.ErrObligationNotFound
}

func (r *fakeObligationRepo) FindByOwner(_ context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, activeOnly bool) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	for _, o := range r.obligations {
		if o.OwnerID != ownerID || o.OwnerType != ownerType {
			continue
		}
		if activeOnly && !o.IsActive() {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeObligationRepo) UpdateWithEvent(_ context.Context, obligation *entity.Obligation, _ *entity.ObligationEvent) error {
	r.obligations[obligation.ID] = obligation
	return nil
}

type fakePeriodRepo struct {
	periods    map[string]*entity.Period
	saveCount  int
	batchSizes []int
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

func (r *fakePeriodRepo) Save(_ context.Context, period *entity.Period) error {
	r.periods[period.ID] = period
	r.saveCount++
	return nil
}

func (r *fakePeriodRepo) SaveBatch(_ context.Context, periods []*entity.Period) error {
	for _, p := range periods {
		r.periods[p.ID] = p
	}
	r.batchSizes = append(r.batchSizes, len(periods))
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

func (r *fakeLineItemRepo) ReplaceForObligation(_ context.Context, obligationID uuid.UUID, items []*entity.TransactionLineItem) error {
	var kept []*entity.TransactionLineItem
	for _, item := range r.items {
		if item.ObligationID != obligationID {
			kept = append(kept, item)
		}
	}
	r.items = append(kept, items...)
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
