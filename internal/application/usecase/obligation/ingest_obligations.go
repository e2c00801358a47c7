// Package obligation contains obligation lifecycle use cases.
package obligation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// IngestObligationsInput represents one provider sync run for an owner.
type IngestObligationsInput struct {
	OwnerID     uuid.UUID
	OwnerType   entity.OwnerType
	AccessToken string
}

// IngestObligationsUseCase syncs the provider's recurring streams into
// obligations: unseen streams create, known streams update in place keyed by
// the provider stream ID. Individual stream failures are collected and never
// abort the run.
type IngestObligationsUseCase struct {
	provider       adapter.RecurringProvider
	obligationRepo adapter.ObligationRepository
}

// NewIngestObligationsUseCase creates a new IngestObligationsUseCase instance.
func NewIngestObligationsUseCase(
	provider adapter.RecurringProvider,
	obligationRepo adapter.ObligationRepository,
) *IngestObligationsUseCase {
	return &IngestObligationsUseCase{
		provider:       provider,
		obligationRepo: obligationRepo,
	}
}

// Execute fetches the provider streams and creates or updates one obligation
// per stream, enqueueing a lifecycle event for each write.
func (uc *IngestObligationsUseCase) Execute(ctx context.Context, input IngestObligationsInput) (*valueobject.IngestResult, error) {
	streams, err := uc.provider.ListRecurringStreams(ctx, input.AccessToken)
	if err != nil {
		return nil, err
	}

	result := &valueobject.IngestResult{StreamsFound: len(streams)}
	for _, stream := range streams {
		if err := uc.ingestStream(ctx, input, stream, result); err != nil {
			result.RecordError(stream.StreamID, err)
		}
	}

	slog.Info("Provider ingestion finished",
		"owner_id", input.OwnerID,
		"streams", result.StreamsFound,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (uc *IngestObligationsUseCase) ingestStream(
	ctx context.Context,
	input IngestObligationsInput,
	stream adapter.RecurringStream,
	result *valueobject.IngestResult,
) error {
	existing, err := uc.obligationRepo.FindByProviderStreamID(ctx, stream.StreamID)
	if err != nil {
		if !errors.Is(err, domainerror.ErrObligationNotFound) {
			return err
		}
		return uc.createFromStream(ctx, input, stream, result)
	}
	return uc.updateFromStream(ctx, existing, stream, result)
}

func (uc *IngestObligationsUseCase) createFromStream(
	ctx context.Context,
	input IngestObligationsInput,
	stream adapter.RecurringStream,
	result *valueobject.IngestResult,
) error {
	if stream.Amount.IsZero() {
		slog.Warn("Provider stream has zero amount, skipping", "stream_id", stream.StreamID)
		result.Skipped++
		return nil
	}

	cadence, known := valueobject.NormalizeCadence(stream.Cadence)
	if !known {
		slog.Warn("Unknown cadence from provider, defaulting to monthly",
			"cadence", stream.Cadence,
			"stream_id", stream.StreamID,
		)
	}

	obligationType := entity.ObligationTypeBill
	if stream.IsIncome {
		obligationType = entity.ObligationTypeIncome
	}

	obligation := entity.NewObligation(
		input.OwnerID,
		input.OwnerType,
		stream.MerchantName,
		stream.Description,
		obligationType,
		stream.Amount,
		cadence,
		stream.FirstDate,
	)
	obligation.ProviderStreamID = stream.StreamID
	obligation.Category = stream.Category
	obligation.LastDate = stream.LastDate
	obligation.PredictedNextDate = stream.PredictedNextDate
	obligation.LinkedTransactionIDs = stream.TransactionIDs
	if !stream.IsActive {
		obligation.Status = entity.ObligationStatusInactive
	}

	event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventCreated)
	if err := uc.obligationRepo.CreateWithEvent(ctx, obligation, event); err != nil {
		return err
	}
	result.Created++
	return nil
}

// updateFromStream refreshes an ingested obligation from the provider's
// latest view of the stream and classifies what changed so the event worker
// only does the recompute the change requires.
func (uc *IngestObligationsUseCase) updateFromStream(
	ctx context.Context,
	obligation *entity.Obligation,
	stream adapter.RecurringStream,
	result *valueobject.IngestResult,
) error {
	event := entity.NewObligationEvent(obligation.ID, entity.ObligationEventUpdated)
	anchorChanged := false

	if !stream.Amount.IsZero() && !stream.Amount.Abs().Equal(obligation.Amount) {
		obligation.Amount = stream.Amount.Abs()
		event.AmountChanged = true
	}
	if stream.MerchantName != obligation.MerchantName {
		obligation.MerchantName = stream.MerchantName
		event.NameChanged = true
	}
	if stream.Description != obligation.Description {
		obligation.Description = stream.Description
		event.NameChanged = true
	}
	if stream.Category != obligation.Category {
		obligation.Category = stream.Category
		anchorChanged = true
	}
	if !stream.LastDate.IsZero() && !stream.LastDate.Equal(obligation.LastDate) {
		obligation.LastDate = stream.LastDate
		anchorChanged = true
	}
	if !samePredictedDate(stream.PredictedNextDate, obligation.PredictedNextDate) {
		obligation.PredictedNextDate = stream.PredictedNextDate
		anchorChanged = true
	}
	if !sameIDSet(stream.TransactionIDs, obligation.LinkedTransactionIDs) {
		obligation.LinkedTransactionIDs = stream.TransactionIDs
		event.LinkedChanged = true
	}
	if !stream.IsActive && obligation.IsActive() {
		obligation.Status = entity.ObligationStatusInactive
		event.Deactivated = true
	}

	if !event.AmountChanged && !event.NameChanged && !event.LinkedChanged && !event.Deactivated && !anchorChanged {
		result.Skipped++
		return nil
	}

	// Anchor moves shift future occurrence dates, which the amount-change
	// rebuild path already recomputes.
	if anchorChanged {
		event.AmountChanged = true
	}

	obligation.UpdatedAt = time.Now().UTC()
	if err := uc.obligationRepo.UpdateWithEvent(ctx, obligation, event); err != nil {
		return err
	}
	result.Updated++
	return nil
}

func samePredictedDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
