// Package events delivers queued obligation events to the lifecycle handlers.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/application/usecase/period"
	"github.com/billflow/backend/internal/domain/entity"
)

// Worker polls the obligation event queue and dispatches events to the
// lifecycle handlers. Delivery is at-least-once: a crash between handler
// completion and the processed mark re-delivers on the next poll, and the
// handlers are idempotent recomputes so re-delivery converges.
type Worker struct {
	queue        adapter.EventQueueRepository
	created      *period.HandleObligationCreatedUseCase
	updated      *period.HandleObligationUpdatedUseCase
	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
}

// WorkerConfig holds configuration for the event worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
		MaxAttempts:  5,
	}
}

// NewWorker creates a new event worker.
func NewWorker(
	queue adapter.EventQueueRepository,
	created *period.HandleObligationCreatedUseCase,
	updated *period.HandleObligationUpdatedUseCase,
	config WorkerConfig,
) *Worker {
	return &Worker{
		queue:        queue,
		created:      created,
		updated:      updated,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		maxAttempts:  config.MaxAttempts,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Event worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on ticker
	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Event worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// processBatch fetches and processes a batch of pending events.
func (w *Worker) processBatch(ctx context.Context) {
	events, err := w.queue.GetPending(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending obligation events", "error", err)
		return
	}

	if len(events) == 0 {
		return
	}

	slog.Debug("Processing event batch", "count", len(events))

	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		default:
			w.processEvent(ctx, event)
		}
	}
}

// processEvent delivers a single event to its handler.
func (w *Worker) processEvent(ctx context.Context, event *entity.ObligationEvent) {
	logger := slog.With(
		"event_id", event.ID,
		"obligation_id", event.ObligationID,
		"kind", event.Kind,
	)

	if event.Attempts >= w.maxAttempts {
		logger.Warn("Event exhausted retries, dropping",
			"attempts", event.Attempts,
			"last_error", event.LastError,
		)
		event.MarkProcessed()
		if err := w.queue.Update(ctx, event); err != nil {
			logger.Error("Failed to retire exhausted event", "error", err)
		}
		return
	}

	event.MarkProcessing()
	if err := w.queue.Update(ctx, event); err != nil {
		logger.Error("Failed to mark event as processing", "error", err)
		return
	}

	if err := w.dispatch(ctx, event); err != nil {
		logger.Error("Event handler failed", "error", err)
		event.MarkFailed(err)
		if updateErr := w.queue.Update(ctx, event); updateErr != nil {
			logger.Error("Failed to update event after failure", "error", updateErr)
		}
		return
	}

	event.MarkProcessed()
	if err := w.queue.Update(ctx, event); err != nil {
		logger.Error("Failed to mark event as processed", "error", err)
		return
	}

	logger.Info("Event processed", "attempts", event.Attempts)
}

// dispatch routes the event to the matching lifecycle handler. Partial
// failures inside a handler come back as collected result errors, not handler
// errors, and do not fail the event.
func (w *Worker) dispatch(ctx context.Context, event *entity.ObligationEvent) error {
	switch event.Kind {
	case entity.ObligationEventCreated:
		result, err := w.created.Execute(ctx, period.HandleObligationCreatedInput{
			ObligationID: event.ObligationID,
		})
		if err != nil {
			return err
		}
		if result.HasErrors() {
			slog.Warn("Created handler finished with partial failures",
				"obligation_id", event.ObligationID,
				"errors", result.Errors,
			)
		}
		return nil
	case entity.ObligationEventUpdated:
		result, err := w.updated.Execute(ctx, period.HandleObligationUpdatedInput{
			ObligationID:  event.ObligationID,
			AmountChanged: event.AmountChanged,
			NameChanged:   event.NameChanged,
			LinkedChanged: event.LinkedChanged,
			Deactivated:   event.Deactivated,
		})
		if err != nil {
			return err
		}
		if result.HasErrors() {
			slog.Warn("Updated handler finished with partial failures",
				"obligation_id", event.ObligationID,
				"errors", result.Errors,
			)
		}
		return nil
	default:
		slog.Warn("Unknown event kind, skipping", "kind", event.Kind)
		return nil
	}
}

// ProcessNow processes all pending events immediately (useful for testing).
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}
