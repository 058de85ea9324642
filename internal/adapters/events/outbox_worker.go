package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/ports"
)

// OutboxWorker drains unpublished inventory events to the broker.
// Failed publishes stay in the outbox with an incremented retry count
// and are picked up again on the next tick.
type OutboxWorker struct {
	logger    *slog.Logger
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	interval  time.Duration
	batchSize int
}

func NewOutboxWorker(logger *slog.Logger, outbox ports.OutboxRepository, publisher ports.EventPublisher, interval time.Duration, batchSize int) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxWorker{
		logger:    logger,
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "outbox drain failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "drain",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *OutboxWorker) processOnce(ctx context.Context) error {
	records, err := w.outbox.FetchUnpublished(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("fetch unpublished: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	failed := 0
	for _, rec := range records {
		if pubErr := w.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey); pubErr != nil {
			failed++
			_ = w.outbox.MarkFailed(ctx, rec.OutboxID, pubErr.Error(), now)
			continue
		}
		_ = w.outbox.MarkPublished(ctx, rec.OutboxID, now)
	}
	if failed > 0 {
		w.logger.WarnContext(ctx, "outbox drain left events unpublished",
			"module", "events.outbox_worker",
			"layer", "adapter",
			"operation", "drain",
			"outcome", "partial",
			"failed", failed,
			"batch", len(records),
		)
	}
	return nil
}
