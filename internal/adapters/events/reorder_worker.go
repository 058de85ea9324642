package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/application"
)

// ReorderWorker drives the scheduled replenishment pass.
type ReorderWorker struct {
	logger   *slog.Logger
	service  *application.Service
	interval time.Duration
}

func NewReorderWorker(logger *slog.Logger, service *application.Service, interval time.Duration) *ReorderWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReorderWorker{logger: logger, service: service, interval: interval}
}

func (w *ReorderWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.service.RunReorderPass(ctx); err != nil {
			w.logger.ErrorContext(ctx, "reorder pass failed",
				"module", "events.reorder_worker",
				"layer", "adapter",
				"operation", "run_reorder_pass",
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
