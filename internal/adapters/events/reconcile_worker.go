package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/application"
)

// ReconcileWorker periodically sweeps open deliveries so reservations left
// pending by earlier passes get retried once stock changes.
type ReconcileWorker struct {
	logger   *slog.Logger
	service  *application.Service
	interval time.Duration
}

func NewReconcileWorker(logger *slog.Logger, service *application.Service, interval time.Duration) *ReconcileWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ReconcileWorker{logger: logger, service: service, interval: interval}
}

func (w *ReconcileWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.service.ReconcileOpenDeliveries(ctx); err != nil {
			w.logger.ErrorContext(ctx, "delivery reconciliation pass failed",
				"module", "events.reconcile_worker",
				"layer", "adapter",
				"operation", "reconcile_open_deliveries",
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
