package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

// ReconcileOpenDeliveries runs one reconciliation pass over every
// non-completed delivery. Individual failures are logged and do not stop the
// pass; unsatisfiable reservations simply stay pending until the next run.
func (s *Service) ReconcileOpenDeliveries(ctx context.Context) error {
	open, err := s.deliveries.ListOpen(ctx)
	if err != nil {
		return err
	}
	for _, d := range open {
		if _, err := s.ReconcileDelivery(ctx, d.BranchID, d.OrderNumber); err != nil {
			s.logger.WarnContext(ctx, "delivery reconciliation failed",
				"module", "application.service",
				"operation", "reconcile_delivery",
				"outcome", "failure",
				"branch_id", d.BranchID,
				"order_number", d.OrderNumber,
				"error", err,
			)
		}
	}
	return nil
}

// ReconcileDelivery resolves the delivery's pending article diffs against the
// inventory ledger and recomputes its status. Completed deliveries are left
// untouched. A ledger rejection leaves the entry pending for a later pass.
func (s *Service) ReconcileDelivery(ctx context.Context, branchID, orderNumber int) (DeliveryView, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		delivery, err := s.deliveries.Get(ctx, branchID, orderNumber)
		if err != nil {
			return DeliveryView{}, err
		}
		if delivery.Completed() {
			return toDeliveryView(delivery), nil
		}

		delivery.Articles = s.resolveDiffs(ctx, branchID, delivery.Articles)
		if delivery.HasPending() || !s.fullyStocked(ctx, branchID, delivery.Articles) {
			delivery.Status = domain.DeliveryStatusWaiting
		} else {
			delivery.Status = domain.DeliveryStatusReady
		}
		delivery.UpdatedAt = s.nowFn()

		updated, err := s.deliveries.Replace(ctx, delivery)
		if err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return DeliveryView{}, err
		}
		return toDeliveryView(updated), nil
	}
	return DeliveryView{}, domain.ErrVersionConflict
}

// resolveDiffs applies pending diff markers to the ledger. ADD/MODIFY/
// PROCESSING entries become RESERVED once the reservation is booked; a REMOVE
// releases a previously resolved line and drops both entries. Entries whose
// ledger operation is rejected are kept as-is.
func (s *Service) resolveDiffs(ctx context.Context, branchID int, articles []domain.DeliveryArticle) []domain.DeliveryArticle {
	dropped := make(map[int]bool, len(articles))
	resolved := make([]domain.DeliveryArticle, len(articles))
	copy(resolved, articles)

	for i, entry := range resolved {
		if dropped[i] {
			continue
		}
		switch entry.Status {
		case domain.DeliveryArticleAdd, domain.DeliveryArticleModify, domain.DeliveryArticleProcessing:
			if _, err := s.catalog.AdjustReserved(ctx, branchID, entry.ArticleID, entry.Quantity); err == nil {
				resolved[i].Status = domain.DeliveryArticleReserved
			}
		case domain.DeliveryArticleRemove:
			target := -1
			for j, other := range resolved {
				if j != i && !dropped[j] && other.ArticleID == entry.ArticleID && other.Status == domain.DeliveryArticleReserved {
					target = j
					break
				}
			}
			if target == -1 {
				// nothing reserved to release, the removal is moot
				dropped[i] = true
				continue
			}
			if _, err := s.catalog.AdjustReserved(ctx, branchID, entry.ArticleID, -resolved[target].Quantity); err == nil {
				dropped[i] = true
				dropped[target] = true
			}
		}
	}

	out := make([]domain.DeliveryArticle, 0, len(resolved))
	for i, entry := range resolved {
		if !dropped[i] {
			out = append(out, entry)
		}
	}
	return out
}

// fullyStocked reports whether stock - reserved >= 0 holds for every article
// referenced by the delivery. Reservations beyond stock are legal on the
// ledger; they only keep the delivery in WAITING.
func (s *Service) fullyStocked(ctx context.Context, branchID int, articles []domain.DeliveryArticle) bool {
	seen := make(map[int]bool, len(articles))
	for _, entry := range articles {
		if seen[entry.ArticleID] {
			continue
		}
		seen[entry.ArticleID] = true
		article, err := s.catalog.GetArticle(ctx, branchID, entry.ArticleID)
		if err != nil || article.Available() < 0 {
			return false
		}
	}
	return true
}

// HandleDeliveryConfirmed completes a delivery on external confirmation:
// every article entry is taken out of stock and reservation, marked
// DELIVERED, and the delivery becomes COMPLETED. Readiness is deliberately
// not checked; a not-yet-READY delivery may be force-completed.
func (s *Service) HandleDeliveryConfirmed(ctx context.Context, payload []byte) error {
	var evt DeliveryConfirmedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return fmt.Errorf("%w: invalid %s payload", domain.ErrInvalidInput, EventTypeDeliveryConfirmed)
	}
	if s.isDuplicateEvent(ctx, evt.EventID) {
		return nil
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		delivery, err := s.deliveries.Get(ctx, evt.BranchID, evt.OrderNumber)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "delivery confirmation for unknown delivery discarded",
				"module", "application.service",
				"operation", "handle_delivery_confirmed",
				"outcome", "rejected",
				"branch_id", evt.BranchID,
				"order_number", evt.OrderNumber,
			)
			return nil
		}
		if err != nil {
			return err
		}
		if delivery.Completed() {
			s.markEventProcessed(ctx, evt.EventID, EventTypeDeliveryConfirmed)
			return nil
		}

		for i := range delivery.Articles {
			delivery.Articles[i].Status = domain.DeliveryArticleDelivered
		}
		delivery.Status = domain.DeliveryStatusCompleted
		delivery.UpdatedAt = s.nowFn()

		// Winning the version check makes this worker the single completer,
		// so the ledger release below runs exactly once per delivery.
		updated, err := s.deliveries.Replace(ctx, delivery)
		if err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return err
		}
		for _, entry := range updated.Articles {
			if _, err := s.catalog.AdjustStock(ctx, evt.BranchID, entry.ArticleID, -entry.Quantity); err != nil {
				s.logger.WarnContext(ctx, "stock release rejected during completion",
					"module", "application.service",
					"operation", "handle_delivery_confirmed",
					"branch_id", evt.BranchID,
					"article_id", entry.ArticleID,
					"error", err,
				)
			}
			if _, err := s.catalog.AdjustReserved(ctx, evt.BranchID, entry.ArticleID, -entry.Quantity); err != nil {
				s.logger.WarnContext(ctx, "reservation release rejected during completion",
					"module", "application.service",
					"operation", "handle_delivery_confirmed",
					"branch_id", evt.BranchID,
					"article_id", entry.ArticleID,
					"error", err,
				)
			}
		}
		s.invalidateCatalogCache(ctx, evt.BranchID)
		s.markEventProcessed(ctx, evt.EventID, EventTypeDeliveryConfirmed)
		if err := s.enqueueEvent(ctx, EventTypeArticleDelivered, ArticleDeliveredEvent{
			BranchID:    evt.BranchID,
			OrderNumber: evt.OrderNumber,
		}, partitionKeyBranch(evt.BranchID)); err != nil {
			s.logger.WarnContext(ctx, "failed to enqueue article delivered event", "error", err)
		}
		s.audit(ctx, evt.BranchID, "delivery_completed",
			fmt.Sprintf("delivery %d completed", evt.OrderNumber))
		return nil
	}
	return domain.ErrVersionConflict
}

func (s *Service) GetDelivery(ctx context.Context, branchID, orderNumber int) (DeliveryView, error) {
	delivery, err := s.deliveries.Get(ctx, branchID, orderNumber)
	if err != nil {
		return DeliveryView{}, err
	}
	return toDeliveryView(delivery), nil
}

func (s *Service) ListDeliveries(ctx context.Context, branchID int, status *domain.DeliveryStatus) ([]DeliveryView, error) {
	deliveries, err := s.deliveries.List(ctx, branchID, status)
	if err != nil {
		return nil, err
	}
	views := make([]DeliveryView, 0, len(deliveries))
	for _, d := range deliveries {
		views = append(views, toDeliveryView(d))
	}
	return views, nil
}
