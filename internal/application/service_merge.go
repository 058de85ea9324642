package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

// HandleOrderChanged merges an inbound order-change event into the delivery
// for (branch, order number). The event carries the sender's current desired
// article set; diffing against prior state happens here, keyed on the
// delivery's current status. A successfully merged delivery is reconciled
// immediately afterwards.
func (s *Service) HandleOrderChanged(ctx context.Context, payload []byte) error {
	var evt OrderChangedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return fmt.Errorf("%w: invalid %s payload", domain.ErrInvalidInput, EventTypeOrderChanged)
	}
	if evt.OrderNumber < 1 {
		return fmt.Errorf("%w: order_number must be at least 1", domain.ErrInvalidInput)
	}
	if s.isDuplicateEvent(ctx, evt.EventID) {
		return nil
	}

	incoming := make([]domain.DeliveryArticle, 0, len(evt.Articles))
	for _, a := range evt.Articles {
		entry, err := domain.NewDeliveryArticle(a.ArticleID, a.Quantity, domain.DeliveryArticleProcessing)
		if err != nil {
			return err
		}
		incoming = append(incoming, entry)
	}

	merged, err := s.mergeOrderChange(ctx, evt.BranchID, evt.OrderNumber, incoming)
	if errors.Is(err, domain.ErrCompletedDelivery) {
		// Rejected changes are discarded, not retried. The audit trail
		// already carries the rejection.
		s.markEventProcessed(ctx, evt.EventID, EventTypeOrderChanged)
		return nil
	}
	if err != nil {
		return err
	}
	s.markEventProcessed(ctx, evt.EventID, EventTypeOrderChanged)
	if !merged {
		return nil
	}
	_, err = s.ReconcileDelivery(ctx, evt.BranchID, evt.OrderNumber)
	return err
}

// mergeOrderChange returns false for a no-op event and ErrCompletedDelivery
// when the target delivery is already completed.
func (s *Service) mergeOrderChange(ctx context.Context, branchID, orderNumber int, incoming []domain.DeliveryArticle) (bool, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		current, err := s.deliveries.Get(ctx, branchID, orderNumber)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if len(incoming) == 0 {
				return false, nil
			}
			delivery, buildErr := domain.NewDelivery(branchID, orderNumber, incoming, s.nowFn())
			if buildErr != nil {
				return false, buildErr
			}
			if _, createErr := s.deliveries.Create(ctx, delivery); createErr != nil {
				if errors.Is(createErr, domain.ErrConflict) {
					continue // lost the create race, merge against the winner
				}
				return false, createErr
			}
			return true, nil
		case err != nil:
			return false, err
		}

		if current.Completed() {
			s.logger.WarnContext(ctx, "order change rejected for completed delivery",
				"module", "application.service",
				"operation", "merge_order_change",
				"outcome", "rejected",
				"branch_id", branchID,
				"order_number", orderNumber,
			)
			s.audit(ctx, branchID, "delivery_rejected",
				fmt.Sprintf("order change for completed delivery %d discarded", orderNumber))
			return false, fmt.Errorf("%w: order %d", domain.ErrCompletedDelivery, orderNumber)
		}

		switch current.Status {
		case domain.DeliveryStatusNew:
			current.Articles = incoming
		case domain.DeliveryStatusModified, domain.DeliveryStatusChanged:
			kept := make([]domain.DeliveryArticle, 0, len(current.Articles)+len(incoming))
			for _, entry := range current.Articles {
				if entry.Status == domain.DeliveryArticleProcessing {
					continue
				}
				kept = append(kept, entry)
			}
			current.Articles = append(kept, incoming...)
			current.Status = domain.DeliveryStatusChanged
		case domain.DeliveryStatusWaiting, domain.DeliveryStatusReady:
			current.Articles = append(current.Articles, incoming...)
			current.Status = domain.DeliveryStatusChanged
		}
		current.UpdatedAt = s.nowFn()

		if _, err := s.deliveries.Replace(ctx, current); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return false, err
		}
		return true, nil
	}
	return false, domain.ErrVersionConflict
}
