package application

import (
	"context"
	"fmt"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

// RunReorderPass is the scheduled replenishment sweep. It first folds
// delivered reorders into branch stock, then opens new reorders for every
// (branch, article) whose predicted stock falls below the minimum. Reorders
// already in the pipeline are netted out so a shortfall is never ordered
// twice.
func (s *Service) RunReorderPass(ctx context.Context) error {
	if err := s.foldDeliveredReorders(ctx); err != nil {
		return err
	}

	short, err := s.catalog.ListBelowMinStock(ctx)
	if err != nil {
		return err
	}
	for _, article := range short {
		if err := s.reorderArticle(ctx, article); err != nil {
			s.logger.WarnContext(ctx, "reorder creation failed",
				"module", "application.service",
				"operation", "run_reorder_pass",
				"outcome", "failure",
				"branch_id", article.BranchID,
				"article_id", article.ArticleID,
				"error", err,
			)
		}
	}
	return nil
}

// foldDeliveredReorders closes physically arrived reorders: the quantity is
// added to branch stock and the reorder becomes COMPLETED.
func (s *Service) foldDeliveredReorders(ctx context.Context) error {
	delivered, err := s.reorders.ListByStatus(ctx, domain.ReorderStatusDelivered)
	if err != nil {
		return err
	}
	for _, reorder := range delivered {
		if _, err := s.catalog.AdjustStock(ctx, reorder.BranchID, reorder.ArticleID, reorder.Quantity); err != nil {
			s.logger.WarnContext(ctx, "failed to fold delivered reorder into stock",
				"module", "application.service",
				"operation", "fold_delivered_reorders",
				"branch_id", reorder.BranchID,
				"reorder_id", reorder.ReorderID,
				"error", err,
			)
			continue
		}
		if _, err := s.reorders.UpdateStatus(ctx, reorder.BranchID, reorder.ReorderID, domain.ReorderStatusCompleted, s.nowFn()); err != nil {
			return err
		}
		s.invalidateCatalogCache(ctx, reorder.BranchID)
		s.audit(ctx, reorder.BranchID, "reorder_completed",
			fmt.Sprintf("reorder %d folded %d units of article %d into stock", reorder.ReorderID, reorder.Quantity, reorder.ArticleID))
	}
	return nil
}

func (s *Service) reorderArticle(ctx context.Context, article domain.Article) error {
	open, err := s.reorders.SumOpenQuantity(ctx, article.BranchID, article.ArticleID)
	if err != nil {
		return err
	}
	predicted := article.Stock - article.Reserved + open
	if predicted >= article.MinStock {
		return nil // an in-flight reorder already covers the shortfall
	}

	quantity := article.MinStock*2 - predicted
	id, err := s.reorders.NextID(ctx, article.BranchID)
	if err != nil {
		return err
	}
	reorder, err := domain.NewReorder(article.BranchID, id, article.ArticleID, quantity, s.nowFn())
	if err != nil {
		return err
	}
	created, err := s.reorders.Create(ctx, reorder)
	if err != nil {
		return err
	}

	if err := s.enqueueEvent(ctx, EventTypeReorderCreated, ReorderCreatedEvent{
		BranchID:  created.BranchID,
		ReorderID: created.ReorderID,
		ArticleID: created.ArticleID,
		Quantity:  created.Quantity,
	}, partitionKeyBranch(created.BranchID)); err != nil {
		return err
	}
	// Handed to the warehouse pipe, so the reorder is now in flight.
	if _, err := s.reorders.UpdateStatus(ctx, created.BranchID, created.ReorderID, domain.ReorderStatusWaiting, s.nowFn()); err != nil {
		return err
	}
	s.audit(ctx, created.BranchID, "reorder_created",
		fmt.Sprintf("reorder %d opened for article %d, quantity %d", created.ReorderID, created.ArticleID, created.Quantity))
	return nil
}

// ChangeReorderStatus applies an externally requested status change. Only a
// transition to DELIVERED is accepted from outside; everything else is
// rejected. The WAITING and COMPLETED transitions are system-internal.
func (s *Service) ChangeReorderStatus(ctx context.Context, branchID, reorderID int, requested string) (ReorderView, error) {
	status, err := domain.ParseReorderStatus(requested)
	if err != nil {
		return ReorderView{}, err
	}
	if status != domain.ReorderStatusDelivered {
		s.audit(ctx, branchID, "reorder_rejected",
			fmt.Sprintf("external transition of reorder %d to %s rejected", reorderID, status))
		return ReorderView{}, fmt.Errorf("%w: only DELIVERED may be set externally", domain.ErrInvalidTransition)
	}

	reorder, err := s.reorders.Get(ctx, branchID, reorderID)
	if err != nil {
		return ReorderView{}, err
	}
	if !reorder.Status.CanTransition(domain.ReorderStatusDelivered) {
		s.logger.WarnContext(ctx, "reorder status transition rejected",
			"module", "application.service",
			"operation", "change_reorder_status",
			"outcome", "rejected",
			"branch_id", branchID,
			"reorder_id", reorderID,
			"from", string(reorder.Status),
			"to", string(domain.ReorderStatusDelivered),
		)
		return ReorderView{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, reorder.Status, domain.ReorderStatusDelivered)
	}
	updated, err := s.reorders.UpdateStatus(ctx, branchID, reorderID, domain.ReorderStatusDelivered, s.nowFn())
	if err != nil {
		return ReorderView{}, err
	}
	return toReorderView(updated), nil
}

func (s *Service) GetReorder(ctx context.Context, branchID, reorderID int) (ReorderView, error) {
	reorder, err := s.reorders.Get(ctx, branchID, reorderID)
	if err != nil {
		return ReorderView{}, err
	}
	return toReorderView(reorder), nil
}

func (s *Service) ListReorders(ctx context.Context, branchID int, status *domain.ReorderStatus) ([]ReorderView, error) {
	reorders, err := s.reorders.List(ctx, branchID, status)
	if err != nil {
		return nil, err
	}
	views := make([]ReorderView, 0, len(reorders))
	for _, r := range reorders {
		views = append(views, toReorderView(r))
	}
	return views, nil
}
