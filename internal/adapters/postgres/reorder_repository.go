package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/domain"
	"gorm.io/gorm"
)

type reorderRepository struct {
	db *gorm.DB
}

func (r *reorderRepository) Get(ctx context.Context, branchID, reorderID int) (domain.Reorder, error) {
	var rec reorderModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND reorder_id = ?", branchID, reorderID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Reorder{}, domain.ErrNotFound
		}
		return domain.Reorder{}, err
	}
	return toDomainReorder(rec), nil
}

func (r *reorderRepository) List(ctx context.Context, branchID int, status *domain.ReorderStatus) ([]domain.Reorder, error) {
	query := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	var recs []reorderModel
	if err := query.Order("reorder_id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Reorder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainReorder(rec))
	}
	return out, nil
}

func (r *reorderRepository) ListByStatus(ctx context.Context, status domain.ReorderStatus) ([]domain.Reorder, error) {
	var recs []reorderModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("branch_id, reorder_id").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Reorder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainReorder(rec))
	}
	return out, nil
}

func (r *reorderRepository) SumOpenQuantity(ctx context.Context, branchID, articleID int) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&reorderModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("branch_id = ? AND article_id = ? AND status <> ?",
			branchID, articleID, string(domain.ReorderStatusCompleted)).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// NextID bumps the dedicated per-branch sequence row. The upsert makes the
// increment atomic, so concurrent passes never mint the same id and gaps are
// never refilled.
func (r *reorderRepository) NextID(ctx context.Context, branchID int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO branch_reorder_sequences (branch_id, next_id)
		VALUES (?, 1)
		ON CONFLICT (branch_id)
		DO UPDATE SET next_id = branch_reorder_sequences.next_id + 1
		RETURNING next_id`, branchID).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *reorderRepository) Create(ctx context.Context, reorder domain.Reorder) (domain.Reorder, error) {
	rec := reorderModel{
		BranchID:  reorder.BranchID,
		ReorderID: reorder.ReorderID,
		ArticleID: reorder.ArticleID,
		Quantity:  reorder.Quantity,
		Status:    string(reorder.Status),
		Date:      reorder.Date,
		CreatedAt: reorder.CreatedAt,
		UpdatedAt: reorder.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Reorder{}, domain.ErrConflict
		}
		return domain.Reorder{}, err
	}
	return toDomainReorder(rec), nil
}

func (r *reorderRepository) UpdateStatus(ctx context.Context, branchID, reorderID int, status domain.ReorderStatus, now time.Time) (domain.Reorder, error) {
	res := r.db.WithContext(ctx).Model(&reorderModel{}).
		Where("branch_id = ? AND reorder_id = ?", branchID, reorderID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": now,
		})
	if res.Error != nil {
		return domain.Reorder{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Reorder{}, domain.ErrNotFound
	}
	return r.Get(ctx, branchID, reorderID)
}
