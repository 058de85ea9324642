package postgres

import (
	"context"
	"errors"

	"github.com/retailforge/branch-inventory-service/internal/domain"
	"gorm.io/gorm"
)

type deliveryRepository struct {
	db *gorm.DB
}

func (r *deliveryRepository) Get(ctx context.Context, branchID, orderNumber int) (domain.Delivery, error) {
	var rec deliveryModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND order_number = ?", branchID, orderNumber).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Delivery{}, domain.ErrNotFound
		}
		return domain.Delivery{}, err
	}
	return toDomainDelivery(rec)
}

func (r *deliveryRepository) List(ctx context.Context, branchID int, status *domain.DeliveryStatus) ([]domain.Delivery, error) {
	query := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	var recs []deliveryModel
	if err := query.Order("order_number").Find(&recs).Error; err != nil {
		return nil, err
	}
	return mapDeliveries(recs)
}

func (r *deliveryRepository) ListOpen(ctx context.Context) ([]domain.Delivery, error) {
	var recs []deliveryModel
	if err := r.db.WithContext(ctx).
		Where("status <> ?", string(domain.DeliveryStatusCompleted)).
		Order("branch_id, order_number").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return mapDeliveries(recs)
}

func mapDeliveries(recs []deliveryModel) ([]domain.Delivery, error) {
	out := make([]domain.Delivery, 0, len(recs))
	for _, rec := range recs {
		d, err := toDomainDelivery(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *deliveryRepository) Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	raw, err := marshalDeliveryArticles(delivery.Articles)
	if err != nil {
		return domain.Delivery{}, err
	}
	rec := deliveryModel{
		BranchID:    delivery.BranchID,
		OrderNumber: delivery.OrderNumber,
		Status:      string(delivery.Status),
		Articles:    raw,
		Version:     1,
		CreatedAt:   delivery.CreatedAt,
		UpdatedAt:   delivery.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Delivery{}, domain.ErrConflict
		}
		return domain.Delivery{}, err
	}
	return toDomainDelivery(rec)
}

// Replace swaps the whole aggregate guarded by the version column; a
// mismatch means another worker replaced it first.
func (r *deliveryRepository) Replace(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	raw, err := marshalDeliveryArticles(delivery.Articles)
	if err != nil {
		return domain.Delivery{}, err
	}
	res := r.db.WithContext(ctx).Model(&deliveryModel{}).
		Where("branch_id = ? AND order_number = ? AND version = ?",
			delivery.BranchID, delivery.OrderNumber, delivery.Version).
		Updates(map[string]any{
			"status":     string(delivery.Status),
			"articles":   raw,
			"version":    delivery.Version + 1,
			"updated_at": delivery.UpdatedAt,
		})
	if res.Error != nil {
		return domain.Delivery{}, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&deliveryModel{}).
			Where("branch_id = ? AND order_number = ?", delivery.BranchID, delivery.OrderNumber).
			Count(&count).Error; err != nil {
			return domain.Delivery{}, err
		}
		if count == 0 {
			return domain.Delivery{}, domain.ErrNotFound
		}
		return domain.Delivery{}, domain.ErrVersionConflict
	}
	return r.Get(ctx, delivery.BranchID, delivery.OrderNumber)
}
