package domain

import (
	"fmt"
	"time"
)

type DeliveryStatus string

const (
	DeliveryStatusNew       DeliveryStatus = "NEW"
	DeliveryStatusModified  DeliveryStatus = "MODIFIED"
	DeliveryStatusChanged   DeliveryStatus = "CHANGED"
	DeliveryStatusWaiting   DeliveryStatus = "WAITING"
	DeliveryStatusReady     DeliveryStatus = "READY"
	DeliveryStatusCompleted DeliveryStatus = "COMPLETED"
)

func ParseDeliveryStatus(v string) (DeliveryStatus, error) {
	switch DeliveryStatus(v) {
	case DeliveryStatusNew, DeliveryStatusModified, DeliveryStatusChanged,
		DeliveryStatusWaiting, DeliveryStatusReady, DeliveryStatusCompleted:
		return DeliveryStatus(v), nil
	default:
		return "", fmt.Errorf("%w: unknown delivery status %q", ErrInvalidInput, v)
	}
}

type DeliveryArticleStatus string

const (
	DeliveryArticleAdd        DeliveryArticleStatus = "ADD"
	DeliveryArticleModify     DeliveryArticleStatus = "MODIFY"
	DeliveryArticleRemove     DeliveryArticleStatus = "REMOVE"
	DeliveryArticleProcessing DeliveryArticleStatus = "PROCESSING"
	DeliveryArticleReserved   DeliveryArticleStatus = "RESERVED"
	DeliveryArticleOrdered    DeliveryArticleStatus = "ORDERED"
	DeliveryArticleDelivered  DeliveryArticleStatus = "DELIVERED"
)

// Pending reports whether the entry is an unreconciled diff marker.
func (s DeliveryArticleStatus) Pending() bool {
	switch s {
	case DeliveryArticleAdd, DeliveryArticleModify, DeliveryArticleRemove, DeliveryArticleProcessing:
		return true
	default:
		return false
	}
}

type DeliveryArticle struct {
	ArticleID int
	Quantity  int
	Status    DeliveryArticleStatus
}

func NewDeliveryArticle(articleID, quantity int, status DeliveryArticleStatus) (DeliveryArticle, error) {
	if err := ValidateArticleID(articleID); err != nil {
		return DeliveryArticle{}, err
	}
	if quantity < 1 {
		return DeliveryArticle{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	return DeliveryArticle{ArticleID: articleID, Quantity: quantity, Status: status}, nil
}

// Delivery is the fulfillment record for one customer order within one
// branch. Identity is (BranchID, OrderNumber); Version backs optimistic
// replace-on-match updates.
type Delivery struct {
	BranchID    int
	OrderNumber int
	Status      DeliveryStatus
	Articles    []DeliveryArticle
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewDelivery(branchID, orderNumber int, articles []DeliveryArticle, now time.Time) (Delivery, error) {
	if orderNumber < 1 {
		return Delivery{}, fmt.Errorf("%w: order_number must be at least 1", ErrInvalidInput)
	}
	return Delivery{
		BranchID:    branchID,
		OrderNumber: orderNumber,
		Status:      DeliveryStatusNew,
		Articles:    articles,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (d Delivery) Completed() bool {
	return d.Status == DeliveryStatusCompleted
}

// HasPending reports whether any article entry still carries a diff marker.
func (d Delivery) HasPending() bool {
	for _, a := range d.Articles {
		if a.Status.Pending() {
			return true
		}
	}
	return false
}
