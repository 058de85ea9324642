package domain

import (
	"fmt"
	"time"
)

type ReorderStatus string

const (
	ReorderStatusNew       ReorderStatus = "NEW"
	ReorderStatusWaiting   ReorderStatus = "WAITING"
	ReorderStatusDelivered ReorderStatus = "DELIVERED"
	ReorderStatusCompleted ReorderStatus = "COMPLETED"
)

func ParseReorderStatus(v string) (ReorderStatus, error) {
	switch ReorderStatus(v) {
	case ReorderStatusNew, ReorderStatusWaiting, ReorderStatusDelivered, ReorderStatusCompleted:
		return ReorderStatus(v), nil
	default:
		return "", fmt.Errorf("%w: unknown reorder status %q", ErrInvalidInput, v)
	}
}

// Open reports whether the reorder still counts toward in-flight
// replenishment quantity.
func (s ReorderStatus) Open() bool {
	return s != ReorderStatusCompleted
}

var reorderTransitions = map[ReorderStatus]ReorderStatus{
	ReorderStatusNew:       ReorderStatusWaiting,
	ReorderStatusWaiting:   ReorderStatusDelivered,
	ReorderStatusDelivered: ReorderStatusCompleted,
}

// CanTransition checks the NEW -> WAITING -> DELIVERED -> COMPLETED chain.
func (s ReorderStatus) CanTransition(next ReorderStatus) bool {
	allowed, ok := reorderTransitions[s]
	return ok && allowed == next
}

// Reorder is a replenishment request from a branch to the central warehouse.
// ReorderID is branch-scoped, sequential from 1 and never reused.
type Reorder struct {
	BranchID  int
	ReorderID int
	ArticleID int
	Quantity  int
	Status    ReorderStatus
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewReorder(branchID, reorderID, articleID, quantity int, now time.Time) (Reorder, error) {
	if reorderID < 1 {
		return Reorder{}, fmt.Errorf("%w: reorder_id must be at least 1", ErrInvalidInput)
	}
	if err := ValidateArticleID(articleID); err != nil {
		return Reorder{}, err
	}
	if quantity < 1 {
		return Reorder{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	return Reorder{
		BranchID:  branchID,
		ReorderID: reorderID,
		ArticleID: articleID,
		Quantity:  quantity,
		Status:    ReorderStatusNew,
		Date:      now.Truncate(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
