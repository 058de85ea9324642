package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailforge/branch-inventory-service/internal/domain"
)

// CatalogRepository owns Article rows and their ledger counters.
// AdjustStock/AdjustReserved must apply the delta as one atomic unit per
// (branch_id, article_id) key: concurrent callers on the same key must never
// lose an update, and a delta that would drive the counter negative returns
// domain.ErrInsufficientStock with no state change.
type CatalogRepository interface {
	GetArticle(ctx context.Context, branchID, articleID int) (domain.Article, error)
	ListArticles(ctx context.Context, branchID int) ([]domain.Article, error)
	ListBelowMinStock(ctx context.Context) ([]domain.Article, error)
	CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error)
	DeleteArticle(ctx context.Context, branchID, articleID int) error
	AdjustStock(ctx context.Context, branchID, articleID, amount int) (domain.Article, error)
	AdjustReserved(ctx context.Context, branchID, articleID, amount int) (domain.Article, error)
}

// DeliveryRepository owns one Delivery aggregate per (branch_id,
// order_number). Replace is replace-on-match against Delivery.Version and
// returns domain.ErrVersionConflict when the stored version moved.
type DeliveryRepository interface {
	Get(ctx context.Context, branchID, orderNumber int) (domain.Delivery, error)
	List(ctx context.Context, branchID int, status *domain.DeliveryStatus) ([]domain.Delivery, error)
	ListOpen(ctx context.Context) ([]domain.Delivery, error)
	Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error)
	Replace(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error)
}

// ReorderRepository owns Reorder aggregates plus the per-branch id sequence.
// NextID must be an atomic increment, never derived from the current maximum.
type ReorderRepository interface {
	Get(ctx context.Context, branchID, reorderID int) (domain.Reorder, error)
	List(ctx context.Context, branchID int, status *domain.ReorderStatus) ([]domain.Reorder, error)
	ListByStatus(ctx context.Context, status domain.ReorderStatus) ([]domain.Reorder, error)
	SumOpenQuantity(ctx context.Context, branchID, articleID int) (int, error)
	NextID(ctx context.Context, branchID int) (int, error)
	Create(ctx context.Context, reorder domain.Reorder) (domain.Reorder, error)
	UpdateStatus(ctx context.Context, branchID, reorderID int, status domain.ReorderStatus, now time.Time) (domain.Reorder, error)
}

type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

type EventDedupRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error
}
