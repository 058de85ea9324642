package postgres

import (
	"time"

	"github.com/google/uuid"
)

type articleModel struct {
	BranchID  int       `gorm:"column:branch_id;primaryKey"`
	ArticleID int       `gorm:"column:article_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Price     float64   `gorm:"column:price"`
	MinStock  int       `gorm:"column:min_stock"`
	Stock     int       `gorm:"column:stock"`
	Reserved  int       `gorm:"column:reserved"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (articleModel) TableName() string { return "branch_articles" }

type deliveryModel struct {
	BranchID    int       `gorm:"column:branch_id;primaryKey"`
	OrderNumber int       `gorm:"column:order_number;primaryKey"`
	Status      string    `gorm:"column:status"`
	Articles    []byte    `gorm:"column:articles"`
	Version     int64     `gorm:"column:version"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (deliveryModel) TableName() string { return "branch_deliveries" }

type reorderModel struct {
	BranchID  int       `gorm:"column:branch_id;primaryKey"`
	ReorderID int       `gorm:"column:reorder_id;primaryKey"`
	ArticleID int       `gorm:"column:article_id"`
	Quantity  int       `gorm:"column:quantity"`
	Status    string    `gorm:"column:status"`
	Date      time.Time `gorm:"column:date"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reorderModel) TableName() string { return "branch_reorders" }

type outboxModel struct {
	OutboxID     uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	RetryCount   int        `gorm:"column:retry_count"`
	FirstSeenAt  time.Time  `gorm:"column:first_seen_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	LastError    *string    `gorm:"column:last_error"`
}

func (outboxModel) TableName() string { return "inventory_outbox" }

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (eventDedupModel) TableName() string { return "inventory_event_dedup" }
