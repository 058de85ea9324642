package application

import (
	"strconv"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

type Config struct {
	ServiceName     string
	CatalogCacheTTL time.Duration
	EventDedupTTL   time.Duration
}

// Logical event types; the publisher adapter maps them to topics.
const (
	EventTypeOrderChanged      = "branch.order_changed"
	EventTypeDeliveryConfirmed = "branch.delivery_confirmed"
	EventTypeArticleDelivered  = "branch.article_delivered"
	EventTypeReorderCreated    = "branch.reorder_created"
	EventTypeAuditLog          = "branch.audit_log"
)

func partitionKeyBranch(branchID int) string {
	return strconv.Itoa(branchID)
}

type OrderChangedEvent struct {
	EventID     string                `json:"event_id,omitempty"`
	BranchID    int                   `json:"branch_id"`
	OrderNumber int                   `json:"order_number"`
	Articles    []OrderChangedArticle `json:"articles"`
}

type OrderChangedArticle struct {
	ArticleID int `json:"article_id"`
	Quantity  int `json:"quantity"`
}

type DeliveryConfirmedEvent struct {
	EventID     string `json:"event_id,omitempty"`
	BranchID    int    `json:"branch_id"`
	OrderNumber int    `json:"order_number"`
}

type ArticleDeliveredEvent struct {
	BranchID    int `json:"branch_id"`
	OrderNumber int `json:"order_number"`
}

type ReorderCreatedEvent struct {
	BranchID  int `json:"branch_id"`
	ReorderID int `json:"reorder_id"`
	ArticleID int `json:"article_id"`
	Quantity  int `json:"quantity"`
}

type AuditEvent struct {
	BranchID int    `json:"branch_id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Datetime string `json:"datetime"`
}

type CreateArticleRequest struct {
	ArticleID int     `json:"article_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	MinStock  int     `json:"min_stock"`
	Stock     int     `json:"stock"`
}

type AdjustStockRequest struct {
	Amount int `json:"amount"`
}

type ReorderStatusRequest struct {
	Status string `json:"status"`
}

type ArticleView struct {
	BranchID  int     `json:"branch_id"`
	ArticleID int     `json:"article_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	MinStock  int     `json:"min_stock"`
	Stock     int     `json:"stock"`
	Reserved  int     `json:"reserved"`
	Available int     `json:"available"`
}

type DeliveryArticleView struct {
	ArticleID int    `json:"article_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
}

type DeliveryView struct {
	BranchID    int                   `json:"branch_id"`
	OrderNumber int                   `json:"order_number"`
	Status      string                `json:"status"`
	Articles    []DeliveryArticleView `json:"articles"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type ReorderView struct {
	BranchID  int    `json:"branch_id"`
	ReorderID int    `json:"reorder_id"`
	ArticleID int    `json:"article_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	Date      string `json:"date"`
}

func toArticleView(a domain.Article) ArticleView {
	return ArticleView{
		BranchID:  a.BranchID,
		ArticleID: a.ArticleID,
		Name:      a.Name,
		Price:     a.Price,
		MinStock:  a.MinStock,
		Stock:     a.Stock,
		Reserved:  a.Reserved,
		Available: a.Available(),
	}
}

func toDeliveryView(d domain.Delivery) DeliveryView {
	view := DeliveryView{
		BranchID:    d.BranchID,
		OrderNumber: d.OrderNumber,
		Status:      string(d.Status),
		Articles:    make([]DeliveryArticleView, 0, len(d.Articles)),
		UpdatedAt:   d.UpdatedAt,
	}
	for _, a := range d.Articles {
		view.Articles = append(view.Articles, DeliveryArticleView{
			ArticleID: a.ArticleID,
			Quantity:  a.Quantity,
			Status:    string(a.Status),
		})
	}
	return view
}

func toReorderView(r domain.Reorder) ReorderView {
	return ReorderView{
		BranchID:  r.BranchID,
		ReorderID: r.ReorderID,
		ArticleID: r.ArticleID,
		Quantity:  r.Quantity,
		Status:    string(r.Status),
		Date:      r.Date.Format("2006-01-02"),
	}
}
