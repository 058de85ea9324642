package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/retailforge/branch-inventory-service/internal/adapters/memory"
	"github.com/retailforge/branch-inventory-service/internal/domain"
)

type testEnv struct {
	service *Service
	stores  memory.Stores
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stores := memory.NewStores()
	service := NewService(Dependencies{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog:    stores.Catalog,
		Deliveries: stores.Deliveries,
		Reorders:   stores.Reorders,
		Outbox:     stores.Outbox,
		EventDedup: stores.EventDedup,
	})
	return &testEnv{service: service, stores: stores}
}

func (e *testEnv) createArticle(t *testing.T, branchID, articleID, minStock, stock int) {
	t.Helper()
	_, err := e.service.CreateArticle(context.Background(), branchID, CreateArticleRequest{
		ArticleID: articleID,
		Name:      "Test Article",
		Price:     2.49,
		MinStock:  minStock,
		Stock:     stock,
	})
	if err != nil {
		t.Fatalf("create article %d: %v", articleID, err)
	}
}

func (e *testEnv) article(t *testing.T, branchID, articleID int) domain.Article {
	t.Helper()
	article, err := e.stores.Catalog.GetArticle(context.Background(), branchID, articleID)
	if err != nil {
		t.Fatalf("get article %d: %v", articleID, err)
	}
	return article
}

func (e *testEnv) delivery(t *testing.T, branchID, orderNumber int) domain.Delivery {
	t.Helper()
	delivery, err := e.stores.Deliveries.Get(context.Background(), branchID, orderNumber)
	if err != nil {
		t.Fatalf("get delivery %d: %v", orderNumber, err)
	}
	return delivery
}

func orderChangedPayload(t *testing.T, eventID string, branchID, orderNumber int, articles ...OrderChangedArticle) []byte {
	t.Helper()
	raw, err := json.Marshal(OrderChangedEvent{
		EventID:     eventID,
		BranchID:    branchID,
		OrderNumber: orderNumber,
		Articles:    articles,
	})
	if err != nil {
		t.Fatalf("marshal order changed event: %v", err)
	}
	return raw
}

func deliveryConfirmedPayload(t *testing.T, eventID string, branchID, orderNumber int) []byte {
	t.Helper()
	raw, err := json.Marshal(DeliveryConfirmedEvent{
		EventID:     eventID,
		BranchID:    branchID,
		OrderNumber: orderNumber,
	})
	if err != nil {
		t.Fatalf("marshal delivery confirmed event: %v", err)
	}
	return raw
}
