package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/adapters/memory"
	"github.com/retailforge/branch-inventory-service/internal/domain"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func TestCreateArticleValidationAndConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.service.CreateArticle(ctx, 1, CreateArticleRequest{ArticleID: 42, Name: "Bad", Price: 1.00}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req := CreateArticleRequest{ArticleID: 100001, Name: "Milk", Price: 1.29, MinStock: 5, Stock: 10}
	if _, err := env.service.CreateArticle(ctx, 1, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.service.CreateArticle(ctx, 1, req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate, got %v", err)
	}
	// Same article id in another branch is a distinct catalog entry.
	if _, err := env.service.CreateArticle(ctx, 2, req); err != nil {
		t.Fatalf("create in second branch: %v", err)
	}
}

func TestChangeStockRejectsZeroAmount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 5, 10)
	ctx := context.Background()

	if _, err := env.service.ChangeStock(ctx, 1, 100001, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected zero amount rejected, got %v", err)
	}
	view, err := env.service.ChangeStock(ctx, 1, 100001, -3)
	if err != nil {
		t.Fatalf("change stock: %v", err)
	}
	if view.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", view.Stock)
	}
	if _, err := env.service.ChangeStock(ctx, 1, 100001, -8); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected underflow rejected, got %v", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 5, 10)
	ctx := context.Background()

	if err := env.service.DeleteArticle(ctx, 1, 100001); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.service.GetArticle(ctx, 1, 100001); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := env.service.DeleteArticle(ctx, 1, 100001); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on repeat delete, got %v", err)
	}
}

func TestListArticlesUsesCache(t *testing.T) {
	t.Parallel()

	stores := memory.NewStores()
	cache := newMapCache()
	service := NewService(Dependencies{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog:    stores.Catalog,
		Deliveries: stores.Deliveries,
		Reorders:   stores.Reorders,
		Outbox:     stores.Outbox,
		EventDedup: stores.EventDedup,
		Cache:      cache,
	})
	ctx := context.Background()

	if _, err := service.CreateArticle(ctx, 1, CreateArticleRequest{ArticleID: 100001, Name: "Milk", Price: 1.29, MinStock: 5, Stock: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := service.ListArticles(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected one article, got %d", len(first))
	}
	if _, ok := cache.entries["catalog:branch:1"]; !ok {
		t.Fatalf("expected list to populate the cache")
	}

	// A write through the service invalidates the cached listing.
	if _, err := service.ChangeStock(ctx, 1, 100001, 5); err != nil {
		t.Fatalf("change stock: %v", err)
	}
	if _, ok := cache.entries["catalog:branch:1"]; ok {
		t.Fatalf("expected stock change to invalidate the cache")
	}
	second, err := service.ListArticles(ctx, 1)
	if err != nil {
		t.Fatalf("list after invalidation: %v", err)
	}
	if second[0].Stock != 15 {
		t.Fatalf("expected refreshed listing, got stock %d", second[0].Stock)
	}
}
