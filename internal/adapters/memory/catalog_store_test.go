package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

func seedArticle(t *testing.T, store *CatalogStore, branchID, articleID, minStock, stock int) domain.Article {
	t.Helper()
	article, err := domain.NewArticle(branchID, articleID, "Test Article", 1.99, minStock, stock, time.Now().UTC())
	if err != nil {
		t.Fatalf("build article: %v", err)
	}
	created, err := store.CreateArticle(context.Background(), article)
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	return created
}

func TestCatalogStoreCreateConflict(t *testing.T) {
	t.Parallel()

	store := NewCatalogStore()
	article := seedArticle(t, store, 1, 100001, 5, 10)
	if _, err := store.CreateArticle(context.Background(), article); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate create, got %v", err)
	}
}

func TestCatalogStoreRejectsNegativeCounters(t *testing.T) {
	t.Parallel()

	store := NewCatalogStore()
	seedArticle(t, store, 1, 100001, 5, 3)
	ctx := context.Background()

	if _, err := store.AdjustStock(ctx, 1, 100001, -4); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	article, err := store.GetArticle(ctx, 1, 100001)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if article.Stock != 3 {
		t.Fatalf("rejected adjustment must not change stock, got %d", article.Stock)
	}

	if _, err := store.AdjustReserved(ctx, 1, 100001, -1); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock on reserved underflow, got %v", err)
	}

	if _, err := store.AdjustStock(ctx, 1, 999999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown article, got %v", err)
	}
}

func TestCatalogStoreConcurrentAdjustments(t *testing.T) {
	t.Parallel()

	store := NewCatalogStore()
	seedArticle(t, store, 1, 100001, 5, 0)
	ctx := context.Background()

	const workers = 200
	const perWorker = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := store.AdjustStock(ctx, 1, 100001, 1); err != nil {
					t.Errorf("adjust stock: %v", err)
					return
				}
				if _, err := store.AdjustReserved(ctx, 1, 100001, 1); err != nil {
					t.Errorf("adjust reserved: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	article, err := store.GetArticle(ctx, 1, 100001)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if article.Stock != workers*perWorker {
		t.Fatalf("lost stock updates: expected %d, got %d", workers*perWorker, article.Stock)
	}
	if article.Reserved != workers*perWorker {
		t.Fatalf("lost reservation updates: expected %d, got %d", workers*perWorker, article.Reserved)
	}
}

func TestCatalogStoreConcurrentDrainNeverGoesNegative(t *testing.T) {
	t.Parallel()

	store := NewCatalogStore()
	seedArticle(t, store, 1, 100001, 5, 100)
	ctx := context.Background()

	const workers = 150
	var succeeded sync.Map
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			if _, err := store.AdjustStock(ctx, 1, 100001, -1); err == nil {
				succeeded.Store(n, true)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	succeeded.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count != 100 {
		t.Fatalf("expected exactly 100 successful decrements, got %d", count)
	}
	article, err := store.GetArticle(ctx, 1, 100001)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if article.Stock != 0 {
		t.Fatalf("expected drained stock of 0, got %d", article.Stock)
	}
}

func TestCatalogStoreListBelowMinStock(t *testing.T) {
	t.Parallel()

	store := NewCatalogStore()
	seedArticle(t, store, 1, 100001, 5, 2)
	seedArticle(t, store, 1, 100002, 5, 10)
	seedArticle(t, store, 2, 100001, 3, 0)
	ctx := context.Background()

	// available = 10 - 6 = 4, below min 5
	if _, err := store.AdjustReserved(ctx, 1, 100002, 6); err != nil {
		t.Fatalf("adjust reserved: %v", err)
	}

	short, err := store.ListBelowMinStock(ctx)
	if err != nil {
		t.Fatalf("list below min stock: %v", err)
	}
	if len(short) != 3 {
		t.Fatalf("expected 3 shortfalls, got %d", len(short))
	}
}
