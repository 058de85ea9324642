package application

import (
	"context"
	"testing"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

func TestReconcileDeliveryIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 10)
	ctx := context.Background()

	if err := env.service.HandleOrderChanged(ctx, orderChangedPayload(t, "evt-1", 1, 1, OrderChangedArticle{ArticleID: 100001, Quantity: 3})); err != nil {
		t.Fatalf("handle order changed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := env.service.ReconcileDelivery(ctx, 1, 1); err != nil {
			t.Fatalf("reconcile pass %d: %v", i, err)
		}
	}

	if article := env.article(t, 1, 100001); article.Reserved != 3 {
		t.Fatalf("repeated reconciliation must not re-reserve, got %d", article.Reserved)
	}
}

func TestReconcileDeliveryPromotesWaitingToReady(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 1)
	ctx := context.Background()

	if err := env.service.HandleOrderChanged(ctx, orderChangedPayload(t, "evt-1", 1, 1, OrderChangedArticle{ArticleID: 100001, Quantity: 5})); err != nil {
		t.Fatalf("handle order changed: %v", err)
	}
	if got := env.delivery(t, 1, 1).Status; got != domain.DeliveryStatusWaiting {
		t.Fatalf("expected WAITING before restock, got %s", got)
	}

	// Restock enough to cover the reservation.
	if _, err := env.service.ChangeStock(ctx, 1, 100001, 4); err != nil {
		t.Fatalf("change stock: %v", err)
	}
	if _, err := env.service.ReconcileDelivery(ctx, 1, 1); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := env.delivery(t, 1, 1).Status; got != domain.DeliveryStatusReady {
		t.Fatalf("expected READY after restock, got %s", got)
	}
}

func TestReconcileDeliveryReleasesRemovedLine(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 10)
	ctx := context.Background()

	delivery, err := domain.NewDelivery(1, 1, []domain.DeliveryArticle{
		{ArticleID: 100001, Quantity: 4, Status: domain.DeliveryArticleReserved},
		{ArticleID: 100001, Quantity: 4, Status: domain.DeliveryArticleRemove},
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("build delivery: %v", err)
	}
	delivery.Status = domain.DeliveryStatusChanged
	if _, err := env.stores.Deliveries.Create(ctx, delivery); err != nil {
		t.Fatalf("seed delivery: %v", err)
	}
	if _, err := env.stores.Catalog.AdjustReserved(ctx, 1, 100001, 4); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	view, err := env.service.ReconcileDelivery(ctx, 1, 1)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(view.Articles) != 0 {
		t.Fatalf("expected removal to drop both entries, got %v", view.Articles)
	}
	if article := env.article(t, 1, 100001); article.Reserved != 0 {
		t.Fatalf("expected reservation released, got %d", article.Reserved)
	}
	if view.Status != string(domain.DeliveryStatusReady) {
		t.Fatalf("expected empty delivery to be READY, got %s", view.Status)
	}
}

func TestReconcileDeliveryDropsMootRemoval(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 10)
	ctx := context.Background()

	delivery, err := domain.NewDelivery(1, 1, []domain.DeliveryArticle{
		{ArticleID: 100001, Quantity: 2, Status: domain.DeliveryArticleRemove},
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("build delivery: %v", err)
	}
	if _, err := env.stores.Deliveries.Create(ctx, delivery); err != nil {
		t.Fatalf("seed delivery: %v", err)
	}

	view, err := env.service.ReconcileDelivery(ctx, 1, 1)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(view.Articles) != 0 {
		t.Fatalf("expected removal without counterpart to be dropped, got %v", view.Articles)
	}
	if article := env.article(t, 1, 100001); article.Reserved != 0 {
		t.Fatalf("expected ledger untouched by moot removal, got %d", article.Reserved)
	}
}

func TestHandleDeliveryConfirmedCompletesAndDrainsLedger(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 5)
	env.createArticle(t, 1, 100002, 0, 10)
	ctx := context.Background()

	// A second open order holds part of the reservations; completing order 1
	// must only release its own share.
	if err := env.service.HandleOrderChanged(ctx, orderChangedPayload(t, "evt-1", 1, 1,
		OrderChangedArticle{ArticleID: 100001, Quantity: 2},
		OrderChangedArticle{ArticleID: 100002, Quantity: 3},
	)); err != nil {
		t.Fatalf("order 1: %v", err)
	}
	if err := env.service.HandleOrderChanged(ctx, orderChangedPayload(t, "evt-2", 1, 2,
		OrderChangedArticle{ArticleID: 100001, Quantity: 1},
		OrderChangedArticle{ArticleID: 100002, Quantity: 3},
	)); err != nil {
		t.Fatalf("order 2: %v", err)
	}

	if a := env.article(t, 1, 100001); a.Stock != 5 || a.Reserved != 3 {
		t.Fatalf("unexpected ledger before completion: stock=%d reserved=%d", a.Stock, a.Reserved)
	}
	if a := env.article(t, 1, 100002); a.Stock != 10 || a.Reserved != 6 {
		t.Fatalf("unexpected ledger before completion: stock=%d reserved=%d", a.Stock, a.Reserved)
	}

	if err := env.service.HandleDeliveryConfirmed(ctx, deliveryConfirmedPayload(t, "evt-3", 1, 1)); err != nil {
		t.Fatalf("handle delivery confirmed: %v", err)
	}

	delivery := env.delivery(t, 1, 1)
	if !delivery.Completed() {
		t.Fatalf("expected COMPLETED, got %s", delivery.Status)
	}
	for _, entry := range delivery.Articles {
		if entry.Status != domain.DeliveryArticleDelivered {
			t.Fatalf("expected all entries DELIVERED, got %v", delivery.Articles)
		}
	}
	if a := env.article(t, 1, 100001); a.Stock != 3 || a.Reserved != 1 {
		t.Fatalf("unexpected ledger after completion: stock=%d reserved=%d", a.Stock, a.Reserved)
	}
	if a := env.article(t, 1, 100002); a.Stock != 7 || a.Reserved != 3 {
		t.Fatalf("unexpected ledger after completion: stock=%d reserved=%d", a.Stock, a.Reserved)
	}
}

func TestHandleDeliveryConfirmedForceCompletesWaitingDelivery(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 1)
	ctx := context.Background()

	if err := env.service.HandleOrderChanged(ctx, orderChangedPayload(t, "evt-1", 1, 1, OrderChangedArticle{ArticleID: 100001, Quantity: 5})); err != nil {
		t.Fatalf("handle order changed: %v", err)
	}
	if got := env.delivery(t, 1, 1).Status; got != domain.DeliveryStatusWaiting {
		t.Fatalf("expected WAITING delivery, got %s", got)
	}

	if err := env.service.HandleDeliveryConfirmed(ctx, deliveryConfirmedPayload(t, "evt-2", 1, 1)); err != nil {
		t.Fatalf("handle delivery confirmed: %v", err)
	}

	if !env.delivery(t, 1, 1).Completed() {
		t.Fatalf("expected forced completion of WAITING delivery")
	}
	// The stock release would go negative and is rejected; the reservation
	// release still succeeds.
	article := env.article(t, 1, 100001)
	if article.Stock != 1 || article.Reserved != 0 {
		t.Fatalf("unexpected ledger after forced completion: stock=%d reserved=%d", article.Stock, article.Reserved)
	}
}

func TestHandleDeliveryConfirmedUnknownDeliveryDiscarded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.service.HandleDeliveryConfirmed(ctx, deliveryConfirmedPayload(t, "evt-1", 1, 42)); err != nil {
		t.Fatalf("expected unknown confirmation to be swallowed, got %v", err)
	}
}

func TestHandleDeliveryConfirmedIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 10)
	ctx := context.Background()

	if err := env.service.HandleOrderChanged(ctx, orderChangedPayload(t, "evt-1", 1, 1, OrderChangedArticle{ArticleID: 100001, Quantity: 3})); err != nil {
		t.Fatalf("handle order changed: %v", err)
	}
	payload := deliveryConfirmedPayload(t, "evt-2", 1, 1)
	if err := env.service.HandleDeliveryConfirmed(ctx, payload); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}
	if err := env.service.HandleDeliveryConfirmed(ctx, payload); err != nil {
		t.Fatalf("redelivered confirmation: %v", err)
	}

	article := env.article(t, 1, 100001)
	if article.Stock != 7 || article.Reserved != 0 {
		t.Fatalf("expected single ledger release: stock=%d reserved=%d", article.Stock, article.Reserved)
	}
}

func TestReconcileOpenDeliveriesSweepsAllBranches(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createArticle(t, 1, 100001, 0, 10)
	env.createArticle(t, 2, 100001, 0, 10)
	ctx := context.Background()

	for branch := 1; branch <= 2; branch++ {
		delivery, err := domain.NewDelivery(branch, 1, []domain.DeliveryArticle{
			{ArticleID: 100001, Quantity: 2, Status: domain.DeliveryArticleProcessing},
		}, time.Now().UTC())
		if err != nil {
			t.Fatalf("build delivery: %v", err)
		}
		if _, err := env.stores.Deliveries.Create(ctx, delivery); err != nil {
			t.Fatalf("seed delivery: %v", err)
		}
	}

	if err := env.service.ReconcileOpenDeliveries(ctx); err != nil {
		t.Fatalf("reconcile open deliveries: %v", err)
	}
	for branch := 1; branch <= 2; branch++ {
		if got := env.delivery(t, branch, 1).Status; got != domain.DeliveryStatusReady {
			t.Fatalf("branch %d: expected READY, got %s", branch, got)
		}
		if article := env.article(t, branch, 100001); article.Reserved != 2 {
			t.Fatalf("branch %d: expected reservation booked, got %d", branch, article.Reserved)
		}
	}
}
