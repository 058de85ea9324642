package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailforge/branch-inventory-service/internal/adapters/memory"
	"github.com/retailforge/branch-inventory-service/internal/ports"
)

type recordingPublisher struct {
	published []string
	failWith  error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, eventType)
	return nil
}

func enqueueTestEvent(t *testing.T, outbox ports.OutboxRepository, eventType string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := outbox.Enqueue(context.Background(), ports.OutboxEvent{
		EventID:      id,
		EventType:    eventType,
		PartitionKey: "branch:1",
		Payload:      []byte(`{}`),
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return id
}

func TestOutboxWorkerPublishesAndMarks(t *testing.T) {
	t.Parallel()

	outbox := memory.NewOutboxStore()
	publisher := &recordingPublisher{}
	worker := NewOutboxWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), outbox, publisher, time.Second, 10)
	ctx := context.Background()

	enqueueTestEvent(t, outbox, "branch.reorder_created")
	enqueueTestEvent(t, outbox, "branch.audit_log")

	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}

	// A second pass finds nothing left to publish.
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected published events marked, got %d total publishes", len(publisher.published))
	}
}

func TestOutboxWorkerRetriesFailedPublish(t *testing.T) {
	t.Parallel()

	outbox := memory.NewOutboxStore()
	publisher := &recordingPublisher{failWith: errors.New("broker down")}
	worker := NewOutboxWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), outbox, publisher, time.Second, 10)
	ctx := context.Background()

	enqueueTestEvent(t, outbox, "branch.reorder_created")

	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("process once: %v", err)
	}
	records, err := outbox.FetchUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(records) != 1 || records[0].RetryCount != 1 {
		t.Fatalf("expected failed record kept with retry count, got %v", records)
	}

	publisher.failWith = nil
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("retry pass: %v", err)
	}
	records, err = outbox.FetchUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected record published on retry, got %v", records)
	}
}
