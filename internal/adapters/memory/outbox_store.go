package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retailforge/branch-inventory-service/internal/ports"
)

type OutboxStore struct {
	mu      sync.Mutex
	records []ports.OutboxRecord
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{}
}

func (s *OutboxStore) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	})
	return nil
}

func (s *OutboxStore) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.OutboxRecord, 0, limit)
	for _, rec := range s.records {
		if rec.PublishedAt != nil {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *OutboxStore) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].OutboxID == outboxID {
			published := at
			s.records[i].PublishedAt = &published
			return nil
		}
	}
	return nil
}

func (s *OutboxStore) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].OutboxID == outboxID {
			s.records[i].RetryCount++
			msg := errMsg
			s.records[i].LastError = &msg
			return nil
		}
	}
	return nil
}

type EventDedupStore struct {
	mu        sync.Mutex
	processed map[string]time.Time
}

func NewEventDedupStore() *EventDedupStore {
	return &EventDedupStore{processed: make(map[string]time.Time)}
}

func (s *EventDedupStore) IsDuplicate(_ context.Context, eventID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.processed[eventID]
	if !ok {
		return false, nil
	}
	if now.After(expiresAt) {
		delete(s.processed, eventID)
		return false, nil
	}
	return true, nil
}

func (s *EventDedupStore) MarkProcessed(_ context.Context, eventID, _ string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[eventID] = expiresAt
	return nil
}
