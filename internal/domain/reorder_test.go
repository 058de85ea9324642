package domain

import (
	"errors"
	"testing"
	"time"
)

func TestReorderTransitions(t *testing.T) {
	t.Parallel()

	chain := []ReorderStatus{ReorderStatusNew, ReorderStatusWaiting, ReorderStatusDelivered, ReorderStatusCompleted}
	for i := 0; i < len(chain)-1; i++ {
		if !chain[i].CanTransition(chain[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
	}
	if ReorderStatusNew.CanTransition(ReorderStatusDelivered) {
		t.Fatalf("expected NEW -> DELIVERED to be rejected")
	}
	if ReorderStatusCompleted.CanTransition(ReorderStatusNew) {
		t.Fatalf("expected COMPLETED to be terminal")
	}
	if ReorderStatusDelivered.CanTransition(ReorderStatusWaiting) {
		t.Fatalf("expected backwards transition to be rejected")
	}
}

func TestReorderStatusOpen(t *testing.T) {
	t.Parallel()

	for _, s := range []ReorderStatus{ReorderStatusNew, ReorderStatusWaiting, ReorderStatusDelivered} {
		if !s.Open() {
			t.Fatalf("expected %s to count as open", s)
		}
	}
	if ReorderStatusCompleted.Open() {
		t.Fatalf("expected COMPLETED to be closed")
	}
}

func TestNewReorder(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	reorder, err := NewReorder(3, 1, 100001, 8, now)
	if err != nil {
		t.Fatalf("expected valid reorder, got %v", err)
	}
	if reorder.Status != ReorderStatusNew {
		t.Fatalf("expected NEW, got %s", reorder.Status)
	}
	if !reorder.Date.Equal(now.Truncate(24 * time.Hour)) {
		t.Fatalf("expected date truncated to day, got %v", reorder.Date)
	}

	if _, err := NewReorder(3, 0, 100001, 8, now); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected reorder id error, got %v", err)
	}
	if _, err := NewReorder(3, 1, 1, 8, now); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected article id error, got %v", err)
	}
	if _, err := NewReorder(3, 1, 100001, 0, now); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected quantity error, got %v", err)
	}
}

func TestParseReorderStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseReorderStatus("DELIVERED")
	if err != nil {
		t.Fatalf("expected valid status, got %v", err)
	}
	if status != ReorderStatusDelivered {
		t.Fatalf("expected DELIVERED, got %s", status)
	}
	if _, err := ParseReorderStatus("CANCELLED"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}
