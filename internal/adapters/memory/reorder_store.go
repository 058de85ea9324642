package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

type reorderKey struct {
	branchID  int
	reorderID int
}

type ReorderStore struct {
	mu        sync.Mutex
	reorders  map[reorderKey]domain.Reorder
	sequences map[int]int
}

func NewReorderStore() *ReorderStore {
	return &ReorderStore{
		reorders:  make(map[reorderKey]domain.Reorder),
		sequences: make(map[int]int),
	}
}

func (s *ReorderStore) Get(_ context.Context, branchID, reorderID int) (domain.Reorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reorders[reorderKey{branchID: branchID, reorderID: reorderID}]
	if !ok {
		return domain.Reorder{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *ReorderStore) List(_ context.Context, branchID int, status *domain.ReorderStatus) ([]domain.Reorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reorder, 0)
	for key, r := range s.reorders {
		if key.branchID != branchID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReorderID < out[j].ReorderID })
	return out, nil
}

func (s *ReorderStore) ListByStatus(_ context.Context, status domain.ReorderStatus) ([]domain.Reorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reorder, 0)
	for _, r := range s.reorders {
		if r.Status == status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].ReorderID < out[j].ReorderID
	})
	return out, nil
}

func (s *ReorderStore) SumOpenQuantity(_ context.Context, branchID, articleID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for key, r := range s.reorders {
		if key.branchID == branchID && r.ArticleID == articleID && r.Status.Open() {
			total += r.Quantity
		}
	}
	return total, nil
}

// NextID hands out a branch-scoped sequence value. Ids are never reused,
// even when the reorder they were minted for is never created.
func (s *ReorderStore) NextID(_ context.Context, branchID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[branchID]++
	return s.sequences[branchID], nil
}

func (s *ReorderStore) Create(_ context.Context, reorder domain.Reorder) (domain.Reorder, error) {
	key := reorderKey{branchID: reorder.BranchID, reorderID: reorder.ReorderID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reorders[key]; exists {
		return domain.Reorder{}, domain.ErrConflict
	}
	s.reorders[key] = reorder
	return reorder, nil
}

func (s *ReorderStore) UpdateStatus(_ context.Context, branchID, reorderID int, status domain.ReorderStatus, now time.Time) (domain.Reorder, error) {
	key := reorderKey{branchID: branchID, reorderID: reorderID}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reorders[key]
	if !ok {
		return domain.Reorder{}, domain.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = now
	s.reorders[key] = r
	return r, nil
}
