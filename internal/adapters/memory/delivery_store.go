package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

type deliveryKey struct {
	branchID    int
	orderNumber int
}

type DeliveryStore struct {
	mu         sync.RWMutex
	deliveries map[deliveryKey]domain.Delivery
}

func NewDeliveryStore() *DeliveryStore {
	return &DeliveryStore{deliveries: make(map[deliveryKey]domain.Delivery)}
}

func cloneDelivery(d domain.Delivery) domain.Delivery {
	articles := make([]domain.DeliveryArticle, len(d.Articles))
	copy(articles, d.Articles)
	d.Articles = articles
	return d
}

func (s *DeliveryStore) Get(_ context.Context, branchID, orderNumber int) (domain.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deliveries[deliveryKey{branchID: branchID, orderNumber: orderNumber}]
	if !ok {
		return domain.Delivery{}, domain.ErrNotFound
	}
	return cloneDelivery(d), nil
}

func (s *DeliveryStore) List(_ context.Context, branchID int, status *domain.DeliveryStatus) ([]domain.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Delivery, 0)
	for key, d := range s.deliveries {
		if key.branchID != branchID {
			continue
		}
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, cloneDelivery(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, nil
}

func (s *DeliveryStore) ListOpen(_ context.Context) ([]domain.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Delivery, 0)
	for _, d := range s.deliveries {
		if !d.Completed() {
			out = append(out, cloneDelivery(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].OrderNumber < out[j].OrderNumber
	})
	return out, nil
}

func (s *DeliveryStore) Create(_ context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	key := deliveryKey{branchID: delivery.BranchID, orderNumber: delivery.OrderNumber}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.deliveries[key]; exists {
		return domain.Delivery{}, domain.ErrConflict
	}
	delivery.Version = 1
	s.deliveries[key] = cloneDelivery(delivery)
	return cloneDelivery(delivery), nil
}

// Replace is replace-on-match: the stored version must equal the caller's
// snapshot version or the update is rejected with ErrVersionConflict.
func (s *DeliveryStore) Replace(_ context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	key := deliveryKey{branchID: delivery.BranchID, orderNumber: delivery.OrderNumber}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.deliveries[key]
	if !ok {
		return domain.Delivery{}, domain.ErrNotFound
	}
	if stored.Version != delivery.Version {
		return domain.Delivery{}, domain.ErrVersionConflict
	}
	delivery.Version++
	s.deliveries[key] = cloneDelivery(delivery)
	return cloneDelivery(delivery), nil
}
