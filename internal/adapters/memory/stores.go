// Package memory provides in-memory implementations of the persistence
// ports. They back unit tests and local runs without a database while
// honoring the same contracts as the postgres adapter, including per-key
// atomicity of the ledger counters.
package memory

import (
	"github.com/retailforge/branch-inventory-service/internal/ports"
)

type Stores struct {
	Catalog    ports.CatalogRepository
	Deliveries ports.DeliveryRepository
	Reorders   ports.ReorderRepository
	Outbox     ports.OutboxRepository
	EventDedup ports.EventDedupRepository
}

func NewStores() Stores {
	return Stores{
		Catalog:    NewCatalogStore(),
		Deliveries: NewDeliveryStore(),
		Reorders:   NewReorderStore(),
		Outbox:     NewOutboxStore(),
		EventDedup: NewEventDedupStore(),
	}
}
