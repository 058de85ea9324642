package postgres

import (
	"github.com/retailforge/branch-inventory-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Catalog    ports.CatalogRepository
	Deliveries ports.DeliveryRepository
	Reorders   ports.ReorderRepository
	Outbox     ports.OutboxRepository
	EventDedup ports.EventDedupRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Catalog:    &catalogRepository{db: db},
		Deliveries: &deliveryRepository{db: db},
		Reorders:   &reorderRepository{db: db},
		Outbox:     &outboxRepository{db: db},
		EventDedup: &eventDedupRepository{db: db},
	}
}
