package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/retailforge/branch-inventory-service/internal/ports"
)

type Service struct {
	cfg        Config
	logger     *slog.Logger
	catalog    ports.CatalogRepository
	deliveries ports.DeliveryRepository
	reorders   ports.ReorderRepository
	outbox     ports.OutboxRepository
	eventDedup ports.EventDedupRepository
	cache      ports.Cache
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Logger     *slog.Logger
	Catalog    ports.CatalogRepository
	Deliveries ports.DeliveryRepository
	Reorders   ports.ReorderRepository
	Outbox     ports.OutboxRepository
	EventDedup ports.EventDedupRepository
	Cache      ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "branch-inventory-service"
	}
	if cfg.CatalogCacheTTL <= 0 {
		cfg.CatalogCacheTTL = 5 * time.Minute
	}
	if cfg.EventDedupTTL <= 0 {
		cfg.EventDedupTTL = 7 * 24 * time.Hour
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		logger:     logger,
		catalog:    deps.Catalog,
		deliveries: deps.Deliveries,
		reorders:   deps.Reorders,
		outbox:     deps.Outbox,
		eventDedup: deps.EventDedup,
		cache:      deps.Cache,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

// casRetries bounds optimistic-concurrency retry loops on delivery updates.
const casRetries = 5

func (s *Service) enqueueEvent(ctx context.Context, eventType string, payload any, partitionKey string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      raw,
		OccurredAt:   s.nowFn(),
	})
}

// audit emits a fire-and-forget log event; enqueue failures are logged, never
// surfaced to the caller.
func (s *Service) audit(ctx context.Context, branchID int, auditType, message string) {
	evt := AuditEvent{
		BranchID: branchID,
		Type:     auditType,
		Message:  message,
		Datetime: s.nowFn().Format(time.RFC3339),
	}
	if err := s.enqueueEvent(ctx, EventTypeAuditLog, evt, partitionKeyBranch(branchID)); err != nil {
		s.logger.WarnContext(ctx, "failed to enqueue audit event",
			"module", "application.service",
			"operation", "audit",
			"outcome", "failure",
			"error", err,
		)
	}
}

func (s *Service) isDuplicateEvent(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return false
	}
	dup, err := s.eventDedup.IsDuplicate(ctx, eventID, s.nowFn())
	if err != nil {
		return false
	}
	return dup
}

func (s *Service) markEventProcessed(ctx context.Context, eventID, eventType string) {
	if eventID == "" {
		return
	}
	_ = s.eventDedup.MarkProcessed(ctx, eventID, eventType, s.nowFn().Add(s.cfg.EventDedupTTL))
}
