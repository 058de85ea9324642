package events

import (
	"context"
	"log/slog"
)

// NoopConsumer stands in when no brokers are configured.
type NoopConsumer struct{}

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

func (c *NoopConsumer) Poll(_ context.Context, _ int) ([]Message, error) {
	return nil, nil
}

// LoggingPublisher logs outgoing events instead of delivering them; used as
// the fallback publisher when Kafka is unavailable.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.InfoContext(ctx, "event published to log sink",
		"module", "events.logging_publisher",
		"event_type", eventType,
		"partition_key", partitionKey,
		"payload_bytes", len(payload),
	)
	return nil
}
