package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/application"
)

type Message struct {
	Topic   string
	Payload []byte
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
}

// ConsumerWorker routes inbound topics to the service handlers. Malformed
// payloads are logged and dropped; the transport owns redelivery.
type ConsumerWorker struct {
	logger              *slog.Logger
	consumer            Consumer
	service             *application.Service
	interval            time.Duration
	topicOrderChanged   string
	topicDeliveryConfim string
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, service *application.Service, interval time.Duration, topicOrderChanged, topicDeliveryConfirmed string) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ConsumerWorker{
		logger:              logger,
		consumer:            consumer,
		service:             service,
		interval:            interval,
		topicOrderChanged:   topicOrderChanged,
		topicDeliveryConfim: topicDeliveryConfirmed,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		switch msg.Topic {
		case w.topicOrderChanged:
			if err := w.service.HandleOrderChanged(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle order change event", "topic", msg.Topic, "error", err)
			}
		case w.topicDeliveryConfim:
			if err := w.service.HandleDeliveryConfirmed(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle delivery confirmation event", "topic", msg.Topic, "error", err)
			}
		default:
			w.logger.WarnContext(ctx, "message on unexpected topic dropped", "topic", msg.Topic)
		}
	}
	return nil
}
