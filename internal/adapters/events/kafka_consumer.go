package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// pollWindow bounds a single Poll call. Order changes and delivery
// confirmations arrive in small bursts per branch, so a partial batch
// after the window is the common case.
const pollWindow = 750 * time.Millisecond

// KafkaConsumer reads the inbound order-change and delivery
// confirmation streams through a shared consumer group.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topics []string) (*KafkaConsumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka consumer requires group id")
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one topic")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        250 * time.Millisecond,
		CommitInterval: time.Second,
	})
	return &KafkaConsumer{reader: reader}, nil
}

// Poll drains up to max messages, returning whatever arrived once the
// poll window elapses.
func (c *KafkaConsumer) Poll(ctx context.Context, max int) ([]Message, error) {
	if max <= 0 {
		max = 1
	}
	deadline := time.Now().Add(pollWindow)
	batch := make([]Message, 0, max)
	for len(batch) < max {
		readCtx, cancel := context.WithDeadline(ctx, deadline)
		msg, err := c.reader.ReadMessage(readCtx)
		cancel()
		if err == nil {
			batch = append(batch, Message{Topic: msg.Topic, Payload: msg.Value})
			continue
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return batch, nil
		}
		if errors.Is(err, context.Canceled) {
			return batch, ctx.Err()
		}
		return batch, err
	}
	return batch, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
