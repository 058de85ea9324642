package events

import "testing"

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	t.Parallel()

	if _, err := NewKafkaPublisher(nil, nil); err == nil {
		t.Fatalf("expected error for empty broker list")
	}
}

func TestKafkaPublisherResolvesTopics(t *testing.T) {
	t.Parallel()

	pub, err := NewKafkaPublisher([]string{"localhost:9092"}, map[string]string{
		"branch.order_changed":      "inventory.order-changes",
		"branch.delivery_confirmed": "",
	})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	if got := pub.resolveTopic("branch.order_changed"); got != "inventory.order-changes" {
		t.Fatalf("mapped topic = %q, want inventory.order-changes", got)
	}
	if got := pub.resolveTopic("branch.delivery_confirmed"); got != "branch.delivery_confirmed" {
		t.Fatalf("blank mapping should fall back to event type, got %q", got)
	}
	if got := pub.resolveTopic("branch.audit_log"); got != "branch.audit_log" {
		t.Fatalf("unmapped type should fall back to event type, got %q", got)
	}
}

func TestNewKafkaConsumerValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewKafkaConsumer(nil, "inventory", []string{"branch.order_changed"}); err == nil {
		t.Fatalf("expected error for empty broker list")
	}
	if _, err := NewKafkaConsumer([]string{"localhost:9092"}, "", []string{"branch.order_changed"}); err == nil {
		t.Fatalf("expected error for empty group id")
	}
	if _, err := NewKafkaConsumer([]string{"localhost:9092"}, "inventory", nil); err == nil {
		t.Fatalf("expected error for empty topic list")
	}
}
