package events

import (
	"context"
	"testing"

	"github.com/biso-no/shopcore/internal/config"
)

func TestNewPublisherWithoutBroker(t *testing.T) {
	publisher, err := newPublisher(&config.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := publisher.(NoopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", publisher)
	}
}

func TestNoopPublisher(t *testing.T) {
	var publisher NoopPublisher
	if err := publisher.Publish(context.Background(), OrderPaid, map[string]string{"order_id": "o1"}); err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
