package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

type recordingSender struct {
	topic string
	key   string
	event any
	err   error
	calls int
}

func (s *recordingSender) PublishEvent(topic, key string, event any) error {
	s.calls++
	s.topic, s.key, s.event = topic, key, event
	return s.err
}

func TestOrderEventPublisher_PublishOrderOpened(t *testing.T) {
	sender := &recordingSender{}
	publisher := NewOrderEventPublisher(sender, "")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	record := domain.NewOrderRecord("id-1", "customer-1", "ORD-1", fixed.Add(-time.Second))
	if err := publisher.PublishOrderOpened(context.Background(), record); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if sender.topic != TopicOrderEvents || sender.key != "ORD-1" {
		t.Fatalf("unexpected destination %s/%s", sender.topic, sender.key)
	}
	event, ok := sender.event.(*OrderEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", sender.event)
	}
	want := OrderEvent{
		EventType:   EventTypeOrderOpened,
		OrderID:     "id-1",
		OrderNumber: "ORD-1",
		CustomerID:  "customer-1",
		Status:      "open",
		Timestamp:   fixed,
	}
	if *event != want {
		t.Fatalf("event = %+v, want %+v", *event, want)
	}
}

func TestOrderEventPublisher_CustomTopicAndErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("broker down")}
	publisher := NewOrderEventPublisher(sender, "  custom.topic  ")

	if publisher.Topic() != "custom.topic" {
		t.Fatalf("unexpected topic %q", publisher.Topic())
	}

	record := domain.NewOrderRecord("id-1", "customer-1", "ORD-1", time.Now())
	if err := publisher.PublishOrderOpened(context.Background(), record); err == nil {
		t.Fatal("expected sender error to propagate")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := publisher.PublishOrderOpened(ctx, record); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("canceled context must not reach the sender, calls=%d", sender.calls)
	}
}

func TestOrderEventPublisher_WithSaramaProducer(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	publisher := NewOrderEventPublisher(newProducer(mockProducer, nil), TopicOrderEvents)

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var event OrderEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeOrderOpened || event.OrderNumber != "ORD-7" {
			return fmt.Errorf("unexpected event %+v", event)
		}
		return nil
	})

	record := domain.NewOrderRecord("id-7", "customer-7", "ORD-7", time.Now())
	if err := publisher.PublishOrderOpened(context.Background(), record); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
