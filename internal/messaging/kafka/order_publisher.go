package kafka

import (
	"context"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// EventSender отправляет сериализуемое событие в топик. Реализуется *Producer.
type EventSender interface {
	PublishEvent(topic, key string, event any) error
}

// OrderEventPublisher адаптирует EventSender к domain.OrderEventPublisher.
type OrderEventPublisher struct {
	sender EventSender
	topic  string
	now    func() time.Time
}

// NewOrderEventPublisher создаёт publisher; пустой topic заменяется на TopicOrderEvents.
func NewOrderEventPublisher(sender EventSender, topic string) *OrderEventPublisher {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OrderEventPublisher{sender: sender, topic: topic, now: time.Now}
}

// PublishOrderOpened отправляет order.opened с ключом = номер заказа,
// чтобы события одного заказа попадали в одну партицию.
func (p *OrderEventPublisher) PublishOrderOpened(ctx context.Context, record domain.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.sender.PublishEvent(p.topic, record.OrderNumber, NewOrderOpenedEvent(record, p.now()))
}

// Topic возвращает топик, в который пишет publisher.
func (p *OrderEventPublisher) Topic() string {
	return p.topic
}

var _ domain.OrderEventPublisher = (*OrderEventPublisher)(nil)
