package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// EventType определяет тип события.
type EventType string

// EventTypeOrderOpened публикуется после успешной записи нового заказа.
const EventTypeOrderOpened EventType = "order.opened"

// TopicOrderEvents — топик по умолчанию для событий заказов.
const TopicOrderEvents = "ordersvc.order.events"

// OrderEvent — JSON-представление события заказа.
type OrderEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderOpenedEvent строит событие order.opened по сохранённой записи.
func NewOrderOpenedEvent(record domain.OrderRecord, now time.Time) *OrderEvent {
	return &OrderEvent{
		EventType:   EventTypeOrderOpened,
		OrderID:     record.ID,
		OrderNumber: record.OrderNumber,
		CustomerID:  record.CustomerID,
		Status:      string(record.Status),
		Timestamp:   now.UTC(),
	}
}
