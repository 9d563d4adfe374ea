package domain

import (
	"strings"
	"time"
)

// OrderStatus описывает состояние заказа в хранилище.
type OrderStatus string

const (
	// OrderStatusOpen — заказ открыт: insert в хранилище завершился успешно.
	OrderStatusOpen OrderStatus = "open"
	// OrderStatusClosed — заказ закрыт внешней системой.
	OrderStatusClosed OrderStatus = "closed"
)

// OrderRecord — сохранённое представление заказа клиента.
type OrderRecord struct {
	// ID — суррогатный идентификатор записи в хранилище.
	ID string
	// OrderNumber — уникальный номер заказа, генерируется при открытии.
	OrderNumber string
	CustomerID  string
	Status      OrderStatus
	CreatedAt   time.Time
}

// NewOrderRecord собирает запись нового открытого заказа.
func NewOrderRecord(id, customerID, orderNumber string, now time.Time) OrderRecord {
	return OrderRecord{
		ID:          id,
		OrderNumber: orderNumber,
		CustomerID:  customerID,
		Status:      OrderStatusOpen,
		CreatedAt:   now.UTC(),
	}
}

// Validate проверяет, что запись пригодна для сохранения и трансформации.
func (r OrderRecord) Validate() error {
	if strings.TrimSpace(r.OrderNumber) == "" {
		return ErrOrderNumberRequired
	}
	if strings.TrimSpace(r.CustomerID) == "" {
		return ErrCustomerRequired
	}
	return nil
}

// OrderSummary — read-проекция одной OrderRecord для клиента.
// Не имеет собственной идентичности и строится заново на каждый запрос.
type OrderSummary struct {
	OrderNumber string
	CustomerID  string
	Status      OrderStatus
	OpenedAt    time.Time
	// AgeDays — сколько полных суток прошло с открытия заказа.
	AgeDays int
}
