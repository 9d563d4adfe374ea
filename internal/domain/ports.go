package domain

import "context"

// OrderStore описывает требования к хранилищу заказов.
// Любой сбой бэкенда должен возвращаться как *StorageError.
type OrderStore interface {
	// FindOrdersByCustomer возвращает все заказы клиента в порядке хранилища.
	FindOrdersByCustomer(ctx context.Context, customerID string) ([]OrderRecord, error)
	// Insert сохраняет новую запись и возвращает число вставленных строк.
	Insert(ctx context.Context, record OrderRecord) (int64, error)
}

// Pinger реализуют хранилища, доступность которых можно проверить.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SummaryTransformer строит OrderSummary из сохранённой записи.
type SummaryTransformer interface {
	Transform(record OrderRecord) (OrderSummary, error)
}

// OrderNumberGenerator выдаёт уникальный номер заказа на каждый вызов.
type OrderNumberGenerator interface {
	NewOrderNumber() string
}

// OrderEventPublisher публикует события об открытых заказах.
type OrderEventPublisher interface {
	PublishOrderOpened(ctx context.Context, record OrderRecord) error
}
