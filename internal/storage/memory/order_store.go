package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// orderStoreInMemory — in-memory реализация OrderStore для локальной разработки и тестов.
type orderStoreInMemory struct {
	mu         sync.RWMutex
	byCustomer map[string][]domain.OrderRecord
	numbers    map[string]struct{}
}

// NewOrderStore возвращает пустое in-memory хранилище заказов.
func NewOrderStore() domain.OrderStore {
	return &orderStoreInMemory{
		byCustomer: make(map[string][]domain.OrderRecord),
		numbers:    make(map[string]struct{}),
	}
}

// FindOrdersByCustomer возвращает копию заказов клиента, новые первыми.
func (s *orderStoreInMemory) FindOrdersByCustomer(_ context.Context, customerID string) ([]domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byCustomer[customerID]
	result := make([]domain.OrderRecord, len(stored))
	copy(result, stored)

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// Insert сохраняет запись, если номер заказа ещё не занят.
func (s *orderStoreInMemory) Insert(_ context.Context, record domain.OrderRecord) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, domain.NewStorageError("insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.numbers[record.OrderNumber]; exists {
		return 0, domain.NewStorageError("insert", domain.ErrDuplicateOrderNumber)
	}
	s.numbers[record.OrderNumber] = struct{}{}
	s.byCustomer[record.CustomerID] = append(s.byCustomer[record.CustomerID], record)
	return 1, nil
}

// Ping всегда успешен.
func (s *orderStoreInMemory) Ping(context.Context) error {
	return nil
}

var (
	_ domain.OrderStore = (*orderStoreInMemory)(nil)
	_ domain.Pinger     = (*orderStoreInMemory)(nil)
)
