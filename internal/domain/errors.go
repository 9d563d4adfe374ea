package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerRequired — отсутствует идентификатор клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// ErrOrderNumberRequired — у записи нет номера заказа.
	ErrOrderNumberRequired = errors.New("order_number is required")
	// ErrInvalidRecord — запись не может быть преобразована в summary.
	ErrInvalidRecord = errors.New("invalid order record")
	// ErrStorageAccess — любая ошибка чтения/записи в хранилище заказов.
	ErrStorageAccess = errors.New("storage access failure")
	// ErrServiceFailure — сервис не смог выполнить операцию после всех попыток.
	ErrServiceFailure = errors.New("order service failure")
	// ErrDuplicateOrderNumber — номер заказа уже занят.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	// ErrNothingInserted — хранилище вернуло нулевое число вставленных строк.
	ErrNothingInserted = errors.New("no rows inserted")
)

// StorageError описывает сбой доступа к хранилищу.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError оборачивает ошибку бэкенда в StorageError.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s: %s", e.Op, ErrStorageAccess)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap отдаёт и sentinel ErrStorageAccess, и исходную ошибку бэкенда.
func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorageAccess}
	}
	return []error{ErrStorageAccess, e.Err}
}

// ServiceError возвращается сервисом, когда запись не удалась после всех попыток.
// Ошибка терминальная: выше по стеку её не повторяют.
type ServiceError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

// Unwrap отдаёт sentinel ErrServiceFailure и последнюю ошибку хранилища.
func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrServiceFailure}
	}
	return []error{ErrServiceFailure, e.Err}
}

// IsStorageAccess проверяет, относится ли ошибка к сбоям хранилища.
func IsStorageAccess(err error) bool {
	return errors.Is(err, ErrStorageAccess)
}

// IsServiceFailure проверяет, является ли ошибка сервисным отказом.
func IsServiceFailure(err error) bool {
	return errors.Is(err, ErrServiceFailure)
}
