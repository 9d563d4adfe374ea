package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	pgUniqueViolation = "23505"
)

type orderStore struct {
	store *Store
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore.
func NewOrderStore(store *Store) domain.OrderStore {
	return &orderStore{store: store}
}

func (s *orderStore) FindOrdersByCustomer(ctx context.Context, customerID string) ([]domain.OrderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT id, order_number, customer_id, status, created_at
		FROM customer_orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`, customerID)
	if err != nil {
		return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("query orders: %w", err))
	}
	defer rows.Close()

	records := make([]domain.OrderRecord, 0)
	for rows.Next() {
		var (
			record domain.OrderRecord
			status string
		)
		if err := rows.Scan(&record.ID, &record.OrderNumber, &record.CustomerID, &status, &record.CreatedAt); err != nil {
			return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("scan order row: %w", err))
		}
		record.Status = domain.OrderStatus(status)
		record.CreatedAt = record.CreatedAt.UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("iterate order rows: %w", err))
	}

	return records, nil
}

// Insert выполняет одиночный INSERT: при ошибке запись не появляется.
func (s *orderStore) Insert(ctx context.Context, record domain.OrderRecord) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.store.DB().ExecContext(ctx, `
		INSERT INTO customer_orders (id, order_number, customer_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.ID, record.OrderNumber, record.CustomerID, string(record.Status), record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.NewStorageError("insert", fmt.Errorf("%w: %w", domain.ErrDuplicateOrderNumber, err))
		}
		return 0, domain.NewStorageError("insert", fmt.Errorf("insert order: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("insert", fmt.Errorf("rows affected: %w", err))
	}
	return affected, nil
}

func (s *orderStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

var (
	_ domain.OrderStore = (*orderStore)(nil)
	_ domain.Pinger     = (*orderStore)(nil)
)
