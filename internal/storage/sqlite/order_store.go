// Package sqlite хранит заказы во встроенной базе SQLite (mattn/go-sqlite3).
// Подходит для одиночного экземпляра сервиса без внешней БД.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// timeLayout фиксированной ширины, чтобы сортировка TEXT совпадала с хронологической.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS customer_orders (
    id           TEXT PRIMARY KEY,
    order_number TEXT NOT NULL UNIQUE,
    customer_id  TEXT NOT NULL,
    status       TEXT NOT NULL,
    created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_customer_orders_customer
    ON customer_orders (customer_id, created_at DESC, id DESC);
`

// Store — SQLite-реализация OrderStore.
type Store struct {
	db *sql.DB
}

// Open открывает (или создаёт) базу по пути path и применяет схему.
// ":memory:" открывает общую in-memory базу.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	if path == ":memory:" {
		dsn = "file::memory:?mode=memory&cache=shared"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// Один writer: SQLite сериализует запись на уровне файла.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает базу.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping проверяет доступность базы.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) FindOrdersByCustomer(ctx context.Context, customerID string) ([]domain.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_number, customer_id, status, created_at
		FROM   customer_orders
		WHERE  customer_id = ?
		ORDER  BY created_at DESC, id DESC
	`, customerID)
	if err != nil {
		return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("sqlite: query orders: %w", err))
	}
	defer rows.Close()

	records := make([]domain.OrderRecord, 0)
	for rows.Next() {
		var (
			record    domain.OrderRecord
			status    string
			createdAt string
		)
		if err := rows.Scan(&record.ID, &record.OrderNumber, &record.CustomerID, &status, &createdAt); err != nil {
			return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("sqlite: scan order: %w", err))
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("sqlite: parse time %q: %w", createdAt, err))
		}
		record.Status = domain.OrderStatus(status)
		record.CreatedAt = parsed.UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("find orders by customer", fmt.Errorf("sqlite: iterate orders: %w", err))
	}
	return records, nil
}

func (s *Store) Insert(ctx context.Context, record domain.OrderRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO customer_orders (id, order_number, customer_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.ID, record.OrderNumber, record.CustomerID, string(record.Status), record.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.NewStorageError("insert", fmt.Errorf("%w: %w", domain.ErrDuplicateOrderNumber, err))
		}
		return 0, domain.NewStorageError("insert", fmt.Errorf("sqlite: insert order: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("insert", fmt.Errorf("sqlite: rows affected: %w", err))
	}
	return affected, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

var (
	_ domain.OrderStore = (*Store)(nil)
	_ domain.Pinger     = (*Store)(nil)
)
