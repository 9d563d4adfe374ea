// Package postgres хранит заказы в PostgreSQL через database/sql и драйвер pgx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultApplicationName = "ordersvc"
	pingTimeout            = 5 * time.Second
)

var errStoreNotInitialized = errors.New("postgres store is not initialized")

type poolOptions struct {
	applicationName string
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
}

func defaultPoolOptions() poolOptions {
	return poolOptions{
		applicationName: defaultApplicationName,
		maxOpenConns:    25,
		maxIdleConns:    25,
		connMaxLifetime: 30 * time.Minute,
		connMaxIdleTime: 5 * time.Minute,
	}
}

// Option настраивает пул подключений.
type Option func(*poolOptions)

// WithMaxOpenConns ограничивает число открытых подключений; idle-лимит
// не превышает его.
func WithMaxOpenConns(n int) Option {
	return func(o *poolOptions) {
		if n <= 0 {
			return
		}
		o.maxOpenConns = n
		if o.maxIdleConns > n {
			o.maxIdleConns = n
		}
	}
}

// WithApplicationName задаёт application_name, видимый в pg_stat_activity.
// Значение из DSN имеет приоритет.
func WithApplicationName(name string) Option {
	return func(o *poolOptions) {
		if name != "" {
			o.applicationName = name
		}
	}
}

// Store владеет пулом подключений к PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open разбирает DSN, открывает пул и проверяет доступность базы.
func Open(ctx context.Context, dsn string, options ...Option) (*Store, error) {
	opts := defaultPoolOptions()
	for _, option := range options {
		option(&opts)
	}

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if _, ok := connConfig.RuntimeParams["application_name"]; !ok {
		connConfig.RuntimeParams["application_name"] = opts.applicationName
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(opts.maxOpenConns)
	db.SetMaxIdleConns(opts.maxIdleConns)
	db.SetConnMaxLifetime(opts.connMaxLifetime)
	db.SetConnMaxIdleTime(opts.connMaxIdleTime)

	store := &Store{db: db}
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return store, nil
}

// DB возвращает пул для запросов.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping проверяет доступность базы не дольше pingTimeout.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
