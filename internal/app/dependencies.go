package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/ordersvc/internal/health"
	"github.com/vladislavdragonenkov/ordersvc/internal/storage/memory"
	"github.com/vladislavdragonenkov/ordersvc/internal/storage/postgres"
	"github.com/vladislavdragonenkov/ordersvc/internal/storage/sqlite"
)

// runtimeDependencies — хранилище, выбранное конфигурацией, и его проверка готовности.
type runtimeDependencies struct {
	store          domain.OrderStore
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func (d runtimeDependencies) close() error {
	if d.closeFn == nil {
		return nil
	}
	return d.closeFn()
}

// initRuntimeDependencies открывает хранилище по cfg.StorageDriver.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewOrderStore()
		logger.Info("using in-memory order storage")
		return runtimeDependencies{
			store:          store,
			storageChecker: pingChecker(store),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return runtimeDependencies{}, fmt.Errorf("postgres dsn is required for storage driver %q", cfg.StorageDriver)
		}
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeDependencies{}, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := db.MigrateUp(ctx, 0); err != nil {
				_ = db.Close()
				return runtimeDependencies{}, fmt.Errorf("apply postgres migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		store := postgres.NewOrderStore(db)
		logger.Info("using postgres order storage")
		return runtimeDependencies{
			store:          store,
			storageChecker: pingChecker(store),
			closeFn:        db.Close,
		}, nil

	case StorageDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return runtimeDependencies{}, fmt.Errorf("open sqlite: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("using sqlite order storage")
		return runtimeDependencies{
			store:          store,
			storageChecker: pingChecker(store),
			closeFn:        store.Close,
		}, nil

	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// pingChecker возвращает проверку хранилища, если оно умеет Ping.
func pingChecker(store domain.OrderStore) healthcheck.Checker {
	pinger, ok := store.(domain.Pinger)
	if !ok {
		return nil
	}
	return healthcheck.NewPingChecker("storage", pinger)
}
