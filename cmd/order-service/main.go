package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordersvc/internal/app"
)

const (
	envConfigFile          = "ORDERSVC_CONFIG_FILE"
	envGRPCAddr            = "ORDERSVC_GRPC_ADDR"
	envHTTPAddr            = "ORDERSVC_HTTP_ADDR"
	envMetricsAddr         = "ORDERSVC_METRICS_ADDR"
	envStorageDriver       = "ORDERSVC_STORAGE_DRIVER"
	envPostgresDSN         = "ORDERSVC_POSTGRES_DSN"
	envPostgresAutoMigrate = "ORDERSVC_POSTGRES_AUTO_MIGRATE"
	envSQLitePath          = "ORDERSVC_SQLITE_PATH"
	envKafkaBrokers        = "ORDERSVC_KAFKA_BROKERS"
	envKafkaTopic          = "ORDERSVC_KAFKA_TOPIC"
	envLogLevel            = "ORDERSVC_LOG_LEVEL"
	envLogFormat           = "ORDERSVC_LOG_FORMAT"
	envShutdownTimeout     = "ORDERSVC_SHUTDOWN_TIMEOUT"

	dotEnvFile = ".env"
)

type envLookup func(string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(cfg app.Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	level := log.InfoLevel
	if strings.TrimSpace(cfg.LogLevel) != "" {
		parsed, err := log.ParseLevel(strings.TrimSpace(cfg.LogLevel))
		if err != nil {
			return err
		}
		level = parsed
	}
	log.SetLevel(level)
	return nil
}

// loadDotEnv подгружает переменные из файла в окружение процесса.
// Уже заданные переменные не перезаписываются; отсутствие файла не ошибка.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// readConfigFromEnv собирает конфигурацию: значения по умолчанию, затем
// YAML-файл из ORDERSVC_CONFIG_FILE, затем переменные ORDERSVC_*.
// Некорректные значения не прерывают запуск: они попадают в warnings,
// а поле сохраняет прежнее значение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if path, ok := lookupTrimmed(lookup, envConfigFile); ok {
		loaded, err := app.LoadFile(path, cfg)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else {
			cfg = loaded
		}
	}

	if v, ok := lookupTrimmed(lookup, envGRPCAddr); ok {
		cfg.GRPCAddr = v
	}
	if v, ok := lookupClearable(lookup, envHTTPAddr); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envStorageDriver); ok {
		cfg.StorageDriver = app.StorageDriver(strings.ToLower(v))
	}
	if v, ok := lookupTrimmed(lookup, envPostgresDSN); ok {
		cfg.PostgresDSN = v
	}
	if v, ok := lookupTrimmed(lookup, envPostgresAutoMigrate); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envPostgresAutoMigrate, err))
		} else {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v, ok := lookupTrimmed(lookup, envSQLitePath); ok {
		cfg.SQLitePath = v
	}
	if v, ok := lookupClearable(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = splitList(v)
	}
	if v, ok := lookupTrimmed(lookup, envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := lookupTrimmed(lookup, envLogLevel); ok {
		if _, err := log.ParseLevel(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envLogLevel, err))
		} else {
			cfg.LogLevel = v
		}
	}
	if v, ok := lookupTrimmed(lookup, envLogFormat); ok {
		switch format := strings.ToLower(v); format {
		case "text", "json":
			cfg.LogFormat = format
		default:
			warnings = append(warnings, fmt.Sprintf("%s: unsupported log format %q", envLogFormat, v))
		}
	}

	if v, ok := lookupTrimmed(lookup, envShutdownTimeout); ok {
		parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envShutdownTimeout, err))
		} else {
			cfg.ShutdownTimeout = parsed
		}
	}

	return cfg, warnings
}

func lookupTrimmed(lookup envLookup, key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// lookupClearable, в отличие от lookupTrimmed, принимает пустое значение:
// так переменная окружения выключает HTTP API или публикацию в Kafka.
func lookupClearable(lookup envLookup, key string) (string, bool) {
	value, ok := lookup(key)
	return strings.TrimSpace(value), ok
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}

func parseDuration(value string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid duration value %q: %w", value, err)
	}
	if valid != nil && !valid(parsed) {
		return 0, fmt.Errorf("invalid duration value %q: %s", value, rule)
	}
	return parsed, nil
}

func main() {
	if err := loadDotEnv(dotEnvFile); err != nil {
		log.WithError(err).Warn("не удалось прочитать .env, продолжаем без него")
	}

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	if err := setupLogger(cfg); err != nil {
		log.WithError(err).Warn("invalid logger settings, using defaults")
	}
	for _, warning := range warnings {
		log.Warn("config: " + warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"grpc_addr":      cfg.GRPCAddr,
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"kafka_enabled":  len(cfg.KafkaBrokers) > 0,
	}).Info("запускаем OrderService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("OrderService остановлен")
}
