package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
	"github.com/vladislavdragonenkov/ordersvc/internal/metrics"
	"github.com/vladislavdragonenkov/ordersvc/internal/ordernumber"
)

// MaxInsertAttempts — сколько раз OpenNewOrder пытается вставить запись:
// первая попытка и один повтор.
const MaxInsertAttempts = 2

const (
	opGetOrderSummaries = "get_order_summaries"
	opOpenNewOrder      = "open_new_order"
)

// insertState — состояние автомата записи нового заказа.
type insertState int

const (
	stateAttempting insertState = iota
	stateSucceeded
	stateExhausted
)

func (s insertState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("insertState(%d)", int(s))
	}
}

// nextInsertState вычисляет переход после попытки attempt, завершившейся err.
// err должен быть nil или ошибкой хранилища: остальные ошибки автомат не обрабатывает.
func nextInsertState(attempt int, err error) insertState {
	switch {
	case err == nil:
		return stateSucceeded
	case attempt < MaxInsertAttempts:
		return stateAttempting
	default:
		return stateExhausted
	}
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics задаёт метрики сервиса.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithOrderNumberGenerator подменяет генератор номеров заказов.
func WithOrderNumberGenerator(g domain.OrderNumberGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.numbers = g
		}
	}
}

// WithEventPublisher включает публикацию события order.opened.
func WithEventPublisher(p domain.OrderEventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service выдаёт историю заказов клиента и открывает новые заказы.
// Не хранит состояние между вызовами и безопасен для конкурентного
// использования, если таковы его зависимости.
type Service struct {
	store       domain.OrderStore
	transformer domain.SummaryTransformer
	numbers     domain.OrderNumberGenerator
	publisher   domain.OrderEventPublisher
	metrics     *metrics.OrderMetrics
	logger      *log.Entry
	now         func() time.Time
	newID       func() string
}

// NewService конструирует сервис заказов.
func NewService(store domain.OrderStore, transformer domain.SummaryTransformer, options ...Option) *Service {
	s := &Service{
		store:       store,
		transformer: transformer,
		numbers:     ordernumber.NewGenerator(ordernumber.DefaultPrefix),
		logger:      log.WithField("component", "order-service"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// GetOrderSummaries возвращает summary по всем заказам клиента в порядке хранилища.
// Ошибка чтения возвращается без изменений и без повторов; ошибка трансформации
// любой записи прерывает выдачу целиком.
func (s *Service) GetOrderSummaries(ctx context.Context, customerID string) ([]domain.OrderSummary, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opGetOrderSummaries, time.Since(start)) }()

	records, err := s.store.FindOrdersByCustomer(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to load customer orders")
		return nil, err
	}

	summaries := make([]domain.OrderSummary, 0, len(records))
	for _, record := range records {
		summary, err := s.transformer.Transform(record)
		if err != nil {
			return nil, fmt.Errorf("transform order %q: %w", record.OrderNumber, err)
		}
		summaries = append(summaries, summary)
	}

	s.metrics.RecordSummariesReturned(len(summaries))
	return summaries, nil
}

// OpenNewOrder открывает заказ и возвращает его номер.
// Запись строится один раз и при сбое хранилища вставляется повторно без
// изменений, не более MaxInsertAttempts раз. После исчерпания попыток
// возвращается *domain.ServiceError с последней ошибкой хранилища.
func (s *Service) OpenNewOrder(ctx context.Context, customerID string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(opOpenNewOrder, time.Since(start)) }()

	record := domain.NewOrderRecord(s.newID(), customerID, s.numbers.NewOrderNumber(), s.now())
	logger := s.logger.WithFields(log.Fields{
		"customer_id":  record.CustomerID,
		"order_number": record.OrderNumber,
	})

	state := stateAttempting
	attempt := 1
	var lastErr error
	for state == stateAttempting {
		err := s.insert(ctx, record)
		if err != nil && !domain.IsStorageAccess(err) {
			s.metrics.RecordInsertAttempt(metrics.ResultOtherError)
			s.metrics.RecordOrderOutcome(metrics.OutcomeFailed)
			logger.WithError(err).Error("order insert failed with non-storage error")
			return "", err
		}

		state = nextInsertState(attempt, err)
		switch state {
		case stateSucceeded:
			s.metrics.RecordInsertAttempt(metrics.ResultSuccess)
		case stateAttempting:
			s.metrics.RecordInsertAttempt(metrics.ResultStorageError)
			logger.WithError(err).WithFields(log.Fields{
				"attempt":      attempt,
				"max_attempts": MaxInsertAttempts,
			}).Warn("order insert failed, retrying")
			attempt++
		case stateExhausted:
			s.metrics.RecordInsertAttempt(metrics.ResultStorageError)
			lastErr = err
		}
	}

	if state == stateExhausted {
		s.metrics.RecordOrderOutcome(metrics.OutcomeExhausted)
		logger.WithError(lastErr).WithField("max_attempts", MaxInsertAttempts).
			Error("order insert failed after all retry attempts")
		return "", &domain.ServiceError{Op: "open new order", Attempts: attempt, Err: lastErr}
	}

	if attempt > 1 {
		s.metrics.RecordOrderOutcome(metrics.OutcomeRecovered)
		logger.WithField("attempt", attempt).Info("order insert succeeded after retry")
	} else {
		s.metrics.RecordOrderOutcome(metrics.OutcomeOpened)
		logger.Debug("order opened")
	}

	s.publishOpened(ctx, record, logger)
	return record.OrderNumber, nil
}

// insert выполняет одну попытку записи. Нулевой счётчик вставленных строк
// без ошибки тоже считается сбоем хранилища.
func (s *Service) insert(ctx context.Context, record domain.OrderRecord) error {
	affected, err := s.store.Insert(ctx, record)
	if err != nil {
		return err
	}
	if affected < 1 {
		return domain.NewStorageError("insert", domain.ErrNothingInserted)
	}
	return nil
}

func (s *Service) publishOpened(ctx context.Context, record domain.OrderRecord, logger *log.Entry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderOpened(ctx, record); err != nil {
		s.metrics.RecordEventPublished(metrics.ResultOtherError)
		logger.WithError(err).Warn("failed to publish order opened event")
		return
	}
	s.metrics.RecordEventPublished(metrics.ResultSuccess)
}
