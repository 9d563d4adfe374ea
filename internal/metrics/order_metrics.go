package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения label result/outcome.
const (
	ResultSuccess      = "success"
	ResultStorageError = "storage_error"
	ResultOtherError   = "other_error"

	OutcomeOpened    = "opened"
	OutcomeRecovered = "recovered"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
)

// OrderMetrics содержит метрики сервиса заказов.
// Все методы безопасны для nil-получателя.
type OrderMetrics struct {
	// Попытки insert по результату.
	insertAttempts *prometheus.CounterVec
	// Итог OpenNewOrder.
	ordersOpened *prometheus.CounterVec
	// Размер выдачи GetOrderSummaries.
	summariesReturned prometheus.Histogram
	// Длительность операций сервиса.
	operationDuration *prometheus.HistogramVec
	// Публикация событий order.opened.
	eventsPublished *prometheus.CounterVec
}

// NewOrderMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer регистрирует метрики в заданном registerer.
// Если коллектор уже зарегистрирован, переиспользуется существующий.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		insertAttempts: register(registerer, "ordersvc_order_insert_attempts_total",
			prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ordersvc_order_insert_attempts_total",
				Help: "Total number of order insert attempts grouped by result.",
			}, []string{"result"})),
		ordersOpened: register(registerer, "ordersvc_orders_opened_total",
			prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ordersvc_orders_opened_total",
				Help: "Total number of OpenNewOrder calls grouped by outcome.",
			}, []string{"outcome"})),
		summariesReturned: register(registerer, "ordersvc_order_summaries_returned",
			prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "ordersvc_order_summaries_returned",
				Help:    "Number of summaries returned per GetOrderSummaries call.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
			})),
		operationDuration: register(registerer, "ordersvc_order_operation_duration_seconds",
			prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "ordersvc_order_operation_duration_seconds",
				Help:    "Duration of order service operations in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			}, []string{"operation"})),
		eventsPublished: register(registerer, "ordersvc_order_events_published_total",
			prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ordersvc_order_events_published_total",
				Help: "Total number of order events published grouped by result.",
			}, []string{"result"})),
	}
}

func register[T prometheus.Collector](registerer prometheus.Registerer, name string, collector T) T {
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", name))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector %q: %v", name, err))
	}
	return collector
}

// RecordInsertAttempt учитывает одну попытку insert.
func (m *OrderMetrics) RecordInsertAttempt(result string) {
	if m == nil {
		return
	}
	m.insertAttempts.WithLabelValues(result).Inc()
}

// RecordOrderOutcome учитывает итог OpenNewOrder.
func (m *OrderMetrics) RecordOrderOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ordersOpened.WithLabelValues(outcome).Inc()
}

// RecordSummariesReturned записывает размер выдачи.
func (m *OrderMetrics) RecordSummariesReturned(count int) {
	if m == nil {
		return
	}
	m.summariesReturned.Observe(float64(count))
}

// ObserveOperation записывает длительность операции.
func (m *OrderMetrics) ObserveOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordEventPublished учитывает публикацию события.
func (m *OrderMetrics) RecordEventPublished(result string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(result).Inc()
}
