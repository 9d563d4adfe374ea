package summary

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// Transformer строит OrderSummary из OrderRecord.
// Чистая функция: результат зависит только от записи и текущего времени.
type Transformer struct {
	now func() time.Time
}

// NewTransformer создаёт трансформер с системными часами.
func NewTransformer() *Transformer {
	return &Transformer{now: time.Now}
}

// NewTransformerWithClock позволяет подменить часы (используется в тестах).
func NewTransformerWithClock(now func() time.Time) *Transformer {
	if now == nil {
		now = time.Now
	}
	return &Transformer{now: now}
}

// Transform возвращает ErrInvalidRecord, если у записи нет номера или клиента.
func (t *Transformer) Transform(record domain.OrderRecord) (domain.OrderSummary, error) {
	if err := record.Validate(); err != nil {
		return domain.OrderSummary{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}

	status := record.Status
	if status == "" {
		status = domain.OrderStatusOpen
	}

	return domain.OrderSummary{
		OrderNumber: record.OrderNumber,
		CustomerID:  record.CustomerID,
		Status:      status,
		OpenedAt:    record.CreatedAt.UTC(),
		AgeDays:     ageDays(record.CreatedAt, t.now()),
	}, nil
}

func ageDays(openedAt, now time.Time) int {
	if openedAt.IsZero() || now.Before(openedAt) {
		return 0
	}
	return int(now.Sub(openedAt) / (24 * time.Hour))
}

var _ domain.SummaryTransformer = (*Transformer)(nil)
