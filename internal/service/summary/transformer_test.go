package summary

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

func TestTransformer_Transform(t *testing.T) {
	openedAt := time.Date(2026, 1, 10, 8, 30, 0, 0, time.UTC)
	now := openedAt.Add(72*time.Hour + time.Hour)
	tr := NewTransformerWithClock(func() time.Time { return now })

	got, err := tr.Transform(domain.OrderRecord{
		ID:          "id-1",
		OrderNumber: "ORD-1",
		CustomerID:  "customer-1",
		Status:      domain.OrderStatusClosed,
		CreatedAt:   openedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.OrderSummary{
		OrderNumber: "ORD-1",
		CustomerID:  "customer-1",
		Status:      domain.OrderStatusClosed,
		OpenedAt:    openedAt,
		AgeDays:     3,
	}
	if got != want {
		t.Fatalf("unexpected summary:\n got %+v\nwant %+v", got, want)
	}
}

func TestTransformer_DefaultsStatusToOpen(t *testing.T) {
	tr := NewTransformer()

	got, err := tr.Transform(domain.OrderRecord{OrderNumber: "ORD-2", CustomerID: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.OrderStatusOpen {
		t.Fatalf("expected open status, got %s", got.Status)
	}
	if got.AgeDays != 0 {
		t.Fatalf("zero CreatedAt must give zero age, got %d", got.AgeDays)
	}
}

func TestTransformer_InvalidRecord(t *testing.T) {
	tr := NewTransformer()

	_, err := tr.Transform(domain.OrderRecord{CustomerID: "c"})
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if !errors.Is(err, domain.ErrOrderNumberRequired) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
}

func TestAgeDays_FutureTimestamp(t *testing.T) {
	now := time.Now()
	if got := ageDays(now.Add(time.Hour), now); got != 0 {
		t.Fatalf("expected 0 for future timestamp, got %d", got)
	}
}

func TestNewTransformerWithClock_NilClock(t *testing.T) {
	if tr := NewTransformerWithClock(nil); tr.now == nil {
		t.Fatal("expected default clock")
	}
}
