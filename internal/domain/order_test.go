package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrderRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*60*60))

	record := NewOrderRecord("id-1", "customer-1", "ORD-1", now)

	if record.Status != OrderStatusOpen {
		t.Fatalf("expected status %s, got %s", OrderStatusOpen, record.Status)
	}
	if record.CustomerID != "customer-1" || record.OrderNumber != "ORD-1" || record.ID != "id-1" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %s", record.CreatedAt.Location())
	}
	if !record.CreatedAt.Equal(now) {
		t.Fatalf("expected %s, got %s", now, record.CreatedAt)
	}
}

func TestOrderRecord_Validate(t *testing.T) {
	tests := []struct {
		name   string
		record OrderRecord
		want   error
	}{
		{
			name:   "valid",
			record: OrderRecord{OrderNumber: "ORD-1", CustomerID: "c-1"},
		},
		{
			name:   "missing order number",
			record: OrderRecord{CustomerID: "c-1"},
			want:   ErrOrderNumberRequired,
		},
		{
			name:   "blank customer",
			record: OrderRecord{OrderNumber: "ORD-1", CustomerID: "  "},
			want:   ErrCustomerRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
