package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_InsertAndFindNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []domain.OrderRecord{
		domain.NewOrderRecord("id-1", "customer-1", "ORD-1", base),
		domain.NewOrderRecord("id-2", "customer-1", "ORD-2", base.Add(2*time.Hour)),
		domain.NewOrderRecord("id-3", "customer-1", "ORD-3", base.Add(time.Hour)),
		domain.NewOrderRecord("id-4", "customer-2", "ORD-4", base),
	}
	for _, r := range records {
		affected, err := store.Insert(ctx, r)
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)
	}

	got, err := store.FindOrdersByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"ORD-2", "ORD-3", "ORD-1"}, []string{got[0].OrderNumber, got[1].OrderNumber, got[2].OrderNumber})
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Hour)))
	assert.Equal(t, time.UTC, got[0].CreatedAt.Location())
	assert.Equal(t, domain.OrderStatusOpen, got[0].Status)
}

func TestStore_FindUnknownCustomerReturnsEmptySlice(t *testing.T) {
	store := openTestStore(t)

	got, err := store.FindOrdersByCustomer(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_DuplicateOrderNumber(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := domain.NewOrderRecord("id-1", "customer-1", "ORD-1", time.Now())
	_, err := store.Insert(ctx, record)
	require.NoError(t, err)

	record.ID = "id-2"
	_, err = store.Insert(ctx, record)
	require.Error(t, err)
	assert.True(t, domain.IsStorageAccess(err))
	assert.True(t, errors.Is(err, domain.ErrDuplicateOrderNumber))
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = first.Insert(ctx, domain.NewOrderRecord("id-1", "customer-1", "ORD-1", time.Now()))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.FindOrdersByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-1", got[0].OrderNumber)
}

func TestStore_ClosedStoreReportsStorageError(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.FindOrdersByCustomer(context.Background(), "customer-1")
	assert.True(t, domain.IsStorageAccess(err))

	_, err = store.Insert(context.Background(), domain.NewOrderRecord("id-1", "customer-1", "ORD-1", time.Now()))
	assert.True(t, domain.IsStorageAccess(err))

	assert.Error(t, store.Ping(context.Background()))
}

func TestStore_NilClose(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Close())
}
