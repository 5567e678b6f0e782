package memory_test

import (
	"context"
	"errors"
	"storefront/pkg/domain"
	"storefront/pkg/storage"
	"storefront/pkg/storage/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	return func() time.Time {
		now = now.Add(time.Second)

		return now
	}
}

func ptr[T any](v T) *T { return &v }

func TestMemory_StoreAndGet(t *testing.T) {
	m := memory.New(memory.WithClock(tickingClock()))
	ctx := context.Background()

	stored, err := m.StoreProduct(ctx, domain.Product{Name: "Mug", Price: 1299})
	require.NoError(t, err)
	require.False(t, stored.ID.IsZero())
	require.False(t, stored.CreatedAt.IsZero())
	require.True(t, stored.UpdatedAt.IsZero())

	got, err := m.ProductByID(ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, stored, got)

	missing, err := m.ProductByID(ctx, domain.NewProductID())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMemory_ProductsPagination(t *testing.T) {
	m := memory.New(memory.WithClock(tickingClock()))
	ctx := context.Background()

	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		_, err := m.StoreProduct(ctx, domain.Product{Name: n})
		require.NoError(t, err)
	}

	page, err := m.Products(ctx, storage.ProductCursor{}, 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.Equal(t, "e", page.Products[0].Name)
	require.Equal(t, "d", page.Products[1].Name)
	require.NotNil(t, page.NextCursor)

	page, err = m.Products(ctx, *page.NextCursor, 2)
	require.NoError(t, err)
	require.Equal(t, "c", page.Products[0].Name)
	require.Equal(t, "b", page.Products[1].Name)
	require.NotNil(t, page.NextCursor)

	page, err = m.Products(ctx, *page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.Equal(t, "a", page.Products[0].Name)
	require.Nil(t, page.NextCursor)
}

func TestMemory_ProductsPaginationWithEqualTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := memory.New(memory.WithClock(func() time.Time { return created }))
	ctx := context.Background()

	stored := map[domain.ProductID]bool{}
	for _, n := range []string{"a", "b", "c"} {
		p, err := m.StoreProduct(ctx, domain.Product{Name: n})
		require.NoError(t, err)
		stored[p.ID] = true
	}

	seen := map[domain.ProductID]bool{}
	var cursor storage.ProductCursor
	for range 3 {
		page, err := m.Products(ctx, cursor, 2)
		require.NoError(t, err)
		for _, p := range page.Products {
			require.False(t, seen[p.ID], "product %s listed twice", p.Name)
			seen[p.ID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	require.Equal(t, stored, seen)
}

func TestMemory_UpdateProduct(t *testing.T) {
	m := memory.New(memory.WithClock(tickingClock()))
	ctx := context.Background()

	stored, err := m.StoreProduct(ctx, domain.Product{Name: "Mug", Description: "white", Price: 1000})
	require.NoError(t, err)

	updated, err := m.UpdateProduct(ctx, stored.ID, storage.ProductUpdates{Price: ptr(int64(900))})
	require.NoError(t, err)
	require.Equal(t, "Mug", updated.Name)
	require.Equal(t, "white", updated.Description)
	require.EqualValues(t, 900, updated.Price)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	missing, err := m.UpdateProduct(ctx, domain.NewProductID(), storage.ProductUpdates{Name: ptr("x")})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMemory_DeleteProduct(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	stored, err := m.StoreProduct(ctx, domain.Product{Name: "Mug"})
	require.NoError(t, err)

	deleted, err := m.DeleteProduct(ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, stored.ID, deleted.ID)

	again, err := m.DeleteProduct(ctx, stored.ID)
	require.NoError(t, err)
	require.Nil(t, again)
}

func TestMemory_WithTx(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		var id domain.ProductID
		err := m.WithTx(ctx, func(tx storage.AllStorage) error {
			p, err := tx.StoreProduct(ctx, domain.Product{Name: "committed"})
			id = p.ID

			return err
		})
		require.NoError(t, err)

		got, err := m.ProductByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("rollback", func(t *testing.T) {
		var id domain.ProductID
		boom := errors.New("boom")
		err := m.WithTx(ctx, func(tx storage.AllStorage) error {
			p, err := tx.StoreProduct(ctx, domain.Product{Name: "rolled back"})
			require.NoError(t, err)
			id = p.ID

			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := m.ProductByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestMemory_TxStateErrors(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	require.ErrorIs(t, m.Commit(), storage.ErrNotInTx)
	require.ErrorIs(t, m.Rollback(), storage.ErrNotInTx)

	tx, err := m.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.(*memory.Memory).Begin(ctx)
	require.ErrorIs(t, err, storage.ErrAlreadyInTx)

	require.NoError(t, tx.Rollback())
	require.ErrorIs(t, tx.Commit(), storage.ErrNotInTx)

	// the store is usable again after the transaction finished
	_, err = m.StoreProduct(ctx, domain.Product{Name: "after"})
	require.NoError(t, err)
}

func TestMemory_BeginCanceledContext(t *testing.T) {
	m := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Begin(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemory_WithTxPanicReleasesStore(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	require.PanicsWithValue(t, "boom", func() {
		_ = m.WithTx(ctx, func(tx storage.AllStorage) error {
			_, err := tx.StoreProduct(ctx, domain.Product{Name: "never committed"})
			require.NoError(t, err)

			panic("boom")
		})
	})

	done := make(chan *storage.ProductPage, 1)
	go func() {
		page, err := m.Products(ctx, storage.ProductCursor{}, 10)
		if err != nil {
			done <- nil

			return
		}
		done <- &page
	}()

	select {
	case page := <-done:
		require.NotNil(t, page)
		require.Empty(t, page.Products, "the panicking transaction is rolled back")
	case <-time.After(time.Second):
		t.Fatal("store still locked after a panic inside WithTx")
	}
}
