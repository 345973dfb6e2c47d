package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	store := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("first marker is new", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "sale.completed:S-2024-0001", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("replay of a live marker is rejected", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "receipt.recorded:R-2024-0042", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "receipt.recorded:R-2024-0042", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("expired marker can be reclaimed", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "plot.reserved:P-101", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "plot.reserved:P-101", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("unknown event", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "cancellation.approved:never-seen")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("marked event", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "sale.stage_advanced:S-2024-0007", time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, "sale.stage_advanced:S-2024-0007")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired marker reads as unprocessed", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "expense.approved:E-2024-0003", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "expense.approved:E-2024-0003")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, 0, store.Size())

	store.MarkProcessed(ctx, "event-1", time.Hour)
	store.MarkProcessed(ctx, "event-2", time.Hour)
	assert.Equal(t, 2, store.Size())

	// remarking an existing event does not grow the map
	store.MarkProcessed(ctx, "event-1", time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.MarkProcessed(ctx, "short-lived-1", 10*time.Millisecond)
	store.MarkProcessed(ctx, "short-lived-2", 10*time.Millisecond)
	store.MarkProcessed(ctx, "long-lived", time.Hour)
	assert.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.sweep()

	assert.Equal(t, 1, store.Size())

	processed, err := store.IsProcessed(ctx, "long-lived")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "short-lived-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const workers = 100
	results := make(chan bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, err := store.MarkProcessed(ctx, "ledger.posted:TX-77", time.Hour)
			results <- err == nil && isNew
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for isNew := range results {
		if isNew {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "only one concurrent caller may claim the event")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
