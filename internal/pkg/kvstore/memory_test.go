package kvstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "k", "v", 0))
	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePutIfAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.PutIfAbsent(ctx, "marker", "1", 0)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.PutIfAbsent(ctx, "marker", "2", 0)
	require.NoError(t, err)
	assert.False(t, created)

	val, err := store.Get(ctx, "marker")
	require.NoError(t, err)
	assert.Equal(t, "1", val, "losing PutIfAbsent must not overwrite")
}

func TestMemoryStoreIncr(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	n, err := store.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Counter values stay decimal strings
	val, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}

func TestMemoryStoreIncrConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Incr(ctx, "counter")
		}()
	}
	wg.Wait()

	val, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "50", val)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	require.NoError(t, store.Put(ctx, "marker", "x", 24*time.Hour))

	_, err := store.Get(ctx, "marker")
	require.NoError(t, err)

	// One second short of the deadline the key is still live
	current = current.Add(24*time.Hour - time.Second)
	_, err = store.Get(ctx, "marker")
	require.NoError(t, err)

	// At the deadline it is gone
	current = current.Add(time.Second)
	_, err = store.Get(ctx, "marker")
	assert.ErrorIs(t, err, ErrNotFound)

	// And PutIfAbsent treats the expired key as absent again
	created, err := store.PutIfAbsent(ctx, "marker", "y", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, created)
}
