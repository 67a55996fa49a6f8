package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rolodex "rolodex/lib"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(rolodex.NewNopLogger(), time.Minute)
	defer c.Close()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheKeyNotFound)

	value := []byte("v1")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
	assert.True(t, c.Exists(ctx, "k"))

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, c.Exists(ctx, "k"))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(rolodex.NewNopLogger(), time.Minute).(*memoryCache)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Millisecond))
	require.NoError(t, c.Set(ctx, "long", []byte("v"), 0))
	time.Sleep(5 * time.Millisecond)

	assert.False(t, c.Exists(ctx, "short"))
	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheKeyNotFound)

	c.removeExpired()
	c.mutex.RLock()
	assert.Len(t, c.data, 1)
	c.mutex.RUnlock()
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(rolodex.NewNopLogger(), 0)
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, c.Clear(ctx))

	for _, k := range []string{"a", "b", "c"} {
		assert.False(t, c.Exists(ctx, k))
	}
	assert.NoError(t, c.Close(), "Close is idempotent")
}
