package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Runs against a live Redis only when REDIS_TEST_ADDR is set.
func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}

	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr, DB: 15, TTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache_InvalidateDropsAllVariants(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	path := "/dashboard/invoices-test"
	t.Cleanup(func() { _ = c.Invalidate(ctx, path) })

	version, err := c.Version(ctx, path)
	require.NoError(t, err)
	for variant, body := range map[string]string{"page=1": "one", "page=2": "two"} {
		stored, err := c.Set(ctx, path, variant, version, []byte(body))
		require.NoError(t, err)
		require.True(t, stored)
	}

	got, ok, err := c.Get(ctx, path, "page=2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(got))

	require.NoError(t, c.Invalidate(ctx, path))

	for _, variant := range []string{"page=1", "page=2"} {
		_, ok, err := c.Get(ctx, path, variant)
		require.NoError(t, err)
		assert.False(t, ok, variant)
	}
}

func TestRedisCache_SetAfterInvalidateIsDiscarded(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	path := "/dashboard/invoices-stale-test"
	t.Cleanup(func() { _ = c.Invalidate(ctx, path) })

	before, err := c.Version(ctx, path)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, path))

	stored, err := c.Set(ctx, path, "page=1", before, []byte("stale"))
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, err := c.Get(ctx, path, "page=1")
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := c.Version(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}
