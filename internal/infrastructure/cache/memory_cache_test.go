package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listingPath = "/dashboard/invoices"

// setCurrent stores body at the current version of path
func setCurrent(t *testing.T, c *MemoryCache, path, variant string, body []byte) {
	t.Helper()
	ctx := context.Background()
	version, err := c.Version(ctx, path)
	require.NoError(t, err)
	stored, err := c.Set(ctx, path, variant, version, body)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(zap.NewNop())

	_, ok, err := c.Get(ctx, listingPath, "page=1")
	require.NoError(t, err)
	assert.False(t, ok)

	body := []byte(`{"page":1}`)
	setCurrent(t, c, listingPath, "page=1", body)
	body[0] = 'X'

	got, ok, err := c.Get(ctx, listingPath, "page=1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"page":1}`, string(got), "stored body is a copy")

	_, ok, _ = c.Get(ctx, listingPath, "page=2")
	assert.False(t, ok)
}

func TestMemoryCache_InvalidateDropsAllVariants(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(zap.NewNop())

	setCurrent(t, c, listingPath, "page=1", []byte("a"))
	setCurrent(t, c, listingPath, "query=lee", []byte("b"))
	setCurrent(t, c, "/dashboard/customers", "", []byte("c"))

	require.NoError(t, c.Invalidate(ctx, listingPath))

	for _, variant := range []string{"page=1", "query=lee"} {
		_, ok, _ := c.Get(ctx, listingPath, variant)
		assert.False(t, ok, variant)
	}
	_, ok, _ := c.Get(ctx, "/dashboard/customers", "")
	assert.True(t, ok, "other paths are kept")

	assert.NoError(t, c.Invalidate(ctx, "/never/cached"))
}

func TestMemoryCache_SetAfterInvalidateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(zap.NewNop())

	// A reader takes the version, then a mutation invalidates before the
	// reader stores what it computed.
	before, err := c.Version(ctx, listingPath)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, listingPath))

	stored, err := c.Set(ctx, listingPath, "page=1", before, []byte("stale"))
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, _ := c.Get(ctx, listingPath, "page=1")
	assert.False(t, ok, "stale view must not be served")

	after, err := c.Version(ctx, listingPath)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	stored, err = c.Set(ctx, listingPath, "page=1", after, []byte("fresh"))
	require.NoError(t, err)
	assert.True(t, stored)

	got, ok, _ := c.Get(ctx, listingPath, "page=1")
	assert.True(t, ok)
	assert.Equal(t, "fresh", string(got))
}

func TestMemoryCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(zap.NewNop(), WithTTL(time.Minute))
	c.now = func() time.Time { return now }

	setCurrent(t, c, listingPath, "page=1", []byte("a"))

	now = now.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, listingPath, "page=1")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, listingPath, "page=1")
	assert.False(t, ok, "entry past its TTL")
}

func TestMemoryCache_MaxVariants(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(zap.NewNop(), WithMaxVariants(3))
	c.now = func() time.Time { return now }

	for i := 1; i <= 5; i++ {
		setCurrent(t, c, listingPath, fmt.Sprintf("page=%d", i), []byte("x"))
		now = now.Add(time.Second)
	}

	assert.Len(t, c.entries[listingPath], 3)
	for _, variant := range []string{"page=1", "page=2"} {
		_, ok, _ := c.Get(ctx, listingPath, variant)
		assert.False(t, ok, "oldest variant %s evicted", variant)
	}
	for _, variant := range []string{"page=3", "page=4", "page=5"} {
		_, ok, _ := c.Get(ctx, listingPath, variant)
		assert.True(t, ok, variant)
	}

	// Overwriting an existing variant does not evict
	setCurrent(t, c, listingPath, "page=3", []byte("y"))
	assert.Len(t, c.entries[listingPath], 3)
	_, ok, _ := c.Get(ctx, listingPath, "page=4")
	assert.True(t, ok)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			variant := fmt.Sprintf("page=%d", i%3)
			version, _ := c.Version(ctx, listingPath)
			_, _ = c.Set(ctx, listingPath, variant, version, []byte(variant))
			_, _, _ = c.Get(ctx, listingPath, variant)
			if i%5 == 0 {
				_ = c.Invalidate(ctx, listingPath)
			}
		}(i)
	}
	wg.Wait()
}
