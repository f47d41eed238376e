// Package cache implements port.ViewCache in process memory and in Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
)

// DefaultMaxVariants caps how many variants one path keeps in memory
const DefaultMaxVariants = 256

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache keeps rendered views in a map keyed by path then variant.
// Entries expire after the TTL and each path holds at most maxVariants
// entries; the one closest to expiry is evicted first.
type MemoryCache struct {
	mu          sync.RWMutex
	entries     map[string]map[string]memoryEntry
	versions    map[string]uint64
	ttl         time.Duration
	maxVariants int
	now         func() time.Time
	logger      *zap.Logger
}

// MemoryCacheOption customizes a MemoryCache
type MemoryCacheOption func(*MemoryCache)

// WithTTL sets how long an entry is served
func WithTTL(ttl time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxVariants caps the entries kept per path
func WithMaxVariants(n int) MemoryCacheOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxVariants = n
		}
	}
}

// NewMemoryCache creates an empty in-process view cache
func NewMemoryCache(logger *zap.Logger, opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries:     make(map[string]map[string]memoryEntry),
		versions:    make(map[string]uint64),
		ttl:         DefaultCacheTTL,
		maxVariants: DefaultMaxVariants,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached body
func (c *MemoryCache) Get(ctx context.Context, path, variant string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[path][variant]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), entry.body...), true, nil
}

// Version returns the current version of path
func (c *MemoryCache) Version(ctx context.Context, path string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[path], nil
}

// Set stores a copy of body unless path was invalidated after version was read
func (c *MemoryCache) Set(ctx context.Context, path, variant string, version uint64, body []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[path] != version {
		c.logger.Debug("Discarded stale view", zap.String("path", path), zap.String("variant", variant))
		return false, nil
	}

	now := c.now()
	variants, ok := c.entries[path]
	if !ok {
		variants = make(map[string]memoryEntry)
		c.entries[path] = variants
	}
	if _, exists := variants[variant]; !exists && len(variants) >= c.maxVariants {
		c.evict(variants, now)
	}

	variants[variant] = memoryEntry{
		body:      append([]byte(nil), body...),
		expiresAt: now.Add(c.ttl),
	}
	return true, nil
}

// evict drops expired entries, or the oldest one when none has expired
func (c *MemoryCache) evict(variants map[string]memoryEntry, now time.Time) {
	var oldest string
	var oldestAt time.Time
	found := false
	for variant, entry := range variants {
		if !now.Before(entry.expiresAt) {
			delete(variants, variant)
			continue
		}
		if !found || entry.expiresAt.Before(oldestAt) {
			oldest, oldestAt, found = variant, entry.expiresAt, true
		}
	}
	if len(variants) >= c.maxVariants {
		delete(variants, oldest)
	}
}

// Invalidate drops every variant cached under path and advances its version
func (c *MemoryCache) Invalidate(ctx context.Context, path string) error {
	c.mu.Lock()
	n := len(c.entries[path])
	delete(c.entries, path)
	c.versions[path]++
	c.mu.Unlock()

	c.logger.Debug("View cache invalidated", zap.String("path", path), zap.Int("variants", n))
	return nil
}

// Verify interface compliance
var _ port.ViewCache = (*MemoryCache)(nil)
