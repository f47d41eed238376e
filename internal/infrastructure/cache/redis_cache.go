package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
)

const (
	viewKeyPrefix    = "view:"
	versionKeySuffix = ":version"
	DefaultCacheTTL  = 15 * time.Minute
)

var errStaleVersion = errors.New("view version changed")

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache stores each path as one hash whose fields are variants, so a
// single DEL invalidates all of them. A separate counter key holds the path
// version; writers WATCH it so a view computed before an invalidation is
// never stored after it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Error("Failed to connect to Redis", zap.String("addr", cfg.Addr), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func viewKey(path string) string {
	return viewKeyPrefix + path
}

func versionKey(path string) string {
	return viewKeyPrefix + path + versionKeySuffix
}

// parseVersion treats a missing counter as version zero
func parseVersion(cmd *redis.StringCmd) (uint64, error) {
	version, err := cmd.Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// Get returns the cached body for path and variant
func (c *RedisCache) Get(ctx context.Context, path, variant string) ([]byte, bool, error) {
	body, err := c.client.HGet(ctx, viewKey(path), variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("Failed to read cached view", zap.String("path", path), zap.Error(err))
		return nil, false, fmt.Errorf("failed to read cached view: %w", err)
	}
	return body, true, nil
}

// Version returns the current version of path
func (c *RedisCache) Version(ctx context.Context, path string) (uint64, error) {
	version, err := parseVersion(c.client.Get(ctx, versionKey(path)))
	if err != nil {
		c.logger.Error("Failed to read view version", zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("failed to read view version: %w", err)
	}
	return version, nil
}

// Set stores body and refreshes the TTL of the path, unless the path was
// invalidated after version was read
func (c *RedisCache) Set(ctx context.Context, path, variant string, version uint64, body []byte) (bool, error) {
	key := viewKey(path)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := parseVersion(tx.Get(ctx, versionKey(path)))
		if err != nil {
			return err
		}
		if current != version {
			return errStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, variant, body)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, versionKey(path))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Discarded stale view", zap.String("path", path), zap.String("variant", variant))
		return false, nil
	default:
		c.logger.Error("Failed to cache view", zap.String("path", path), zap.Error(err))
		return false, fmt.Errorf("failed to cache view: %w", err)
	}
}

// Invalidate deletes every cached variant of path and advances its version
func (c *RedisCache) Invalidate(ctx context.Context, path string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, versionKey(path))
	pipe.Del(ctx, viewKey(path))
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Failed to invalidate cached view", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to invalidate cached view: %w", err)
	}

	c.logger.Debug("View cache invalidated", zap.String("path", path))
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Verify interface compliance
var _ port.ViewCache = (*RedisCache)(nil)
