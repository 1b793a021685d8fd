package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harborline/productcache/pkg/config"
	"github.com/harborline/productcache/pkg/errors"
	"github.com/harborline/productcache/pkg/logging"
)

// RedisClient implements Client using Redis as the backend.
// All operations run under cfg.OpTimeout so a degraded backend cannot make
// the cached path slower than the store path.
type RedisClient struct {
	client    *redis.Client
	opTimeout time.Duration
	log       *logging.Logger
	closeOnce sync.Once
	closeErr  error
}

// New creates a Redis cache client and probes the connection once.
// A failed probe is logged and the client starts degraded; it does not fail,
// because the service must remain usable without a cache. The connection is
// retried implicitly on every subsequent operation.
func New(ctx context.Context, cfg config.CacheConfig, logger *logging.Logger) *RedisClient {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}

	c := &RedisClient{
		client:    redis.NewClient(opts),
		opTimeout: cfg.OpTimeout,
		log:       logger.WithComponent("cache"),
	}

	probeCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := c.client.Ping(probeCtx).Err(); err != nil {
		c.log.Warn().Err(err).Str("addr", opts.Addr).Msg("cache backend unavailable at startup, continuing degraded")
	} else {
		c.log.Info().Str("addr", opts.Addr).Msg("cache backend connected")
	}

	return c
}

// Healthy reports whether the backend answers a PING within the operation timeout.
func (c *RedisClient) Healthy(ctx context.Context) bool {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	return c.client.Ping(ctx).Err() == nil
}

// Get returns the value stored under key, or absent on miss, expiry, or any
// backend failure. A backend failure is indistinguishable from a miss.
func (c *RedisClient) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Str(logging.CacheKey, key).Msg("cache get failed, treating as miss")
		}
		return nil, false
	}
	return data, true
}

// Set stores value under key with the given TTL, best effort.
func (c *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str(logging.CacheKey, key).Msg("cache set failed, skipping")
	}
}

// Delete removes key, best effort. Returns false when the backend did not
// confirm the removal.
func (c *RedisClient) Delete(ctx context.Context, key string) bool {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Debug().Err(err).Str(logging.CacheKey, key).Msg("cache delete failed")
		return false
	}
	return true
}

// Check verifies cache connectivity using the Redis PING command.
// It implements the health.Checker interface for readiness probes; unlike
// the data-path operations it surfaces the error.
func (c *RedisClient) Check(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.NewTemporary("cache health check failed", err)
	}
	return nil
}

// Close releases all resources associated with the client. Idempotent.
func (c *RedisClient) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.client.Close()
	})
	return c.closeErr
}

// opContext caps the operation at the configured round-trip budget unless
// the caller's deadline is already shorter.
func (c *RedisClient) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.opTimeout)
}
