// Package service assembles and runs the product cache service: bootstrap of
// the infrastructure stack from configuration, the HTTP server lifecycle,
// and signal-driven shutdown with LIFO cleanup.
package service

import (
	"context"
	"fmt"

	"github.com/harborline/productcache/pkg/cache"
	"github.com/harborline/productcache/pkg/codec"
	"github.com/harborline/productcache/pkg/config"
	"github.com/harborline/productcache/pkg/logging"
	"github.com/harborline/productcache/pkg/metrics"
	"github.com/harborline/productcache/pkg/product"
	"github.com/harborline/productcache/pkg/store"
)

// Bootstrap wires the full service from configuration: observability first,
// then the record store, cache client, invalidator, and the cache-aside
// service on top. Components are torn down in reverse order of construction.
type Bootstrap struct {
	Config  *config.Config
	Logger  *logging.Logger
	Store   store.Store
	Cache   cache.Client
	Catalog *product.CacheAsideService

	invalidator *product.Invalidator
	cleanup     []func(context.Context) error
}

// BootstrapOption is a functional option for configuring bootstrap behavior.
type BootstrapOption func(*bootstrapConfig)

type bootstrapConfig struct {
	skipMetrics bool
	skipLogger  bool
}

// WithoutMetrics disables metrics initialization during bootstrap.
func WithoutMetrics() BootstrapOption {
	return func(c *bootstrapConfig) {
		c.skipMetrics = true
	}
}

// WithoutLogger disables logger initialization during bootstrap.
// This is rarely needed but can be useful for testing.
func WithoutLogger() BootstrapOption {
	return func(c *bootstrapConfig) {
		c.skipLogger = true
	}
}

// NewBootstrap initializes the service stack from configuration.
// The record store is built according to cfg.Store.Backend: "memory" seeds
// the default catalog, "postgres" connects a connection pool and fails hard
// when the database is unreachable. The cache client always constructs; an
// unreachable cache backend only logs a warning and the service starts
// degraded.
//
// Example:
//
//	cfg := config.MustLoad("config.yaml", "PRODUCTCACHE")
//	boot, err := service.NewBootstrap(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer boot.Cleanup(ctx)
//
//	// Use boot.Catalog, boot.Logger, etc.
func NewBootstrap(ctx context.Context, cfg *config.Config, opts ...BootstrapOption) (*Bootstrap, error) {
	bc := &bootstrapConfig{}
	for _, opt := range opts {
		opt(bc)
	}

	b := &Bootstrap{
		Config:  cfg,
		cleanup: make([]func(context.Context) error, 0),
	}

	// Initialize logger
	logger := logging.Nop()
	if !bc.skipLogger {
		logger = logging.New(cfg.Log)
		b.Logger = logger
		logger.Info().
			Str("service", cfg.Service.Name).
			Str("version", cfg.Service.Version).
			Str("env", cfg.Service.Env).
			Msg("Service starting")
	}

	// Initialize metrics
	if !bc.skipMetrics && cfg.Metrics.Enabled {
		if err := metrics.Init(cfg.Metrics); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		b.cleanup = append(b.cleanup, metrics.Shutdown)

		if b.Logger != nil {
			b.Logger.Info().
				Int("port", cfg.Metrics.Port).
				Str("path", cfg.Metrics.Path).
				Msg("Metrics initialized")
		}
	}

	// Initialize the record store. Store failures are fatal: there is no
	// fallback below the source of truth.
	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		_ = b.Cleanup(ctx)
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}
	b.Store = st
	b.cleanup = append(b.cleanup, func(context.Context) error {
		st.Close()
		return nil
	})

	if b.Logger != nil {
		b.Logger.Info().
			Str("backend", cfg.Store.Backend).
			Msg("Record store initialized")
	}

	// Initialize the cache client. Construction never fails; a dead
	// backend degrades reads to store latency.
	cc := cache.New(ctx, cfg.Cache, logger)
	b.Cache = cc
	if !cc.Healthy(ctx) {
		logger.Warn().
			Str("host", cfg.Cache.Host).
			Int("port", cfg.Cache.Port).
			Msg("Cache backend unreachable, serving from store until it recovers")
	}
	b.cleanup = append(b.cleanup, func(context.Context) error {
		return cc.Close()
	})

	// Detached invalidation workers.
	inv := product.NewInvalidator(cc, cfg.Invalidator, logger)
	b.invalidator = inv
	b.cleanup = append(b.cleanup, func(context.Context) error {
		inv.Close()
		return nil
	})

	cd, err := codec.New[product.Product](cfg.Cache.Codec)
	if err != nil {
		_ = b.Cleanup(ctx)
		return nil, fmt.Errorf("failed to initialize cache codec: %w", err)
	}

	b.Catalog = product.NewCacheAsideService(st, cc, cd, inv, cfg.Cache.EntryTTL, logger)

	return b, nil
}

// newStore builds the configured record store backend.
func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "memory", "":
		return store.NewMemory(store.SeedCatalog()), nil
	case "postgres":
		return store.NewPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Cleanup shuts down all initialized infrastructure components.
// It executes cleanup functions in reverse order (LIFO) to ensure
// proper dependency cleanup. Always defer this after creating Bootstrap.
func (b *Bootstrap) Cleanup(ctx context.Context) error {
	// Execute cleanup in reverse order
	for i := len(b.cleanup) - 1; i >= 0; i-- {
		if err := b.cleanup[i](ctx); err != nil {
			if b.Logger != nil {
				b.Logger.Error().Err(err).Msg("Cleanup error")
			}
			// Continue with other cleanup operations
		}
	}

	if b.Logger != nil {
		b.Logger.Info().Msg("Cleanup completed")
	}

	return nil
}

// AddCleanup adds a cleanup function to be executed during Cleanup.
// Cleanup functions are executed in reverse order (LIFO).
//
// Example:
//
//	boot.AddCleanup(func(ctx context.Context) error {
//	    return auditLog.Close()
//	})
func (b *Bootstrap) AddCleanup(fn func(context.Context) error) {
	b.cleanup = append(b.cleanup, fn)
}
