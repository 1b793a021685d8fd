package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/harborline/productcache/pkg/config"
)

func testConfig(mr *miniredis.Miniredis) *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{
			Name:    "productcache-test",
			Version: "0.0.1",
			Env:     "development",
		},
		Store: config.StoreConfig{
			Backend: "memory",
		},
		Cache: config.CacheConfig{
			Host:        mr.Host(),
			Port:        mr.Server().Addr().Port,
			DialTimeout: 5 * time.Second,
			OpTimeout:   time.Second,
			EntryTTL:    60 * time.Second,
			Codec:       "json",
		},
		Invalidator: config.InvalidatorConfig{
			Workers:      1,
			QueueSize:    8,
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			DrainTimeout: time.Second,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
		},
		Metrics: config.MetricsConfig{
			Enabled: false,
		},
	}
}

func TestBootstrap(t *testing.T) {
	t.Run("memory backend wires the full stack", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(mr)

		ctx := context.Background()
		boot, err := NewBootstrap(ctx, cfg, WithoutMetrics())
		if err != nil {
			t.Fatalf("NewBootstrap() error = %v", err)
		}
		defer boot.Cleanup(ctx)

		if boot.Store == nil {
			t.Error("Store not initialized")
		}
		if boot.Cache == nil {
			t.Error("Cache not initialized")
		}
		if boot.Catalog == nil {
			t.Fatal("Catalog service not initialized")
		}

		// The wired service serves the seeded catalog.
		p, err := boot.Catalog.Fetch(ctx, 1)
		if err != nil {
			t.Fatalf("Fetch() through bootstrap error = %v", err)
		}
		if p.Name != "Laptop" {
			t.Errorf("Fetch() = %+v, want seeded Laptop", p)
		}
		if !mr.Exists("product:1") {
			t.Error("fetch did not populate the cache")
		}
	})

	t.Run("unknown store backend fails", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(mr)
		cfg.Store.Backend = "cassandra"

		_, err := NewBootstrap(context.Background(), cfg, WithoutMetrics(), WithoutLogger())
		if err == nil {
			t.Error("expected error for unknown store backend")
		}
	})

	t.Run("unknown codec fails", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(mr)
		cfg.Cache.Codec = "xml"

		_, err := NewBootstrap(context.Background(), cfg, WithoutMetrics(), WithoutLogger())
		if err == nil {
			t.Error("expected error for unknown codec")
		}
	})

	t.Run("unreachable cache backend still bootstraps", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(mr)
		mr.Close()

		ctx := context.Background()
		boot, err := NewBootstrap(ctx, cfg, WithoutMetrics(), WithoutLogger())
		if err != nil {
			t.Fatalf("NewBootstrap() with dead cache error = %v", err)
		}
		defer boot.Cleanup(ctx)

		if boot.Cache.Healthy(ctx) {
			t.Error("Healthy() = true for a dead backend")
		}

		// Reads still work from the store.
		p, err := boot.Catalog.Fetch(ctx, 2)
		if err != nil {
			t.Fatalf("Fetch() with dead cache error = %v", err)
		}
		if p.Name != "Smartphone" {
			t.Errorf("Fetch() = %+v, want Smartphone", p)
		}
	})
}

func TestBootstrapCleanupOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(mr)

	ctx := context.Background()
	boot, err := NewBootstrap(ctx, cfg, WithoutMetrics(), WithoutLogger())
	if err != nil {
		t.Fatalf("NewBootstrap() error = %v", err)
	}

	var order []string
	boot.AddCleanup(func(context.Context) error {
		order = append(order, "first-registered")
		return nil
	})
	boot.AddCleanup(func(context.Context) error {
		order = append(order, "last-registered")
		return nil
	})

	if err := boot.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}

	if len(order) != 2 || order[0] != "last-registered" || order[1] != "first-registered" {
		t.Errorf("cleanup order = %v, want LIFO", order)
	}
}

func TestBootstrapCleanupContinuesOnError(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(mr)

	ctx := context.Background()
	boot, err := NewBootstrap(ctx, cfg, WithoutMetrics(), WithoutLogger())
	if err != nil {
		t.Fatalf("NewBootstrap() error = %v", err)
	}

	ran := false
	boot.AddCleanup(func(context.Context) error {
		ran = true
		return nil
	})
	boot.AddCleanup(func(context.Context) error {
		return fmt.Errorf("cleanup boom")
	})

	// Cleanup never aborts on individual failures.
	_ = boot.Cleanup(ctx)
	if !ran {
		t.Error("cleanup stopped after an error")
	}
}
