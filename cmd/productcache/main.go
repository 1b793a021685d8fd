// Command productcache runs the product catalog service: an HTTP API that
// serves reads through a Redis cache in front of a record store and keeps
// the cache consistent by invalidating entries after writes.
//
// Configuration comes from config.yaml (path via -config) with
// PRODUCTCACHE_* environment variable overrides, e.g.:
//
//	PRODUCTCACHE_STORE_BACKEND=postgres
//	PRODUCTCACHE_CACHE_HOST=redis.internal
//
// Endpoints:
//   - API: http://localhost:8080/products/{id}
//   - Health: http://localhost:8080/health/ready
//   - Metrics: http://localhost:9090/metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harborline/productcache/pkg/api"
	"github.com/harborline/productcache/pkg/config"
	"github.com/harborline/productcache/pkg/health"
	"github.com/harborline/productcache/pkg/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "productcache: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx := context.Background()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	boot, err := service.NewBootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer boot.Cleanup(ctx)

	logger := boot.Logger

	checker := health.New()
	checker.RegisterChecker("store", boot.Store)
	checker.RegisterOptionalChecker("cache", boot.Cache)

	handler := api.NewHandler(boot.Catalog, logger)
	router := handler.Router(checker, cfg.Metrics.Namespace)

	httpSvc := service.NewHTTPService(
		cfg.Service.Name,
		fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		router,
		cfg.Server,
	)

	if err := httpSvc.Start(ctx); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	logger.Info().
		Int("port", cfg.Server.HTTPPort).
		Str("store_backend", cfg.Store.Backend).
		Msg("Service ready")

	shutdown := service.DefaultShutdownConfig()
	shutdown.Timeout = cfg.Server.ShutdownTimeout
	shutdown.Logger = logger
	service.WaitForShutdownWithConfig(ctx, shutdown, httpSvc)

	return nil
}

// loadConfig reads the config file when present and falls back to pure
// environment configuration when it is not, so containerized deployments
// can run without a mounted file.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv("PRODUCTCACHE")
	}
	return config.Load(path, "PRODUCTCACHE")
}
