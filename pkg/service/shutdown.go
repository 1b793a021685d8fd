package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborline/productcache/pkg/logging"
)

// ShutdownConfig configures graceful shutdown behavior.
type ShutdownConfig struct {
	// Timeout is the maximum time to wait for graceful shutdown.
	// After this timeout, services are forcefully stopped.
	Timeout time.Duration

	// Signals is the list of OS signals that trigger shutdown.
	// If empty, defaults to SIGINT and SIGTERM.
	Signals []os.Signal

	// Logger receives shutdown progress messages. Nil discards them.
	Logger *logging.Logger
}

// DefaultShutdownConfig returns sensible default shutdown configuration.
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{
		Timeout: 30 * time.Second,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// WaitForShutdown blocks until a shutdown signal is received, then gracefully
// stops the provided services. It handles SIGINT and SIGTERM by default.
//
// Services are stopped in the order provided. If a service fails to stop within
// the timeout, the error is logged but shutdown continues for remaining services.
//
// Example:
//
//	httpSvc := service.NewHTTPService("api", ":8080", handler, cfg.Server)
//	if err := httpSvc.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Block until shutdown signal
//	service.WaitForShutdown(ctx, httpSvc)
func WaitForShutdown(ctx context.Context, services ...Service) {
	WaitForShutdownWithConfig(ctx, DefaultShutdownConfig(), services...)
}

// WaitForShutdownWithConfig is like WaitForShutdown but accepts custom shutdown configuration.
//
// Example:
//
//	cfg := service.ShutdownConfig{
//	    Timeout: 60 * time.Second,
//	    Signals: []os.Signal{syscall.SIGTERM},
//	    Logger:  logger,
//	}
//	service.WaitForShutdownWithConfig(ctx, cfg, httpSvc)
func WaitForShutdownWithConfig(ctx context.Context, cfg ShutdownConfig, services ...Service) {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	// Set up signal handling
	signals := cfg.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, signals...)

	// Wait for signal
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received, stopping services")

	// Stop cleanup signal notifications
	signal.Stop(quit)

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	// Stop all services
	for _, svc := range services {
		if err := svc.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Str("service", svc.Name()).Msg("Error stopping service")
		} else {
			log.Info().Str("service", svc.Name()).Msg("Service stopped")
		}
	}

	log.Info().Msg("Graceful shutdown completed")
}

// CleanupFunc represents a cleanup function to be executed during shutdown.
type CleanupFunc func(context.Context) error

// CleanupHandler manages cleanup functions that should be executed during shutdown.
// Cleanup functions are executed in LIFO order (last registered, first executed).
type CleanupHandler struct {
	cleanups []CleanupFunc
	logger   *logging.Logger
}

// NewCleanupHandler creates a new cleanup handler. A nil logger discards
// cleanup error messages.
func NewCleanupHandler(logger *logging.Logger) *CleanupHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CleanupHandler{
		cleanups: make([]CleanupFunc, 0),
		logger:   logger,
	}
}

// Register adds a cleanup function to be executed during shutdown.
// Cleanup functions are executed in reverse order (LIFO).
//
// Example:
//
//	cleanup := service.NewCleanupHandler(logger)
//	cleanup.Register(func(ctx context.Context) error {
//	    return pool.Close()
//	})
//	cleanup.Register(func(ctx context.Context) error {
//	    return cacheClient.Close()
//	})
//	defer cleanup.Execute(ctx)
func (h *CleanupHandler) Register(fn CleanupFunc) {
	h.cleanups = append(h.cleanups, fn)
}

// Execute runs all registered cleanup functions in reverse order (LIFO).
// It continues executing cleanup functions even if some fail, collecting all errors.
// Returns the first error encountered, but logs all errors.
func (h *CleanupHandler) Execute(ctx context.Context) error {
	var firstErr error

	// Execute in reverse order (LIFO)
	for i := len(h.cleanups) - 1; i >= 0; i-- {
		if err := h.cleanups[i](ctx); err != nil {
			h.logger.Error().Err(err).Msg("Cleanup error")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// WithShutdownHandler wraps a service with automatic signal-based shutdown.
// It starts the service and blocks until a shutdown signal is received.
//
// Example:
//
//	svc := service.NewHTTPService("api", ":8080", handler, cfg.Server)
//	if err := service.WithShutdownHandler(ctx, svc); err != nil {
//	    log.Fatal(err)
//	}
func WithShutdownHandler(ctx context.Context, svc Service) error {
	// Start the service
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	// Wait for shutdown signal
	WaitForShutdown(ctx, svc)

	return nil
}
