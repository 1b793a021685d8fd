package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/harborline/productcache/pkg/config"
)

// Service is anything the shutdown handler can start and stop. The catalog
// API server satisfies it; so would a second listener if one were added.
type Service interface {
	// Start brings the service up. It returns once the service is accepting
	// work, or with the error that prevented it.
	Start(ctx context.Context) error

	// Stop drains in-flight work and shuts the service down. The context
	// deadline bounds the drain.
	Stop(ctx context.Context) error

	// Name identifies the service in logs.
	Name() string

	// Health reports nil while the service is accepting work.
	Health() error
}

// HTTPService runs the catalog API's HTTP server. The listener is opened
// synchronously in Start, so a bad address or occupied port fails fast
// instead of surfacing later from a background goroutine.
type HTTPService struct {
	name            string
	server          *http.Server
	shutdownTimeout time.Duration

	mu       sync.Mutex
	running  bool
	serveErr error
}

// NewHTTPService builds an HTTP service for the given handler from the
// shared server configuration. Zero timeouts fall back to 10s read/write and
// a 30s drain; a zero MaxHeaderBytes falls back to 1 MiB.
func NewHTTPService(name, addr string, handler http.Handler, cfg config.ServerConfig) *HTTPService {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.MaxHeaderBytes <= 0 {
		cfg.MaxHeaderBytes = 1 << 20
	}

	return &HTTPService{
		name:            name,
		shutdownTimeout: cfg.ShutdownTimeout,
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}
}

// Start opens the listener and begins serving in the background.
func (s *HTTPService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("service %s is already running", s.name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("service %s: listen on %s: %w", s.name, s.server.Addr, err)
	}

	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	s.running = true
	s.serveErr = nil

	go func() {
		err := s.server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			s.serveErr = err
			s.running = false
			s.mu.Unlock()
		}
	}()

	return nil
}

// Stop drains in-flight requests and closes the listener. When the context
// carries no deadline the configured shutdown timeout applies. Stopping a
// service that is not running is a no-op.
func (s *HTTPService) Stop(ctx context.Context) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if !running {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	err := s.server.Shutdown(ctx)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("service %s: shutdown: %w", s.name, err)
	}
	return nil
}

// Name returns the service name.
func (s *HTTPService) Name() string {
	return s.name
}

// Health reports nil while the server is accepting requests. A serve error
// that killed the background loop is surfaced here.
func (s *HTTPService) Health() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.serveErr != nil {
		return fmt.Errorf("service %s: %w", s.name, s.serveErr)
	}
	if !s.running {
		return fmt.Errorf("service %s is not running", s.name)
	}
	return nil
}
