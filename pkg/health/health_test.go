package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockChecker is a test implementation of Checker
type mockChecker struct {
	checkFunc func(ctx context.Context) error
}

func (m *mockChecker) Check(ctx context.Context) error {
	if m.checkFunc != nil {
		return m.checkFunc(ctx)
	}
	return nil
}

func failingChecker(msg string) *mockChecker {
	return &mockChecker{checkFunc: func(ctx context.Context) error {
		return fmt.Errorf("%s", msg)
	}}
}

// TestNew verifies Health instance creation with defaults
func TestNew(t *testing.T) {
	h := New()
	if h == nil {
		t.Fatal("New() returned nil")
	}

	if h.checkTimeout != 5*time.Second {
		t.Errorf("expected default timeout 5s, got %v", h.checkTimeout)
	}

	if h.cacheTTL != 1*time.Second {
		t.Errorf("expected default cache TTL 1s, got %v", h.cacheTTL)
	}

	if h.checkers == nil {
		t.Error("checkers map not initialized")
	}
}

// TestNewWithConfig verifies custom configuration
func TestNewWithConfig(t *testing.T) {
	h := NewWithConfig(10*time.Second, 5*time.Second)
	if h == nil {
		t.Fatal("NewWithConfig() returned nil")
	}

	if h.checkTimeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", h.checkTimeout)
	}

	if h.cacheTTL != 5*time.Second {
		t.Errorf("expected cache TTL 5s, got %v", h.cacheTTL)
	}
}

// TestRegisterChecker verifies critical checker registration
func TestRegisterChecker(t *testing.T) {
	h := New()

	checker := &mockChecker{}
	h.RegisterChecker("store", checker)

	h.mu.RLock()
	registered, exists := h.checkers["store"]
	h.mu.RUnlock()

	if !exists {
		t.Error("checker not registered")
	}

	if registered.checker != checker {
		t.Error("registered checker does not match")
	}

	if !registered.critical {
		t.Error("RegisterChecker should register a critical checker")
	}
}

// TestRegisterOptionalChecker verifies non-critical checker registration
func TestRegisterOptionalChecker(t *testing.T) {
	h := New()

	checker := &mockChecker{}
	h.RegisterOptionalChecker("cache", checker)

	h.mu.RLock()
	registered := h.checkers["cache"]
	h.mu.RUnlock()

	if registered.critical {
		t.Error("RegisterOptionalChecker should register a non-critical checker")
	}
}

// TestRegisterCheckerReplaces verifies replacing an existing checker
func TestRegisterCheckerReplaces(t *testing.T) {
	h := New()

	checker1 := &mockChecker{}
	checker2 := &mockChecker{}

	h.RegisterChecker("store", checker1)
	h.RegisterChecker("store", checker2)

	h.mu.RLock()
	registered := h.checkers["store"]
	h.mu.RUnlock()

	if registered.checker != checker2 {
		t.Error("checker not replaced")
	}
}

// TestUnregisterChecker verifies checker removal
func TestUnregisterChecker(t *testing.T) {
	h := New()

	checker := &mockChecker{}
	h.RegisterChecker("store", checker)

	removed := h.UnregisterChecker("store")
	if !removed {
		t.Error("UnregisterChecker returned false for existing checker")
	}

	h.mu.RLock()
	_, exists := h.checkers["store"]
	h.mu.RUnlock()

	if exists {
		t.Error("checker still registered after unregister")
	}

	if h.UnregisterChecker("store") {
		t.Error("UnregisterChecker returned true for missing checker")
	}
}

// TestCheckNoCheckers verifies behavior with no registered checkers
func TestCheckNoCheckers(t *testing.T) {
	h := New()

	result := h.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("expected %q with no checkers, got %q", StatusHealthy, result.Status)
	}

	if len(result.Checks) != 0 {
		t.Errorf("expected no check results, got %d", len(result.Checks))
	}
}

// TestCheckAllHealthy verifies aggregation when everything passes
func TestCheckAllHealthy(t *testing.T) {
	h := New()
	h.RegisterChecker("store", &mockChecker{})
	h.RegisterOptionalChecker("cache", &mockChecker{})

	result := h.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("expected %q, got %q", StatusHealthy, result.Status)
	}

	if result.Checks["store"].Status != "ok" {
		t.Errorf("store check = %+v, want ok", result.Checks["store"])
	}
	if result.Checks["cache"].Status != "ok" {
		t.Errorf("cache check = %+v, want ok", result.Checks["cache"])
	}
}

// TestCheckOptionalFailureDegrades verifies a failing optional checker only degrades
func TestCheckOptionalFailureDegrades(t *testing.T) {
	h := New()
	h.RegisterChecker("store", &mockChecker{})
	h.RegisterOptionalChecker("cache", failingChecker("connection refused"))

	result := h.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("expected %q, got %q", StatusDegraded, result.Status)
	}

	cacheResult := result.Checks["cache"]
	if cacheResult.Status != "error" {
		t.Errorf("cache check status = %q, want error", cacheResult.Status)
	}
	if cacheResult.Message != "connection refused" {
		t.Errorf("cache check message = %q", cacheResult.Message)
	}

	if !h.IsReady(context.Background()) {
		t.Error("degraded service should still report ready")
	}
}

// TestCheckCriticalFailureUnhealthy verifies a failing critical checker makes the service unready
func TestCheckCriticalFailureUnhealthy(t *testing.T) {
	h := New()
	h.RegisterChecker("store", failingChecker("connection refused"))
	h.RegisterOptionalChecker("cache", &mockChecker{})

	result := h.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("expected %q, got %q", StatusUnhealthy, result.Status)
	}

	if h.IsReady(context.Background()) {
		t.Error("unhealthy service should not report ready")
	}
}

// TestCheckCaching verifies results are cached for the TTL
func TestCheckCaching(t *testing.T) {
	h := NewWithConfig(time.Second, time.Minute)

	calls := 0
	h.RegisterChecker("store", CheckerFunc(func(ctx context.Context) error {
		calls++
		return nil
	}))

	h.Check(context.Background())
	h.Check(context.Background())
	h.Check(context.Background())

	if calls != 1 {
		t.Errorf("expected 1 check execution with caching, got %d", calls)
	}

	h.ClearCache()
	h.Check(context.Background())

	if calls != 2 {
		t.Errorf("expected re-execution after ClearCache, got %d calls", calls)
	}
}

// TestCheckComponent verifies single component checks
func TestCheckComponent(t *testing.T) {
	h := New()
	h.RegisterChecker("store", &mockChecker{})
	h.RegisterOptionalChecker("cache", failingChecker("down"))

	if err := h.CheckComponent(context.Background(), "store"); err != nil {
		t.Errorf("CheckComponent(store) error = %v", err)
	}

	if err := h.CheckComponent(context.Background(), "cache"); err == nil {
		t.Error("CheckComponent(cache) expected error")
	}

	if err := h.CheckComponent(context.Background(), "missing"); err == nil {
		t.Error("CheckComponent(missing) expected error for unregistered component")
	}
}

// TestLivenessHandler verifies liveness always answers 200
func TestLivenessHandler(t *testing.T) {
	h := New()
	h.RegisterChecker("store", failingChecker("down"))

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	h.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid liveness body: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("liveness body = %v", body)
	}
}

// TestReadinessHandler verifies status code mapping per aggregated status
func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		store    Checker
		cache    Checker
		wantCode int
		want     string
	}{
		{
			name:     "all healthy",
			store:    &mockChecker{},
			cache:    &mockChecker{},
			wantCode: http.StatusOK,
			want:     StatusHealthy,
		},
		{
			name:     "cache down still ready",
			store:    &mockChecker{},
			cache:    failingChecker("down"),
			wantCode: http.StatusOK,
			want:     StatusDegraded,
		},
		{
			name:     "store down unready",
			store:    failingChecker("down"),
			cache:    &mockChecker{},
			wantCode: http.StatusServiceUnavailable,
			want:     StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			h.RegisterChecker("store", tt.store)
			h.RegisterOptionalChecker("cache", tt.cache)

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()

			h.ReadinessHandler()(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("readiness status = %d, want %d", rec.Code, tt.wantCode)
			}

			var result HealthResult
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("invalid readiness body: %v", err)
			}
			if result.Status != tt.want {
				t.Errorf("aggregated status = %q, want %q", result.Status, tt.want)
			}
		})
	}
}

// TestHealthHandler verifies the combined endpoint
func TestHealthHandler(t *testing.T) {
	h := New()
	h.RegisterChecker("store", &mockChecker{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HealthHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid health body: %v", err)
	}
	if body["liveness"] != "alive" {
		t.Errorf("liveness = %v, want alive", body["liveness"])
	}
}
