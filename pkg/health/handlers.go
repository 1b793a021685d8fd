package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler returns an HTTP handler that responds to liveness probes.
// Liveness probes verify that the service process is running and responsive.
// This handler always returns 200 OK with no dependency checks.
//
// Kubernetes liveness probes should use this endpoint. If this fails,
// Kubernetes will restart the pod.
//
// Example usage:
//
//	h := health.New()
//	http.HandleFunc("/health/live", h.LivenessHandler())
func (h *Health) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := map[string]string{
			"status": "alive",
		}

		// Encode response (ignore error - if encoding fails, empty response is sent)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ReadinessHandler returns an HTTP handler that responds to readiness probes.
// Readiness probes verify that the service is ready to accept traffic by checking
// all registered infrastructure component health checkers.
//
// Returns 200 OK while every critical check passes, including when optional
// checks fail and the aggregated status is "degraded": a service with a dead
// cache still answers correctly from the store. Returns 503 Service
// Unavailable only when a critical check fails.
//
// Kubernetes readiness probes should use this endpoint. If this fails,
// Kubernetes will stop sending traffic to the pod.
//
// Example usage:
//
//	h := health.New()
//	h.RegisterChecker("store", recordStore)
//	h.RegisterOptionalChecker("cache", cacheClient)
//	http.HandleFunc("/health/ready", h.ReadinessHandler())
func (h *Health) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Execute health checks
		result := h.Check(r.Context())

		// Set content type
		w.Header().Set("Content-Type", "application/json")

		// Set status code based on health
		if result.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		// Encode response (ignore error - if encoding fails, empty response is sent)
		_ = json.NewEncoder(w).Encode(result)
	}
}

// HealthHandler is a convenience handler that returns both liveness and readiness status.
// This is useful for simple services that don't need separate endpoints.
//
// Returns 200 OK unless a critical check fails, in which case it returns
// 503 Service Unavailable. The response includes both liveness (always
// "alive") and the per-component readiness detail.
//
// Example usage:
//
//	h := health.New()
//	h.RegisterChecker("store", recordStore)
//	http.HandleFunc("/health", h.HealthHandler())
func (h *Health) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Execute health checks
		result := h.Check(r.Context())

		// Set content type
		w.Header().Set("Content-Type", "application/json")

		// Set status code based on health
		if result.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		// Build combined response
		response := map[string]interface{}{
			"liveness":  "alive",
			"readiness": result,
		}

		// Encode response (ignore error - if encoding fails, empty response is sent)
		_ = json.NewEncoder(w).Encode(response)
	}
}
