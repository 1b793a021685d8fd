// Package api exposes the product catalog over HTTP.
//
// Routes:
//
//	GET /products/{id}   fetch a product (served through the cache)
//	PUT /products/{id}   apply a partial update and invalidate the cache
//	GET /health          combined liveness and readiness
//	GET /health/live     liveness probe
//	GET /health/ready    readiness probe
//
// Error responses are JSON bodies of the form {"detail": "..."} with the
// status code derived from the error category.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/harborline/productcache/pkg/errors"
	"github.com/harborline/productcache/pkg/health"
	"github.com/harborline/productcache/pkg/logging"
	"github.com/harborline/productcache/pkg/metrics"
	"github.com/harborline/productcache/pkg/product"
)

// Handler holds the HTTP handlers for the product API.
type Handler struct {
	catalog *product.CacheAsideService
	logger  *logging.Logger
}

// NewHandler creates the API handler over the given catalog service.
func NewHandler(catalog *product.CacheAsideService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{
		catalog: catalog,
		logger:  logger.WithComponent("api"),
	}
}

// Router assembles the route table and middleware chain. The health checker
// backs the probe endpoints; namespace prefixes the HTTP metrics.
func (h *Handler) Router(checker *health.Health, namespace string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /products/{id}", h.UpdateProduct)
	mux.HandleFunc("GET /health", checker.HealthHandler())
	mux.HandleFunc("GET /health/live", checker.LivenessHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadinessHandler())

	// Recovery outermost so panics in the inner middleware are caught too.
	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(namespace)(handler)
	handler = logging.HTTPMiddleware(h.logger)(handler)
	handler = errors.RecoveryMiddleware(h.logger)(handler)
	return handler
}

// GetProduct handles GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	p, err := h.catalog.Fetch(r.Context(), id)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /products/{id}. The body is a partial update;
// absent fields keep their current values and an empty body is a valid
// no-op write that still invalidates the cache entry.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	var patch product.Update
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errors.WriteHTTPError(w, errors.NewInvalidInputWithCause("body", "malformed update payload", err))
		return
	}

	p, err := h.catalog.Update(r.Context(), id, patch)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// parseID parses the {id} path segment.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputWithCause("id", "product id must be an integer", err)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a domain struct cannot realistically fail; an interrupted
	// connection surfaces here and there is nothing left to tell the client.
	_ = json.NewEncoder(w).Encode(v)
}
