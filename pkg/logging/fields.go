// Package logging provides structured logging with zerolog for the product
// cache service. It supports configurable log levels, output formats
// (JSON/console), request ID propagation through context, and an HTTP
// middleware that logs request/response details.
//
// Example usage:
//
//	cfg := config.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//	logger := logging.New(cfg)
//	logger.Info().Int64("product_id", 1).Msg("cache miss")
package logging

// Standard field names for structured logging.
// These constants ensure consistent field naming across packages.
const (
	// ServiceName is the field name for the service generating the log.
	ServiceName = "service_name"

	// Error is the field name for error information.
	Error = "error"

	// RequestID is the field name for HTTP request ID.
	RequestID = "request_id"

	// Method is the field name for HTTP method.
	Method = "method"

	// Path is the field name for HTTP path.
	Path = "path"

	// StatusCode is the field name for HTTP status code.
	StatusCode = "status_code"

	// Duration is the field name for operation duration.
	Duration = "duration_ms"

	// Component is the field name for the component/package generating the log.
	Component = "component"

	// CacheKey is the field name for a cache entry key.
	CacheKey = "cache_key"

	// ProductID is the field name for a product identifier.
	ProductID = "product_id"
)
