package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPStatusCode returns the appropriate HTTP status code for the given error.
// It maps error types to standard HTTP status codes:
//   - NotFoundError -> 404 Not Found
//   - InvalidInputError -> 400 Bad Request
//   - TemporaryError -> 503 Service Unavailable
//   - PermanentError -> 500 Internal Server Error
//   - Unknown errors -> 500 Internal Server Error
func HTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInvalidInput(err):
		return http.StatusBadRequest
	case IsTemporary(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTPError writes a JSON error response to an HTTP response writer.
// The status code is determined by the error type.
func WriteHTTPError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}
