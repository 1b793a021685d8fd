package errors

import (
	"net/http"
	"runtime/debug"

	"github.com/harborline/productcache/pkg/logging"
)

// RecoveryMiddleware converts handler panics into HTTP 500 responses.
// The panic value and stack are logged; the client sees only a generic
// internal error body. A nil logger discards the log output.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error().
						Interface("panic", p).
						Str(logging.Method, r.Method).
						Str(logging.Path, r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("handler panicked")
					WriteHTTPError(w, NewPermanent("internal error", nil))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
