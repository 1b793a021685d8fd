package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPMiddleware emits one access log line per request once the response
// is written. The line carries method, path, status and duration, and is
// logged at error level for 5xx, warn for 4xx, info otherwise.
//
// The request ID is taken from the X-Request-ID header when the caller
// supplies one, generated otherwise, echoed back in the response and
// propagated through the request context together with the logger.
func HTTPMiddleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := WithRequestID(r.Context(), requestID)
			ctx = WithLogger(ctx, logger)

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(ctx))

			status := sw.status
			if status == 0 {
				// Handler returned without writing; net/http sends 200.
				status = http.StatusOK
			}
			evt := logger.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = logger.Error()
			case status >= http.StatusBadRequest:
				evt = logger.Warn()
			}
			evt.
				Str(RequestID, requestID).
				Str(Method, r.Method).
				Str(Path, r.URL.Path).
				Int(StatusCode, status).
				Int64(Duration, time.Since(start).Milliseconds()).
				Msg("request")
		})
	}
}

// statusWriter records the status code of the first WriteHeader call.
// A handler that writes a body without an explicit WriteHeader gets
// the implicit 200 recorded too.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}
