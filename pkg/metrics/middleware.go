package metrics

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// HTTPMiddleware records request count, latency, and payload sizes for every
// request passing through it. namespace prefixes the metric families; they
// are registered on the first call and shared afterwards.
func HTTPMiddleware(namespace string) func(http.Handler) http.Handler {
	if err := InitStandardMetrics(namespace); err != nil {
		// Metrics are not worth refusing to serve over.
		fmt.Fprintf(os.Stderr, "metrics registration failed: %v\n", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			if httpRequestSize != nil {
				httpRequestSize.Observe(float64(approxRequestSize(r)), r.Method, r.URL.Path)
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			if httpRequestDuration != nil {
				httpRequestDuration.Observe(time.Since(start).Seconds(), r.Method, r.URL.Path, status)
			}
			if httpRequestCount != nil {
				httpRequestCount.Inc(r.Method, r.URL.Path, status)
			}
			if httpResponseSize != nil {
				httpResponseSize.Observe(float64(rec.bytes), r.Method, r.URL.Path, status)
			}
		})
	}
}

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.wroteHeader {
		return
	}
	rec.status = code
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}

// approxRequestSize estimates the wire size of a request: request line,
// headers, and declared body length.
func approxRequestSize(r *http.Request) int64 {
	n := int64(len(r.Method) + len(r.URL.String()) + len(r.Proto))
	for name, values := range r.Header {
		n += int64(len(name))
		for _, v := range values {
			n += int64(len(v))
		}
	}
	if r.ContentLength > 0 {
		n += r.ContentLength
	}
	return n
}
