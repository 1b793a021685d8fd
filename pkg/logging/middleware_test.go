package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{zlog: zerolog.New(buf)}
}

func TestHTTPMiddlewareLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	handler := HTTPMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/7", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}

	line := buf.String()
	for _, want := range []string{
		`"request_id":"req-42"`,
		`"method":"GET"`,
		`"path":"/products/7"`,
		`"status_code":200`,
		`"level":"info"`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %s: %s", want, line)
		}
	}
	if strings.Count(line, "\n") != 1 {
		t.Errorf("want exactly one log line, got: %s", line)
	}
}

func TestHTTPMiddlewareLevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		handler := HTTPMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/1", nil))

		if want := `"level":"` + tt.level + `"`; !strings.Contains(buf.String(), want) {
			t.Errorf("status %d: log line missing %s: %s", tt.status, want, buf.String())
		}
	}
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	handler := HTTPMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/1", nil))

	if seen == "" {
		t.Error("request ID not propagated through context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header X-Request-ID = %q, context has %q", got, seen)
	}
}

func TestHTTPMiddlewareImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	handler := HTTPMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no explicit WriteHeader
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/1", nil))

	if !strings.Contains(buf.String(), `"status_code":200`) {
		t.Errorf("implicit status not recorded as 200: %s", buf.String())
	}
}
