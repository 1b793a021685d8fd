package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestErrorTypes verifies all error types are created correctly and implement error interface
func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "PermanentError without cause",
			err:  NewPermanent("corrupt payload", nil),
			want: "corrupt payload",
		},
		{
			name: "PermanentError with cause",
			err:  NewPermanent("corrupt payload", errors.New("unexpected end of JSON input")),
			want: "corrupt payload: unexpected end of JSON input",
		},
		{
			name: "TemporaryError without cause",
			err:  NewTemporary("cache backend unreachable", nil),
			want: "cache backend unreachable",
		},
		{
			name: "TemporaryError with cause",
			err:  NewTemporary("cache backend unreachable", errors.New("dial timeout")),
			want: "cache backend unreachable: dial timeout",
		},
		{
			name: "NotFoundError",
			err:  NewNotFound("product", "42"),
			want: "product not found: 42",
		},
		{
			name: "NotFoundError with cause",
			err:  NewNotFoundWithCause("product", "42", errors.New("store miss")),
			want: "product not found: 42 (store miss)",
		},
		{
			name: "InvalidInputError",
			err:  NewInvalidInput("price", "must be a number"),
			want: "invalid input for price: must be a number",
		},
		{
			name: "InvalidInputError with cause",
			err:  NewInvalidInputWithCause("id", "must be an integer", errors.New("parse failed")),
			want: "invalid input for id: must be an integer (parse failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestErrorUnwrap verifies error unwrapping works correctly
func TestErrorUnwrap(t *testing.T) {
	rootErr := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "PermanentError unwraps",
			err:  NewPermanent("wrapper", rootErr),
			want: rootErr,
		},
		{
			name: "TemporaryError unwraps",
			err:  NewTemporary("wrapper", rootErr),
			want: rootErr,
		},
		{
			name: "NotFoundError unwraps",
			err:  NewNotFoundWithCause("product", "1", rootErr),
			want: rootErr,
		},
		{
			name: "InvalidInputError unwraps",
			err:  NewInvalidInputWithCause("field", "msg", rootErr),
			want: rootErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Unwrap(tt.err); got != tt.want {
				t.Errorf("Unwrap() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestTypeChecking verifies type checking helpers see through wrapping
func TestTypeChecking(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"IsNotFound direct", NewNotFound("product", "1"), IsNotFound, true},
		{"IsNotFound wrapped", Wrap(NewNotFound("product", "1"), "fetch failed"), IsNotFound, true},
		{"IsNotFound mismatch", NewTemporary("down", nil), IsNotFound, false},
		{"IsTemporary direct", NewTemporary("down", nil), IsTemporary, true},
		{"IsTemporary wrapped", Wrap(NewTemporary("down", nil), "op failed"), IsTemporary, true},
		{"IsTemporary mismatch", NewPermanent("bad", nil), IsTemporary, false},
		{"IsPermanent direct", NewPermanent("bad", nil), IsPermanent, true},
		{"IsInvalidInput direct", NewInvalidInput("id", "bad"), IsInvalidInput, true},
		{"nil error", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("checker(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestWrapPreservesType verifies Wrap keeps the original error category
func TestWrapPreservesType(t *testing.T) {
	t.Run("wrap nil returns nil", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})

	t.Run("untyped error becomes permanent", func(t *testing.T) {
		err := Wrap(errors.New("plain"), "context")
		if !IsPermanent(err) {
			t.Errorf("expected permanent error, got %v", err)
		}
	})

	t.Run("not found keeps resource and id", func(t *testing.T) {
		err := Wrap(NewNotFound("product", "7"), "fetch failed")
		var nfe *NotFoundError
		if !As(err, &nfe) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if nfe.Resource() != "product" || nfe.ID() != "7" {
			t.Errorf("got resource=%s id=%s, want product/7", nfe.Resource(), nfe.ID())
		}
	})

	t.Run("wrapf formats message", func(t *testing.T) {
		err := Wrapf(NewTemporary("down", nil), "attempt %d failed", 3)
		if !IsTemporary(err) {
			t.Errorf("expected temporary error, got %v", err)
		}
	})
}

// TestHTTPStatusCode verifies the error-to-status mapping
func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", NewNotFound("product", "1"), http.StatusNotFound},
		{"invalid input", NewInvalidInput("id", "bad"), http.StatusBadRequest},
		{"temporary", NewTemporary("down", nil), http.StatusServiceUnavailable},
		{"permanent", NewPermanent("bad", nil), http.StatusInternalServerError},
		{"unknown", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTPError(rec, NewNotFound("product", "9"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s, want application/json", ct)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
