package readiness

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestHandlerReturnsServiceUnavailableBeforeReady(t *testing.T) {
	f := NewFlag(zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	f.Handler()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandlerReturnsOKAfterSet(t *testing.T) {
	f := NewFlag(zerolog.Nop())
	f.Set(true)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	f.Handler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSubscribeReceivesFlip(t *testing.T) {
	f := NewFlag(zerolog.Nop())
	ch := make(chan bool, 1)
	f.Subscribe(ch)

	f.Set(true)

	select {
	case v := <-ch:
		if !v {
			t.Fatalf("expected true, got false")
		}
	default:
		t.Fatalf("expected a notification on ch")
	}
}

func TestSetIsIdempotentForRepeatedValue(t *testing.T) {
	f := NewFlag(zerolog.Nop())
	ch := make(chan bool, 2)
	f.Subscribe(ch)

	f.Set(true)
	f.Set(true)

	if len(ch) != 1 {
		t.Fatalf("expected exactly one notification for the single flip, got %d", len(ch))
	}
}

func TestWithRequestIDGeneratesIDWhenAbsent(t *testing.T) {
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated X-Request-ID header")
	}
}

func TestWithRequestIDPreservesInboundID(t *testing.T) {
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied-id" {
		t.Fatalf("X-Request-ID = %q, want %q", got, "caller-supplied-id")
	}
}
