// Package readiness implements the out-of-band readiness side-channel of
// spec.md §4.1: a single boolean flag, owned by one writer and observed
// by many HTTP handlers, exposed over GET /readyz in the same
// encoding/json-over-net/http style as the teacher pack's
// internal/handlers.Ready.
package readiness

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Flag is a single-writer, many-reader broadcast-on-change boolean.
// Readers call Snapshot for a mutex-guarded read of the latest value, or
// Subscribe to be notified of every flip. Modeled on a
// tokio::sync::watch-style primitive (spec.md §9, "Readiness channel"),
// expressed here as a mutex-guarded value plus a fanned-out set of
// channels, since Go has no built-in broadcast-channel equivalent.
type Flag struct {
	mu   sync.Mutex
	val  bool
	subs map[chan bool]struct{}

	logger zerolog.Logger
}

// NewFlag returns a Flag initialized to ready=false.
func NewFlag(logger zerolog.Logger) *Flag {
	return &Flag{
		subs:   make(map[chan bool]struct{}),
		logger: logger,
	}
}

// Set updates the flag and notifies subscribers if the value changed. A
// structured log line records every flip, since an operator watching
// logs is the primary consumer of "why did readiness change" during an
// incident.
func (f *Flag) Set(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.val == ready {
		return
	}
	f.val = ready
	f.logger.Info().Bool("ready", ready).Msg("readiness flag changed")

	for ch := range f.subs {
		select {
		case ch <- ready:
		default:
			// Slow subscriber; Snapshot is still available, so dropping a
			// notification here never strands a reader on a stale value
			// for more than the time to the next flip or an explicit poll.
		}
	}
}

// Snapshot returns the current value. It takes the same mutex as Set;
// since Set never blocks on a subscriber's channel, a read waits at most
// for an in-progress Set to finish.
func (f *Flag) Snapshot() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val
}

// Subscribe registers ch to receive every subsequent flip. Callers that
// stop reading ch must call Unsubscribe to avoid leaking the
// registration.
func (f *Flag) Subscribe(ch chan bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[ch] = struct{}{}
}

// Unsubscribe removes a channel registered with Subscribe.
func (f *Flag) Unsubscribe(ch chan bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, ch)
}

// Handler returns the GET /readyz http.HandlerFunc (spec.md §6): 200
// {"status":"ok"} when ready, 503 {"status":"not ready"} otherwise.
func (f *Flag) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !f.Snapshot() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// WithRequestID wraps next so every request carries an X-Request-ID
// response header, reusing an inbound one if the caller already set it.
// Readiness polling is the only HTTP surface this node exposes outside
// /metrics, so this is the one place a request id is worth attaching.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}
