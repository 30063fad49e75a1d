// Package ratelimit implements a fixed-window request limiter keyed by client
// identity. The counter store is injectable so a multi-instance deployment can
// back it with a shared cache instead of process-local memory.
package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// UnknownKey is the shared bucket for traffic whose origin cannot be
// determined. All such traffic shares one budget.
const UnknownKey = "unknown"

// Store tracks request counts per key within a fixed window. Increment starts
// a new window for the key when none exists or when the current one is older
// than window, and returns the running count inside the current window.
type Store interface {
	Increment(key string, window time.Duration) (int, error)
}

// Limiter applies a fixed-window limit of max requests per window against a
// Store. The fixed window is an approximation: a client can burst up to twice
// max across a window boundary, which is acceptable for abuse deterrence but
// not for hard quotas.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

// New creates a Limiter allowing max requests per window.
func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Allow reports whether the request identified by key is within the limit.
// Store failures fail open: an unreachable shared store must not take the
// intake endpoint down with it.
func (l *Limiter) Allow(key string) bool {
	count, err := l.store.Increment(key, l.window)
	if err != nil {
		return true
	}
	return count <= l.max
}

// ClientKey derives the limiter key for a request: the first entry of the
// X-Forwarded-For header, then the direct remote address, then UnknownKey.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if r.RemoteAddr != "" {
		host := r.RemoteAddr
		if i := strings.LastIndex(host, ":"); i > 0 {
			host = host[:i]
		}
		if host != "" {
			return host
		}
	}
	return UnknownKey
}
