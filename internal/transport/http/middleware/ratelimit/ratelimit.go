// Package ratelimit applies per-client token buckets to the public
// HTTP routes.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket holds the refill state for a single client.
type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// Limiter hands out request tokens, one bucket per client.
type Limiter struct {
	buckets sync.Map // map[clientKey]*bucket
}

// New returns an empty Limiter. Buckets are created on first sight of
// a client.
func New() *Limiter {
	return &Limiter{}
}

// Allow reports whether the client identified by key may proceed,
// consuming one token when it can. A perMinute of zero or less
// disables limiting.
func (l *Limiter) Allow(key string, perMinute int) bool {
	if perMinute <= 0 {
		return true
	}

	val, _ := l.buckets.LoadOrStore(key, &bucket{
		tokens: float64(perMinute),
		last:   time.Now(),
	})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Top up for the time elapsed since the last call; the bucket
	// never holds more than perMinute tokens.
	now := time.Now()
	refill := now.Sub(b.last).Seconds() * float64(perMinute) / 60
	b.tokens = min(b.tokens+refill, float64(perMinute))
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Middleware returns an HTTP middleware that enforces a per-client
// request rate on the wrapped routes. Clients are keyed by remote IP.
func Middleware(limiter *Limiter, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r), perMinute) {
				writeTooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey derives the bucket key from the request's remote address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeTooManyRequests writes a JSON 429 response.
func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": "rate limit exceeded",
	})
}
