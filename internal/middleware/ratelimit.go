package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// pruneThreshold is the number of tracked clients above which expired
// windows are swept.
const pruneThreshold = 4096

type window struct {
	count int
	until time.Time
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	limit int
	per   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewLimiter allows limit requests per key in each window of length per.
func NewLimiter(limit int, per time.Duration) *Limiter {
	return &Limiter{limit: limit, per: per, now: time.Now, windows: make(map[string]*window)}
}

// Allow records one request for key. When the window is exhausted it
// reports false and how long until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.until) {
		w = &window{until: now.Add(l.per)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false, w.until.Sub(now)
	}
	w.count++
	if len(l.windows) > pruneThreshold {
		for k, old := range l.windows {
			if !now.Before(old.until) {
				delete(l.windows, k)
			}
		}
	}
	return true, 0
}

// RateLimit allows limit requests per client IP in each fixed window of
// length per. Rejected requests get 429 with Retry-After.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return NewLimiter(limit, per).Middleware
}

// Middleware rejects requests from clients that exhausted their window.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.Allow(clientIPForRateLimit(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait/time.Second)+1))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests, slow down"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			if ip := strings.TrimSpace(part); net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
