/*
Package limiter provides request rate limiting keyed by client IP address.

It uses the token bucket algorithm (rate.Limiter) per IP and runs a cleanup
goroutine that removes inactive limiters to keep memory bounded. The
credential endpoints (login, register) sit behind it to slow brute forcing.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"voyago/internal/pkg/logx"
)

// IPRateLimiter tracks one token bucket per client IP.
type IPRateLimiter struct {
	mu     *sync.RWMutex
	limits map[string]*rate.Limiter

	// r is the refill rate, b the burst size, of each bucket.
	r rate.Limit
	b int

	// reject is invoked for requests that exceed the limit.
	reject http.Handler
}

// NewIPRateLimiter creates an IPRateLimiter with rate r and burst b.
// Requests over the limit are handed to reject. A background goroutine
// periodically removes limiters whose buckets have refilled completely.
func NewIPRateLimiter(r rate.Limit, b int, reject http.Handler) *IPRateLimiter {
	i := &IPRateLimiter{
		mu:     &sync.RWMutex{},
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		reject: reject,
	}

	go i.cleanUpVisitors()

	return i
}

// GetLimiter retrieves the rate limiter for the given IP, creating one on
// first sight. Double-checked locking keeps creation concurrent-safe.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// cleanUpVisitors drops limiters whose token bucket is full again,
// meaning the IP has been idle long enough to refill completely.
func (i *IPRateLimiter) cleanUpVisitors() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		count := 0
		for ip, limiter := range i.limits {
			if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
				delete(i.limits, ip)
				count++
			}
		}
		remaining := len(i.limits)
		i.mu.Unlock()

		if count > 0 {
			logx.Info("Rate limiter cleanup finished", "removed", count, "active", remaining)
		}
	}
}

// Middleware enforces the per-IP limit on incoming requests.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !i.GetLimiter(ip).Allow() {
			i.reject.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
