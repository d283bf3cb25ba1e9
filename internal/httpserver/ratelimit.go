package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client's limiter is kept after its last request.
const idleLimiterTTL = 10 * time.Minute

// clientLimiter rate-limits requests per client IP.
type clientLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSweep time.Time
}

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newClientLimiter(limit rate.Limit, burst int, now func() time.Time) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{limit: limit, burst: burst, now: now, clients: make(map[string]*clientEntry)}
}

// allow reports whether client may make a request now.
func (c *clientLimiter) allow(client string) bool {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > idleLimiterTTL {
		for k, e := range c.clients {
			if now.Sub(e.seen) > idleLimiterTTL {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	e, ok := c.clients[client]
	if !ok {
		e = &clientEntry{lim: rate.NewLimiter(c.limit, c.burst)}
		c.clients[client] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

func (c *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr (already rewritten by RealIP).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
