package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// LoginRateLimit throttles the session endpoints per client IP. Failed token
// guesses are cheap to send and expensive to verify upstream, so the login
// surface gets its own budget.
type LoginRateLimit struct {
	rpm        int
	trustProxy bool
	mu         sync.Mutex
	clients    map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginRateLimit builds the limiter. trustProxy must only be set when the
// gateway sits behind a proxy that overwrites X-Forwarded-For; otherwise the
// header is attacker-controlled and the budget keys on the socket address.
func NewLoginRateLimit(rpm int, trustProxy bool) *LoginRateLimit {
	if rpm <= 0 {
		rpm = 10
	}
	return &LoginRateLimit{
		rpm:        rpm,
		trustProxy: trustProxy,
		clients:    map[string]*clientLimiter{},
	}
}

// Handler is the echo middleware enforcing the limit.
func (m *LoginRateLimit) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := m.clientIP(c.Request())
		if !m.limiterFor(ip).Allow() {
			c.Response().Header().Set("Retry-After", "60")
			return c.JSON(http.StatusTooManyRequests, errorMessage("too many requests"))
		}
		return next(c)
	}
}

func (m *LoginRateLimit) limiterFor(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl, ok := m.clients[ip]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(m.rpm)/60.0), m.rpm),
		}
		m.clients[ip] = cl
	}
	cl.lastSeen = time.Now()

	// Opportunistic cleanup of idle entries.
	if len(m.clients) > 1024 {
		cutoff := time.Now().Add(-10 * time.Minute)
		for k, v := range m.clients {
			if v.lastSeen.Before(cutoff) {
				delete(m.clients, k)
			}
		}
	}
	return cl.limiter
}

// clientIP resolves the address the budget keys on. Only the first
// X-Forwarded-For entry counts, and only when the proxy is trusted; anything
// else falls back to the socket address.
func (m *LoginRateLimit) clientIP(r *http.Request) string {
	if m.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first := fwd
			if i := strings.IndexByte(fwd, ','); i >= 0 {
				first = fwd[:i]
			}
			first = strings.TrimSpace(first)
			if net.ParseIP(first) != nil {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
