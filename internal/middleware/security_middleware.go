package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/utils"
)

// rateWindow tracks request counts for one client within the current window.
type rateWindow struct {
	count      int
	windowFrom time.Time
}

// RateLimiter limits the rate of requests per client IP using a fixed
// window counter. Stale windows are evicted by a background sweeper.
type RateLimiter struct {
	limit   int
	window  time.Duration
	mu      sync.Mutex
	clients map[string]*rateWindow
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
// for each client IP. The sweeper goroutine runs for the lifetime of the
// process.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*rateWindow),
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()
			rl.mu.Lock()
			for ip, w := range rl.clients {
				if now.Sub(w.windowFrom) > window {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

// allow records one request for the client and reports whether it fits
// inside the current window.
func (rl *RateLimiter) allow(clientIP string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.clients[clientIP]
	if !exists || now.Sub(w.windowFrom) > rl.window {
		rl.clients[clientIP] = &rateWindow{count: 1, windowFrom: now}
		return true
	}

	w.count++
	return w.count <= rl.limit
}

// RateLimit is middleware that limits the rate of requests from clients.
//
// Parameters:
//   - limiter: The limiter holding per-client windows
//
// Returns:
//   - A middleware function that can be used with an HTTP handler
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip rate limiting for health checks, static assets, etc.
			if isExemptedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Get the client IP address, handling proxies
			clientIP := getClientIP(r)

			if !limiter.allow(clientIP) {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Rate limit exceeded")

				// Return 429 Too Many Requests
				w.Header().Set("Retry-After", "60")
				utils.Error(w, http.StatusTooManyRequests, "too_many_requests", "Rate limit exceeded. Please try again later.", nil)
				return
			}

			// Request is allowed, continue to next handler
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from the request,
// taking into account common proxy headers.
func getClientIP(r *http.Request) string {
	// Check for X-Forwarded-For header
	xForwardedFor := r.Header.Get("X-Forwarded-For")
	if xForwardedFor != "" {
		// Use the leftmost IP in the list (client IP)
		ips := strings.Split(xForwardedFor, ",")
		ip := strings.TrimSpace(ips[0])
		return ip
	}

	// Check for X-Real-IP header
	xRealIP := r.Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If there's no port in the address, use it as is
		return r.RemoteAddr
	}
	return ip
}

// isExemptedPath returns true if the path should be exempted from
// rate limiting (e.g., health checks).
func isExemptedPath(path string) bool {
	exemptPrefixes := []string{
		"/health",
		"/version",
		"/favicon.ico",
	}

	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
