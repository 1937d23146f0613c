package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nextdink/api/internal/model"
)

// RateLimiter applies a fixed-window request quota per caller. Each
// caller gets Rate+Burst requests per Window and the counter resets
// when the window rolls over. Callers are keyed by user ID when
// authenticated, by remote address otherwise.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*quotaWindow
	limit    int
	capacity int
	window   time.Duration
	sweep    time.Duration
	done     chan struct{}
}

// quotaWindow tracks one caller's remaining quota in its current window.
type quotaWindow struct {
	remaining int
	resetAt   time.Time
}

// RateLimiterConfig configures a RateLimiter. Zero values fall back to
// the per-field defaults.
type RateLimiterConfig struct {
	Rate    int           // steady requests per window (default 100)
	Window  time.Duration // window length (default 1m)
	Burst   int           // headroom on top of Rate; zero means none
	Cleanup time.Duration // how often idle windows are dropped (default 5m)
}

// NewRateLimiter creates a limiter and starts its background sweeper.
// Call Stop when done with it.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate == 0 {
		cfg.Rate = 100
	}
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	rl := &RateLimiter{
		windows:  make(map[string]*quotaWindow),
		limit:    cfg.Rate,
		capacity: cfg.Rate + cfg.Burst,
		window:   cfg.Window,
		sweep:    cfg.Cleanup,
		done:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop terminates the sweeper goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropExpired()
		case <-rl.done:
			return
		}
	}
}

// dropExpired forgets callers whose window has already rolled over;
// they would start a fresh window on their next request anyway.
func (rl *RateLimiter) dropExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, w := range rl.windows {
		if now.After(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}

// Allow consumes one unit of key's quota. It reports whether the
// request may proceed, how much quota remains, and when the current
// window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w := rl.windows[key]
	if w == nil || !now.Before(w.resetAt) {
		w = &quotaWindow{remaining: rl.capacity, resetAt: now.Add(rl.window)}
		rl.windows[key] = w
	}

	if w.remaining == 0 {
		return false, 0, w.resetAt
	}
	w.remaining--
	return true, w.remaining, w.resetAt
}

// RateLimit enforces the limiter's quota and exposes it through the
// X-RateLimit-* headers. Rejected requests get a 429 problem response
// with a Retry-After hint.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}

			allowed, remaining, resetAt := limiter.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				retryAfter := int(time.Until(resetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
