package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	perr "eventscope/internal/platform/errors"
	pnet "eventscope/internal/platform/net"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures the per client token bucket
type RateLimitOptions struct {
	RPS   float64
	Burst int // zero means 2x RPS

	// IdleTimeout drops buckets not seen for this long, default 1h
	IdleTimeout time.Duration

	// OnLimited is called for every rejected request (metrics)
	OnLimited func()
}

// RateLimiter hands out one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
	swept   time.Time
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter builds a limiter; RPS <= 0 disables limiting
func NewRateLimiter(o RateLimitOptions) *RateLimiter {
	burst := o.Burst
	if burst <= 0 {
		burst = int(o.RPS * 2)
		if burst < 1 {
			burst = 1
		}
	}
	idle := o.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	return &RateLimiter{
		buckets: map[string]*bucket{},
		limit:   rate.Limit(o.RPS),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

// Allow reports whether key may proceed now
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.swept) > rl.idle {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) > rl.idle {
				delete(rl.buckets, k)
			}
		}
		rl.swept = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// Len is the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// RateLimit rejects requests over budget with 429
// clients are keyed by authenticated user id, falling back to remote ip
func RateLimit(o RateLimitOptions, write WriteFunc) func(http.Handler) http.Handler {
	rl := NewRateLimiter(o)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientKey(r)) {
				if o.OnLimited != nil {
					o.OnLimited()
				}
				w.Header().Set("Retry-After", "1")
				status, env := pnet.Failure(perr.New(perr.ErrorCodeTooManyRequests, "rate limit exceeded"), pnet.RequestID(r.Context()))
				write(w, status, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if c, ok := pnet.CallerFrom(r.Context()); ok && c.UserID != "" {
		return "u:" + c.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
