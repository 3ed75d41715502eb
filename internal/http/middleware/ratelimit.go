// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Per-identity token buckets (golang.org/x/time/rate), process-local. With
// several replicas the effective limit is rate × replicas. Reads and writes
// are bucketed separately so a client polling the swap board does not eat
// the budget it needs to agree or post an offer.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys on the authenticated student, falling back to the client
// IP, and appends the request class: "user:<id>:read" or "ip:<addr>:write".
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		who := "ip:" + c.ClientIP()
		if uid := UserID(c); uid != "" {
			who = "user:" + uid
		}
		return who + ":" + requestClass(c.Request.Method)
	}
}

func requestClass(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	default:
		return "write"
	}
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per key. Buckets idle for longer
// than ttl are swept every sweepEvery lookups. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	lookups uint64
}

const sweepEvery = 5000

// NewRateLimiter builds a limiter refilling rps tokens per second up to
// burst (coerced to at least 1). Install it with Handler().
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   max(burst, 1),
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		ttl:     10 * time.Minute,
	}
}

// limiterFor returns the bucket for key, creating it on first use. The sweep
// runs before the lookup so a stale bucket is dropped rather than refreshed.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.lookups++; rl.lookups >= sweepEvery {
		rl.sweep(now)
		rl.lookups = 0
	}
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// sweep drops idle buckets. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.ttl {
			delete(rl.buckets, k)
		}
	}
}

// IsRateBypass reports whether IdempotencyValidator flagged this request as a
// replay that must not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	return ctxBool(c, ctxKeyRateBypass)
}

// Handler enforces the per-key limit. Replays pass through untouched.
// Rejections are 429 with code "rate_limited" and a Retry-After equal to the
// wait until the next token, rounded up to whole seconds.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		res := rl.limiterFor(rl.keyFn(c)).Reserve()
		wait := res.Delay()
		if res.OK() && wait == 0 {
			c.Next()
			return
		}
		res.Cancel()

		c.Header("Retry-After", rl.retryAfter(res.OK(), wait))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}

// retryAfter renders the Retry-After seconds. A reservation that can never
// be satisfied (rps 0 and the burst spent) gets a flat minute.
func (rl *RateLimiter) retryAfter(reservable bool, wait time.Duration) string {
	if !reservable || rl.rps <= 0 {
		return "60"
	}
	if wait <= 0 {
		wait = time.Duration(float64(time.Second) / float64(rl.rps))
	}
	return strconv.Itoa(max(int(math.Ceil(wait.Seconds())), 1))
}
