package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultDriveRateLimit stays below Drive's 10 requests/second/user quota.
var DefaultDriveRateLimit = RateLimitConfig{RequestsPerSecond: 8.0, BurstSize: 10}

// defaultBackoff applies when a 429 carries no Retry-After.
const defaultBackoff = 60 * time.Second

// RateLimiter provides rate limiting for Google API requests.
// It uses a token bucket with an additional backoff window after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		now:     time.Now,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		timer := time.NewTimer(retryAt.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError starts a backoff window. A non-positive retryAfter
// uses the default of 60 seconds.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = defaultBackoff
	}
	r.retryAt = r.now().Add(retryAfter)
}

// Allow reports whether a request can be made immediately.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
