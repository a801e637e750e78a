package payload

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the sustained request rate.
	DefaultRequestsPerSecond = 20.0

	// DefaultBurst is the maximum burst size.
	DefaultBurst = 10

	// DefaultBackoff is used when a 429 carries no Retry-After header.
	DefaultBackoff = 30 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit. Zero or less disables
	// throttling.
	RequestsPerSecond float64
	// Burst is the maximum burst size.
	Burst int
}

// RateLimiter throttles requests to the backend.
// It uses a token bucket with a backoff period after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Wait blocks until a request can be made.
// It respects any backoff period set by RecordRateLimit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimit sets a backoff period from a 429 response.
func (r *RateLimiter) RecordRateLimit(resp *http.Response) {
	backoff := DefaultBackoff
	if resp != nil {
		if seconds, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter)); err == nil && seconds >= 0 {
			backoff = time.Duration(seconds) * time.Second
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(backoff)
}

// RetryAt returns the end of the current backoff period.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}
