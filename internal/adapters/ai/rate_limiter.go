package ai

import (
	"context"
	"sync"
	"time"

	"pepuhub/pkg/errors"
)

// RateLimiter defines the interface for rate limiting AI provider requests.
type RateLimiter interface {
	// Wait blocks until request can proceed or context is cancelled.
	Wait(ctx context.Context) error

	// Allow checks if request can proceed without blocking.
	Allow() bool

	// Limit returns current rate limit (requests per minute).
	Limit() float64
}

// TokenBucketLimiter implements token bucket rate limiting algorithm.
// Thread-safe; used when no Redis is configured.
type TokenBucketLimiter struct {
	rate       float64 // Requests per second
	burst      int     // Maximum burst size
	tokens     float64 // Current available tokens
	lastUpdate time.Time
	mu         sync.Mutex
}

// NewTokenBucketLimiter creates a new token bucket rate limiter.
// reqPerMinute: maximum requests per minute; burst: maximum burst size.
func NewTokenBucketLimiter(reqPerMinute float64, burst int) *TokenBucketLimiter {
	if burst <= 0 {
		burst = int(reqPerMinute / 10)
		if burst < 1 {
			burst = 1
		}
	}

	return &TokenBucketLimiter{
		rate:       reqPerMinute / 60.0,
		burst:      burst,
		tokens:     float64(burst),
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or context is cancelled.
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		l.mu.Lock()
		waitTime := time.Duration(float64(time.Second) / l.rate)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "rate limiter wait cancelled")
		case <-time.After(waitTime):
		}
	}
}

// Allow checks if a request can proceed and consumes a token if available.
func (l *TokenBucketLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastUpdate).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.lastUpdate = now

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true
	}
	return false
}

// Limit returns the configured rate in requests per minute.
func (l *TokenBucketLimiter) Limit() float64 {
	return l.rate * 60.0
}

// NoOpLimiter never blocks. Used in tests and when limiting is disabled.
type NoOpLimiter struct{}

// NewNoOpLimiter creates a limiter that always allows requests.
func NewNoOpLimiter() *NoOpLimiter { return &NoOpLimiter{} }

func (l *NoOpLimiter) Wait(ctx context.Context) error { return nil }
func (l *NoOpLimiter) Allow() bool                    { return true }
func (l *NoOpLimiter) Limit() float64                 { return 0 }
