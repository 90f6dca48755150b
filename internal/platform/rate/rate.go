// Package rate implements a token bucket limiter. Each scraped source
// gets its own limiter so a run stays polite with every site it hits.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. Wait blocks until a request may proceed;
// Allow is the non-blocking variant.
type Limiter struct {
	rate  float64 // tokens per second
	burst int     // bucket capacity

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// New creates a limiter allowing rate requests per second with the
// given burst. Non-positive arguments fall back to 1.
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst), // bucket starts full
		last:   time.Now(),
	}
}

// Wait blocks until a token is available or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.waitDuration()):
		}
	}
}

// Allow consumes a token if one is available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Tokens returns the currently available tokens.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	return l.tokens
}

// Rate returns the configured requests per second.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Burst returns the bucket capacity.
func (l *Limiter) Burst() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}

// Reset refills the bucket. Used by tests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = float64(l.burst)
	l.last = time.Now()
}

// advance refills tokens for the elapsed time, capped at burst.
// Must be called with l.mu held.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now
}

// waitDuration estimates how long until the next token accrues.
func (l *Limiter) waitDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	if l.tokens >= 1 {
		return 0
	}
	secondsNeeded := (1.0 - l.tokens) / l.rate
	return time.Duration(secondsNeeded * float64(time.Second))
}
