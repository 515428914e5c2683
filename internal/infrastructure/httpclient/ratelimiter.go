package httpclient

import (
	"context"
	"sync"
	"time"

	"disputeshield-service/internal/domain/adapter"
)

// TokenBucket is a process-local token-bucket rate limiter. Tokens
// refill continuously based on elapsed time, not in bursts. One bucket
// is scoped to one adapter instance; there are no shared globals.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per interval
	interval   time.Duration
	lastRefill time.Time
	failFast   bool
	now        func() time.Time
}

// NewTokenBucket creates a bucket that starts full
func NewTokenBucket(maxTokens int, refillRate float64, interval time.Duration, failFast bool) *TokenBucket {
	if maxTokens <= 0 {
		maxTokens = 10
	}
	if refillRate <= 0 {
		refillRate = float64(maxTokens)
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TokenBucket{
		tokens:     float64(maxTokens),
		maxTokens:  float64(maxTokens),
		refillRate: refillRate,
		interval:   interval,
		lastRefill: time.Now(),
		failFast:   failFast,
		now:        time.Now,
	}
}

func (b *TokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	b.tokens += b.refillRate * float64(elapsed) / float64(b.interval)
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now
}

// tryTake takes one token if available, otherwise returns how long
// until the next token refills.
func (b *TokenBucket) tryTake() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	deficit := 1 - b.tokens
	wait := time.Duration(deficit / b.refillRate * float64(b.interval))
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return false, wait
}

// Wait blocks until a token is available or ctx is done. In fail-fast
// mode an empty bucket returns adapter.ErrRateLimited immediately.
func (b *TokenBucket) Wait(ctx context.Context) error {
	for {
		ok, wait := b.tryTake()
		if ok {
			return nil
		}
		if b.failFast {
			return adapter.ErrRateLimited
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tokens returns the current token count after refill
func (b *TokenBucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	return b.tokens
}
