// Package ratelimit implements the client-side request budget for the Hudu API.
// Hudu documents a ceiling of 300 API requests per minute; the token bucket
// keeps a client instance under that ceiling by blocking callers until a
// permit is available.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for permit acquisition.
var (
	huduPermitsAcquiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hudu_rate_limit_permits_acquired_total",
		Help: "Total permits handed out by the local token bucket",
	})

	huduPermitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hudu_rate_limit_wait_seconds",
		Help:    "Time callers spent waiting for a permit",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Default budget: Hudu's documented ceiling is 300 requests per 60 seconds.
// The period is shortened by one second to leave headroom for clock skew
// between this client and the Hudu servers.
const (
	DefaultCapacity = 300
	DefaultPeriod   = 59 * time.Second
)

// Limiter gates outbound requests. Acquire blocks until one permit is
// available or the context is cancelled.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Bucket is a process-local token bucket. Tokens refill continuously in
// proportion to elapsed wall-clock time. All state is guarded by a single
// mutex; concurrent callers observe a serialized token count.
type Bucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	period     time.Duration
	lastRefill time.Time
	logger     zerolog.Logger

	// sleep is swappable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBucket creates a full bucket with the given budget. Non-positive
// arguments fall back to the Hudu defaults.
func NewBucket(capacity int, period time.Duration, logger zerolog.Logger) *Bucket {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	return &Bucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		period:     period,
		lastRefill: time.Now(),
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// NewDefaultBucket creates a bucket with the Hudu-documented budget.
func NewDefaultBucket(logger zerolog.Logger) *Bucket {
	return NewBucket(DefaultCapacity, DefaultPeriod, logger)
}

// Acquire blocks until a permit is available, then consumes it. The refill,
// wait computation, and decrement form one critical section so two callers
// can never drain the same fractional token. The only error condition is
// context cancellation during the wait.
func (b *Bucket) Acquire(ctx context.Context) error {
	start := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()

	if b.tokens < 1 {
		// Deterministic wait for exactly one token to accrue.
		deficit := 1 - b.tokens
		wait := time.Duration(deficit * float64(b.period) / b.capacity)

		b.logger.Debug().
			Dur("wait", wait).
			Float64("tokens", b.tokens).
			Msg("Rate limit budget exhausted - waiting for permit")

		if err := b.sleep(ctx, wait); err != nil {
			return err
		}

		b.tokens = 1
		b.lastRefill = time.Now()
	}

	b.tokens--

	huduPermitsAcquiredTotal.Inc()
	huduPermitWaitSeconds.Observe(time.Since(start).Seconds())

	return nil
}

// Tokens reports the currently available permits after a refill. Intended
// for tests and diagnostics.
func (b *Bucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked()
	return b.tokens
}

// refillLocked credits tokens for the time elapsed since the last refill.
// Callers must hold b.mu.
func (b *Bucket) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}

	b.tokens += elapsed.Seconds() * b.capacity / b.period.Seconds()
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// sleepCtx sleeps for d, returning early if the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
