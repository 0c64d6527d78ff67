package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	huduRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hudu_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"error_kind"})

	huduRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hudu_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error kind",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"error_kind"})

	huduRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hudu_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error kind",
	}, []string{"error_kind"})
)

// RetryConfig holds the configuration for operation-level retry logic.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first).
	MaxAttempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration

	// BackoffMultiplier is the exponential growth factor.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration: 3 attempts
// total with exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// retryWithBackoff executes fn, retrying the whole closure with jittered
// exponential backoff for as long as the returned error classifies as
// transient. Non-transient errors propagate immediately. Exhaustion wraps
// the last error with ErrRetryExhausted.
func retryWithBackoff(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Int("attempt", attempt).
					Msg("Operation succeeded after retry")
			}
			return nil
		}

		lastErr = err
		kind := KindOf(err)

		if !shouldRetry(kind) {
			return lastErr
		}

		if attempt >= config.MaxAttempts {
			break
		}

		huduRetriesTotal.WithLabelValues(string(kind)).Inc()

		// Jitter of ±20% to avoid synchronized retries.
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		huduRetryBackoffSeconds.WithLabelValues(string(kind)).Observe(jitter.Seconds())

		log.Debug().
			Str("error_kind", string(kind)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying operation after backoff")

		select {
		case <-ctx.Done():
			log.Warn().
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * config.BackoffMultiplier)
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	kind := KindOf(lastErr)
	huduRetryExhaustedTotal.WithLabelValues(string(kind)).Inc()
	log.Warn().
		Str("error_kind", string(kind)).
		Int("max_attempts", config.MaxAttempts).
		Msg("Retry attempts exhausted")

	// Both sentinels stay in the chain so callers can still classify the
	// final failure with errors.As.
	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, config.MaxAttempts, lastErr)
}
