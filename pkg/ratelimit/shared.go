package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var huduSharedBucketBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hudu_rate_limit_shared_blocks_total",
	Help: "Total acquisitions that had to wait for the shared window to reset",
})

// SharedKeyPrefix namespaces the shared budget counters in Redis.
const SharedKeyPrefix = "hudu:rate_limit:window"

// SharedBucket enforces one request budget across every process that talks
// to the same Hudu account. It counts requests in fixed windows backed by
// Redis; when the current window is spent, Acquire sleeps until the next
// window opens. Use this instead of Bucket when several client instances
// share an API key.
type SharedBucket struct {
	redis    *redis.Client
	capacity int64
	period   time.Duration
	logger   zerolog.Logger
}

// NewSharedBucket creates a shared budget handle. Non-positive arguments
// fall back to the Hudu defaults.
func NewSharedBucket(redisClient *redis.Client, capacity int, period time.Duration, logger zerolog.Logger) *SharedBucket {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	return &SharedBucket{
		redis:    redisClient,
		capacity: int64(capacity),
		period:   period,
		logger:   logger,
	}
}

// Acquire consumes one permit from the shared window, sleeping across
// window boundaries until one is available. Errors are limited to Redis
// failures and context cancellation.
func (s *SharedBucket) Acquire(ctx context.Context) error {
	for {
		windowStart := time.Now().Truncate(s.period)
		key := fmt.Sprintf("%s:%d", SharedKeyPrefix, windowStart.Unix())

		count, err := s.redis.Incr(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("shared bucket incr: %w", err)
		}

		if count == 1 {
			// First permit of the window; let Redis reap the counter.
			if err := s.redis.Expire(ctx, key, 2*s.period).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to set shared bucket window expiry")
			}
		}

		if count <= s.capacity {
			return nil
		}

		// Window spent. Wait for the next one and try again.
		wait := time.Until(windowStart.Add(s.period))
		if wait < 0 {
			wait = 0
		}

		huduSharedBucketBlocksTotal.Inc()
		s.logger.Warn().
			Int64("count", count).
			Int64("capacity", s.capacity).
			Dur("wait", wait).
			Msg("Shared rate limit window spent - waiting for reset")

		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}
