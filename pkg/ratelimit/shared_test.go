package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis creates a test Redis client. Tests are skipped when no
// local Redis is available; testcontainers-backed coverage lives in
// tests/integration.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewSharedBucket_Panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewSharedBucket should panic with nil redis client")
		}
	}()
	NewSharedBucket(nil, 10, time.Second, zerolog.Nop())
}

func TestNewSharedBucket_Defaults(t *testing.T) {
	client := setupTestRedis(t)

	b := NewSharedBucket(client, 0, 0, zerolog.Nop())
	if b.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", b.capacity, DefaultCapacity)
	}
	if b.period != DefaultPeriod {
		t.Errorf("period = %v, want %v", b.period, DefaultPeriod)
	}
}

func TestSharedBucket_AcquireWithinBudget(t *testing.T) {
	client := setupTestRedis(t)
	b := NewSharedBucket(client, 10, time.Minute, zerolog.Nop())
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := b.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("10 permits within budget took %v, want no blocking", elapsed)
	}
}

func TestSharedBucket_BlocksWhenWindowSpent(t *testing.T) {
	client := setupTestRedis(t)
	b := NewSharedBucket(client, 2, 500*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}

	// Third permit waits for the next window.
	start := time.Now()
	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after budget failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 600*time.Millisecond {
		t.Errorf("wait was %v, want at most one window", elapsed)
	}
}

func TestSharedBucket_SharedAcrossInstances(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	b1 := NewSharedBucket(client, 4, time.Minute, zerolog.Nop())
	b2 := NewSharedBucket(client, 4, time.Minute, zerolog.Nop())

	// Both handles drain the same window.
	for i := 0; i < 2; i++ {
		if err := b1.Acquire(ctx); err != nil {
			t.Fatalf("b1 Acquire failed: %v", err)
		}
		if err := b2.Acquire(ctx); err != nil {
			t.Fatalf("b2 Acquire failed: %v", err)
		}
	}

	// Budget spent: a further acquire must block past the context deadline.
	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	if err := b1.Acquire(shortCtx); err == nil {
		t.Error("expected context deadline while waiting on spent shared window")
	}
}

func TestSharedBucket_ContextCancellation(t *testing.T) {
	client := setupTestRedis(t)
	b := NewSharedBucket(client, 1, time.Minute, zerolog.Nop())
	ctx := context.Background()

	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if err := b.Acquire(cancelled); err != context.Canceled {
		t.Errorf("Acquire = %v, want context.Canceled", err)
	}
}
