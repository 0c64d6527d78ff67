package client

import (
	"context"
)

// Result is the success/failure envelope returned by every high-level
// operation. Callers branch on the envelope instead of panics; a failed
// Result always carries a classified *APIError somewhere in its chain.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps a failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess reports whether the operation succeeded.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the wrapped value and error.
func (r Result[T]) Value() (T, error) {
	return r.value, r.err
}

// Err returns the wrapped error, nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// MustValue returns the wrapped value and panics on failure. Intended for
// examples and tests.
func (r Result[T]) MustValue() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// Run executes op with the default retry policy and wraps the outcome.
// The whole closure is re-executed on transient faults, so an op that
// drains a paginated listing re-issues every page on retry.
func Run[T any](ctx context.Context, op func() (T, error)) Result[T] {
	return RunWithConfig(ctx, DefaultRetryConfig(), op)
}

// RunWithConfig executes op under an explicit retry policy.
func RunWithConfig[T any](ctx context.Context, config RetryConfig, op func() (T, error)) Result[T] {
	var value T

	err := retryWithBackoff(ctx, config, func() error {
		v, opErr := op()
		if opErr != nil {
			return opErr
		}
		value = v
		return nil
	})
	if err != nil {
		return Fail[T](err)
	}

	return Ok(value)
}
