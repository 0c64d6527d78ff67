package client

import (
	"context"
	"errors"
	"testing"
)

func TestResult_Ok(t *testing.T) {
	r := Ok(42)

	if !r.IsSuccess() {
		t.Error("Ok result should be success")
	}
	if v, err := r.Value(); v != 42 || err != nil {
		t.Errorf("Value() = %d, %v; want 42, nil", v, err)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
	if r.MustValue() != 42 {
		t.Error("MustValue mismatch")
	}
}

func TestResult_Fail(t *testing.T) {
	cause := &APIError{Kind: ErrorKindNotFound, StatusCode: 404}
	r := Fail[string](cause)

	if r.IsSuccess() {
		t.Error("Fail result should not be success")
	}
	if _, err := r.Value(); !errors.Is(err, cause) {
		t.Errorf("Value() err = %v, want %v", err, cause)
	}
	if !IsNotFound(r.Err()) {
		t.Error("classification lost in result")
	}
}

func TestResult_MustValuePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustValue should panic on failure")
		}
	}()
	Fail[int](errors.New("boom")).MustValue()
}

func TestRun_Success(t *testing.T) {
	r := Run(context.Background(), func() (string, error) {
		return "hello", nil
	})

	if !r.IsSuccess() {
		t.Fatalf("Run failed: %v", r.Err())
	}
	if r.MustValue() != "hello" {
		t.Errorf("value = %q, want hello", r.MustValue())
	}
}

func TestRunWithConfig_RetriesWholeOperation(t *testing.T) {
	calls := 0
	r := RunWithConfig(context.Background(), fastRetryConfig(), func() (int, error) {
		calls++
		if calls < 2 {
			return 0, &APIError{Kind: ErrorKindTransient, StatusCode: 503}
		}
		return calls, nil
	})

	if !r.IsSuccess() {
		t.Fatalf("expected success, got %v", r.Err())
	}
	if r.MustValue() != 2 {
		t.Errorf("value = %d, want 2", r.MustValue())
	}
}

func TestRunWithConfig_TransientExhaustion(t *testing.T) {
	calls := 0
	r := RunWithConfig(context.Background(), fastRetryConfig(), func() (int, error) {
		calls++
		return 0, &APIError{Kind: ErrorKindTransient, StatusCode: 429}
	})

	if r.IsSuccess() {
		t.Fatal("expected failure")
	}
	if calls != 3 {
		t.Errorf("op called %d times, want exactly 3", calls)
	}
	if !errors.Is(r.Err(), ErrRetryExhausted) {
		t.Errorf("error = %v, want ErrRetryExhausted", r.Err())
	}
	if !IsTransient(r.Err()) {
		t.Error("final classification lost")
	}
}

func TestRunWithConfig_UnauthorizedSingleAttempt(t *testing.T) {
	calls := 0
	r := RunWithConfig(context.Background(), fastRetryConfig(), func() (int, error) {
		calls++
		return 0, &APIError{Kind: ErrorKindUnauthorized, StatusCode: 401}
	})

	if r.IsSuccess() {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Errorf("op called %d times, want exactly 1", calls)
	}
	if !IsUnauthorized(r.Err()) {
		t.Errorf("error = %v, want unauthorized", r.Err())
	}
}
