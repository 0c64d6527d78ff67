package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled while
	// waiting on a rate-limit permit or a retry backoff.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrEmptyPath is returned when a request is issued without a path.
	ErrEmptyPath = errors.New("request path cannot be empty")
)

// ErrorKind classifies a failed API call. The kind decides both the retry
// policy and the caller-facing error taxonomy.
type ErrorKind string

const (
	// ErrorKindNotFound covers HTTP 404. Never retried.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindUnauthorized covers HTTP 401. Never retried, fatal to the
	// operation.
	ErrorKindUnauthorized ErrorKind = "unauthorized"

	// ErrorKindTransient covers 429, 5xx and connection-level failures.
	// Presumed recoverable by retry.
	ErrorKindTransient ErrorKind = "transient"

	// ErrorKindPermanent is the generic catch-all for remaining 4xx and
	// unclassified faults. Never retried.
	ErrorKindPermanent ErrorKind = "permanent"

	// ErrorKindValidation covers response payloads that fail to decode into
	// their resource schema. Never retried.
	ErrorKindValidation ErrorKind = "validation"
)

// APIError is a classified Hudu API failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("hudu %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("hudu %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("hudu %s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an error kind.
// 2xx codes never reach this function.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == 404:
		return ErrorKindNotFound
	case status == 401:
		return ErrorKindUnauthorized
	case status == 429 || status >= 500:
		return ErrorKindTransient
	default:
		return ErrorKindPermanent
	}
}

// KindOf extracts the classification from an error chain. Errors that carry
// no APIError collapse into the permanent kind.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrorKindPermanent
}

// shouldRetry reports whether an error classification warrants a retry.
// Only transient faults are retried; everything else propagates on first
// occurrence.
func shouldRetry(kind ErrorKind) bool {
	return kind == ErrorKindTransient
}

// IsNotFound reports whether the error chain carries a 404 classification.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrorKindNotFound
}

// IsUnauthorized reports whether the error chain carries a 401 classification.
func IsUnauthorized(err error) bool {
	return KindOf(err) == ErrorKindUnauthorized
}

// IsTransient reports whether the error chain carries a transient
// classification.
func IsTransient(err error) bool {
	return KindOf(err) == ErrorKindTransient
}

// IsValidation reports whether the error chain carries a schema-validation
// classification.
func IsValidation(err error) bool {
	return KindOf(err) == ErrorKindValidation
}
