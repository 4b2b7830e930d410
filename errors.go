package mediagen

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a failed generation call.
type FailureKind string

const (
	// KindInvalidRequest means the caller supplied an incomplete or
	// contradictory request. Detected locally, never sent over the network.
	KindInvalidRequest FailureKind = "invalid_request"

	// KindNoPayload means the backend responded but produced no usable
	// content, typically because of safety filtering.
	KindNoPayload FailureKind = "no_payload"

	// KindMalformedResponse means the backend payload did not match the
	// expected schema.
	KindMalformedResponse FailureKind = "malformed_response"

	// KindTransport means the call to the backend itself failed.
	KindTransport FailureKind = "transport"

	// KindTimeout means a bounded polling loop exceeded its limit.
	KindTimeout FailureKind = "timeout"
)

// Failure is the error type returned by all public operations.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error // underlying cause, if any
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches any *Failure with the same Kind.
func (f *Failure) Is(target error) bool {
	var t *Failure
	if errors.As(target, &t) {
		return f.Kind == t.Kind
	}
	return false
}

func newFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

func wrapFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// KindOf returns the failure kind of err, or "" if err is not a *Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsInvalidRequest checks if an error is an invalid-request failure.
func IsInvalidRequest(err error) bool { return KindOf(err) == KindInvalidRequest }

// IsNoPayload checks if an error is a no-payload failure.
func IsNoPayload(err error) bool { return KindOf(err) == KindNoPayload }

// IsMalformedResponse checks if an error is a malformed-response failure.
func IsMalformedResponse(err error) bool { return KindOf(err) == KindMalformedResponse }

// IsTransport checks if an error is a transport failure.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// IsTimeout checks if an error is a timeout failure.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// RateLimitError is returned when a local rate limit is hit before a call
// reaches the network.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}
