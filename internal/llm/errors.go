package llm

import (
	"fmt"
	"time"
)

// ErrorKind classifies generation-service failures.
type ErrorKind string

const (
	ErrAuth            ErrorKind = "authentication"
	ErrRateLimited     ErrorKind = "rate_limited"
	ErrTimeout         ErrorKind = "timeout"
	ErrInvalidRequest  ErrorKind = "invalid_request"
	ErrContentFiltered ErrorKind = "content_filtered"
	ErrProvider        ErrorKind = "provider"
)

// APIError is a typed generation-service failure.
type APIError struct {
	Kind       ErrorKind
	Message    string
	RetryAfter time.Duration // Set for rate-limit errors when the service says so
	Err        error         // Underlying error, if any
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("generation service %s: %s (retry after %s)", e.Kind, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("generation service %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth retrying. Only rate-limit,
// timeout and provider-side failures are; everything else is an upstream
// concern.
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case ErrRateLimited, ErrTimeout, ErrProvider:
		return true
	default:
		return false
	}
}
