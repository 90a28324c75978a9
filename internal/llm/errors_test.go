package llm

import (
	"errors"
	"testing"
	"time"
)

func TestAPIError_Retryable(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{ErrRateLimited, true},
		{ErrTimeout, true},
		{ErrProvider, true},
		{ErrAuth, false},
		{ErrInvalidRequest, false},
		{ErrContentFiltered, false},
	}

	for _, tt := range tests {
		err := &APIError{Kind: tt.kind, Message: "x"}
		if err.Retryable() != tt.want {
			t.Errorf("Retryable(%s) = %v, want %v", tt.kind, err.Retryable(), tt.want)
		}
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &APIError{Kind: ErrProvider, Message: "wrapped", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var apiErr *APIError
	if !errors.As(error(err), &apiErr) {
		t.Error("expected errors.As to match *APIError")
	}
}

func TestAPIError_RetryAfterMessage(t *testing.T) {
	err := &APIError{Kind: ErrRateLimited, Message: "slow down", RetryAfter: 2 * time.Second}
	if got := err.Error(); got == "" || got == "slow down" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "frontier-9000"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil || p != nil {
		t.Errorf("expected (nil, nil) for empty provider, got (%v, %v)", p, err)
	}
}
