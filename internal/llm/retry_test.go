package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	policy := retryPolicy{attempts: 3, baseDelay: time.Millisecond}

	calls := 0
	err := policy.do(context.Background(), "test", func() error {
		calls++
		if calls < 2 {
			return fmt.Errorf("transient: %w", ErrProviderRateLimited)
		}

		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	policy := retryPolicy{attempts: 3, baseDelay: time.Millisecond}

	calls := 0
	err := policy.do(context.Background(), "test", func() error {
		calls++
		return ErrProviderTimeout
	})

	if !errors.Is(err, ErrProviderTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestAuthErrorNotRetried(t *testing.T) {
	policy := retryPolicy{attempts: 3, baseDelay: time.Millisecond}

	calls := 0
	err := policy.do(context.Background(), "test", func() error {
		calls++
		return ErrProviderAuth
	})

	if !errors.Is(err, ErrProviderAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}

	if calls != 1 {
		t.Errorf("auth failure should not retry, got %d calls", calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	policy := retryPolicy{attempts: 5, baseDelay: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := policy.do(ctx, "test", func() error {
		return ErrProviderTimeout
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		retryable bool
	}{
		{http.StatusUnauthorized, ErrProviderAuth, false},
		{http.StatusForbidden, ErrProviderAuth, false},
		{http.StatusTooManyRequests, ErrProviderRateLimited, true},
		{http.StatusGatewayTimeout, ErrProviderTimeout, true},
		{http.StatusInternalServerError, ErrProviderUnavailable, true},
		{http.StatusServiceUnavailable, ErrProviderUnavailable, true},
	}

	for _, tt := range tests {
		err := classifyStatus(tt.status, []byte("body"))

		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}

		if isRetryable(err) != tt.retryable {
			t.Errorf("status %d: expected retryable=%v", tt.status, tt.retryable)
		}
	}
}

func TestClassifyStatusBadRequestIsTerminal(t *testing.T) {
	err := classifyStatus(http.StatusBadRequest, []byte("invalid model"))

	if isRetryable(err) {
		t.Error("400 responses should not be retried")
	}
}
