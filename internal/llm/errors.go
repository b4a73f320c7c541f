package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// the provider did not answer within the deadline; retryable
	ErrProviderTimeout = errors.New("provider request timed out")

	// the provider returned 429; retryable after backoff
	ErrProviderRateLimited = errors.New("provider rate limit exceeded")

	// the API key was rejected; never retried
	ErrProviderAuth = errors.New("provider authentication failed")

	// the provider is temporarily unable to serve; retryable
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// maps a non-200 provider response to the error taxonomy so callers can
// decide between retrying and failing the turn
func classifyStatus(statusCode int, body []byte) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrProviderAuth, statusCode, string(body))
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrProviderRateLimited, string(body))
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrProviderTimeout, statusCode)
	case statusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, statusCode, string(body))
	default:
		return fmt.Errorf("API request failed with status %d: %s", statusCode, string(body))
	}
}

// wraps transport-level failures, surfacing deadline expiry as a timeout
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	return fmt.Errorf("failed to send request: %w", err)
}

// reports whether the error is transient and worth another attempt
func isRetryable(err error) bool {
	return errors.Is(err, ErrProviderTimeout) ||
		errors.Is(err, ErrProviderRateLimited) ||
		errors.Is(err, ErrProviderUnavailable)
}
