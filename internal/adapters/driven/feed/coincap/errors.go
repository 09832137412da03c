package coincap

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// RateLimitError is returned when the API keeps answering 429.
type RateLimitError struct {
	RetryAfter time.Duration
	RequestID  string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("coincap: rate limit exceeded, retry after %s (request %s)", e.RetryAfter, e.RequestID)
}

// Unwrap lets callers match domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError represents a non-success API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coincap: API error %d: %s (URL: %s, request %s)", e.StatusCode, e.Message, e.URL, e.RequestID)
}

// Unwrap maps the status onto domain errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode == http.StatusBadRequest:
		return domain.ErrInvalidInput
	default:
		return domain.ErrFeedUnavailable
	}
}

// IsNotFound checks if the error indicates an unknown asset.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, domain.ErrNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the API key was rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// isRetryable reports whether another attempt may succeed.
func isRetryable(err error) bool {
	if IsRateLimited(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	var netErr *transportError
	return errors.As(err, &netErr)
}

// transportError wraps failures below HTTP, such as refused connections.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("coincap: %v", e.err)
}

func (e *transportError) Unwrap() []error {
	return []error{domain.ErrFeedUnavailable, e.err}
}
