package golfgenius

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned for a rejected or malformed API key.
	ErrAuthentication = errors.New("invalid API key or authentication failed")
	// ErrRateLimited is returned when the API keeps answering 429.
	ErrRateLimited = errors.New("API rate limit exceeded")
)

// APIError covers transport failures, non-success statuses and unreadable
// bodies.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// ValidationError means a response did not have the expected shape.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// retryable reports whether a failed request is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 0 || apiErr.StatusCode >= 500
	}
	return false
}
