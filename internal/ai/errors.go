package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard errors for AI model operations
var (
	// ErrUnsupportedModel is returned when an unsupported model type is requested
	ErrUnsupportedModel = errors.New("unsupported model type")

	// ErrInvalidConfiguration is returned when the model configuration is invalid
	ErrInvalidConfiguration = errors.New("invalid model configuration")

	// ErrAPICallFailed is returned when the API call to the model fails
	ErrAPICallFailed = errors.New("API call to model failed")

	// ErrContextDeadlineExceeded is returned when the call ran out of time
	ErrContextDeadlineExceeded = errors.New("context deadline exceeded")

	// ErrModelUnavailable is returned when the model is unavailable
	ErrModelUnavailable = errors.New("model temporarily unavailable")

	// ErrRateLimitExceeded is returned when the API rate limit is exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrEmptyResponse is returned when the model answered without any text
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrBlocked is returned when the provider refused the prompt
	ErrBlocked = errors.New("request blocked by provider")
)

// statusError maps a non-2xx provider status to one of the sentinel errors
func statusError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimitExceeded, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrModelUnavailable, message)
	default:
		return fmt.Errorf("%w: %s (status: %d)", ErrAPICallFailed, message, status)
	}
}
