package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// ParseModelType maps a configuration value onto a ModelType
func ParseModelType(s string) (ModelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gemini":
		return ModelGemini, nil
	case "claude", "anthropic":
		return ModelClaude, nil
	case "gpt4", "openai":
		return ModelGPT4, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, s)
}

// newRestClient builds the HTTP client shared by the provider adapters.
// Retries are disabled: a failed completion is the caller's signal to fall back.
func newRestClient(config ModelConfig) *resty.Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// transportError normalises errors raised before a response was received
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return ErrContextDeadlineExceeded
	}
	return fmt.Errorf("%w: %v", ErrAPICallFailed, err)
}
