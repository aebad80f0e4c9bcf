package ai

import (
	"context"
	"time"
)

// ModelType represents the type of AI model
type ModelType string

const (
	// ModelGemini represents Google's Gemini model
	ModelGemini ModelType = "gemini"

	// ModelClaude represents Anthropic's Claude model
	ModelClaude ModelType = "claude"

	// ModelGPT4 represents OpenAI's GPT-4 family
	ModelGPT4 ModelType = "gpt4"
)

// ModelResponse represents a standardized response from an AI model
type ModelResponse struct {
	// Content contains the primary text response from the model
	Content string

	// Metadata stores any additional information about the response
	Metadata map[string]string
}

// ModelConfig contains configuration for AI models
type ModelConfig struct {
	APIKey      string
	Endpoint    string
	ModelName   string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Model is a single request/response text completion backend
type Model interface {
	// Name returns the name of the model implementation
	Name() string

	// Type returns the type of model
	Type() ModelType

	// ProcessText sends one prompt and returns the model's reply. It never retries.
	ProcessText(ctx context.Context, prompt string) (*ModelResponse, error)
}

// ModelFactory creates a model from its configuration
type ModelFactory func(config ModelConfig) (Model, error)

var modelFactories = make(map[ModelType]ModelFactory)

// RegisterModel registers a model factory for a given model type
func RegisterModel(modelType ModelType, factory ModelFactory) {
	modelFactories[modelType] = factory
}

// GetModel returns a model instance for the specified model type
func GetModel(modelType ModelType, config ModelConfig) (Model, error) {
	factory, exists := modelFactories[modelType]
	if !exists {
		return nil, ErrUnsupportedModel
	}
	return factory(config)
}
