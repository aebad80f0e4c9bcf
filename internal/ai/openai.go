package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Default configuration values for OpenAI
const (
	defaultOpenAIEndpoint    = "https://api.openai.com/v1"
	defaultOpenAIModel       = "gpt-4o"
	defaultOpenAIMaxTokens   = 1024
	defaultOpenAITemperature = 0.2
)

// OpenAIModel implements Model for the OpenAI chat completions API
type OpenAIModel struct {
	config ModelConfig
	client *resty.Client
}

func init() {
	RegisterModel(ModelGPT4, NewOpenAIModel)
}

// NewOpenAIModel creates a new instance of the OpenAI model
func NewOpenAIModel(config ModelConfig) (Model, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfiguration)
	}
	if config.Endpoint == "" {
		config.Endpoint = defaultOpenAIEndpoint
	}
	if config.ModelName == "" {
		config.ModelName = defaultOpenAIModel
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultOpenAIMaxTokens
	}
	if config.Temperature == 0 {
		config.Temperature = defaultOpenAITemperature
	}

	client := newRestClient(config).
		SetBaseURL(strings.TrimRight(config.Endpoint, "/")).
		SetAuthToken(config.APIKey)

	return &OpenAIModel{config: config, client: client}, nil
}

// Name returns the name of the model
func (m *OpenAIModel) Name() string {
	return m.config.ModelName
}

// Type returns the type of model
func (m *OpenAIModel) Type() ModelType {
	return ModelGPT4
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ProcessText processes a text prompt and returns a text response
func (m *OpenAIModel) ProcessText(ctx context.Context, prompt string) (*ModelResponse, error) {
	payload := openAIChatRequest{
		Model:       m.config.ModelName,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		MaxTokens:   m.config.MaxTokens,
		Temperature: m.config.Temperature,
	}

	var result openAIChatResponse
	var apiErr openAIErrorResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), apiErr.Error.Message)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return &ModelResponse{
		Content: result.Choices[0].Message.Content,
		Metadata: map[string]string{
			"model":         m.config.ModelName,
			"finish_reason": result.Choices[0].FinishReason,
		},
	}, nil
}
