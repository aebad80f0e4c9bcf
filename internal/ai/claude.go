package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Default configuration values for Claude
const (
	defaultClaudeEndpoint    = "https://api.anthropic.com/v1/messages"
	defaultClaudeModel       = "claude-3-haiku-20240307"
	defaultClaudeMaxTokens   = 1024
	defaultClaudeTemperature = 0.2
	claudeAPIVersion         = "2023-06-01"
)

// ClaudeModel implements Model for Anthropic's messages API
type ClaudeModel struct {
	config ModelConfig
	client *resty.Client
}

func init() {
	RegisterModel(ModelClaude, NewClaudeModel)
}

// NewClaudeModel creates a new instance of the Claude model
func NewClaudeModel(config ModelConfig) (Model, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfiguration)
	}
	if config.Endpoint == "" {
		config.Endpoint = defaultClaudeEndpoint
	}
	if config.ModelName == "" {
		config.ModelName = defaultClaudeModel
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultClaudeMaxTokens
	}
	if config.Temperature == 0 {
		config.Temperature = defaultClaudeTemperature
	}

	client := newRestClient(config).
		SetHeader("x-api-key", config.APIKey).
		SetHeader("anthropic-version", claudeAPIVersion)

	return &ClaudeModel{config: config, client: client}, nil
}

// Name returns the name of the model
func (m *ClaudeModel) Name() string {
	return m.config.ModelName
}

// Type returns the type of model
func (m *ClaudeModel) Type() ModelType {
	return ModelClaude
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	Messages    []claudeMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type claudeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ProcessText processes a text prompt and returns a text response
func (m *ClaudeModel) ProcessText(ctx context.Context, prompt string) (*ModelResponse, error) {
	payload := claudeRequest{
		Model:       m.config.ModelName,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
		MaxTokens:   m.config.MaxTokens,
		Temperature: m.config.Temperature,
	}

	var result claudeResponse
	var apiErr claudeErrorResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		Post(m.config.Endpoint)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), apiErr.Error.Message)
	}

	var sb strings.Builder
	for _, content := range result.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, ErrEmptyResponse
	}

	return &ModelResponse{
		Content: sb.String(),
		Metadata: map[string]string{
			"model":       m.config.ModelName,
			"stop_reason": result.StopReason,
		},
	}, nil
}
