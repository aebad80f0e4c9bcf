package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Default configuration values for Gemini
const (
	defaultGeminiEndpoint    = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel       = "gemini-1.5-flash"
	defaultGeminiMaxTokens   = 1024
	defaultGeminiTemperature = 0.2
)

// GeminiModel implements Model for Google's Gemini generateContent API
type GeminiModel struct {
	config ModelConfig
	client *resty.Client
}

func init() {
	RegisterModel(ModelGemini, NewGeminiModel)
}

// NewGeminiModel creates a new instance of the Gemini model
func NewGeminiModel(config ModelConfig) (Model, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfiguration)
	}
	if config.Endpoint == "" {
		config.Endpoint = defaultGeminiEndpoint
	}
	if config.ModelName == "" {
		config.ModelName = defaultGeminiModel
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultGeminiMaxTokens
	}
	if config.Temperature == 0 {
		config.Temperature = defaultGeminiTemperature
	}

	client := newRestClient(config).SetBaseURL(strings.TrimRight(config.Endpoint, "/"))

	return &GeminiModel{config: config, client: client}, nil
}

// Name returns the name of the model
func (m *GeminiModel) Name() string {
	return m.config.ModelName
}

// Type returns the type of model
func (m *GeminiModel) Type() ModelType {
	return ModelGemini
}

type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ProcessText processes a text prompt and returns a text response
func (m *GeminiModel) ProcessText(ctx context.Context, prompt string) (*ModelResponse, error) {
	payload := geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     m.config.Temperature,
			MaxOutputTokens: m.config.MaxTokens,
		},
	}

	var result geminiGenerateResponse
	var apiErr geminiErrorResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParam("key", m.config.APIKey).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/models/%s:generateContent", m.config.ModelName))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), apiErr.Error.Message)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrBlocked, result.PromptFeedback.BlockReason)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, ErrEmptyResponse
	}

	return &ModelResponse{
		Content: sb.String(),
		Metadata: map[string]string{
			"model":         m.config.ModelName,
			"finish_reason": result.Candidates[0].FinishReason,
		},
	}, nil
}
