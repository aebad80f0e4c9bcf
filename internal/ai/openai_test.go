package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIModel_ProcessText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	model, err := NewOpenAIModel(ModelConfig{APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)

	resp, err := model.ProcessText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
}

func TestClaudeModel_ProcessText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ck-test", r.Header.Get("x-api-key"))
		assert.Equal(t, claudeAPIVersion, r.Header.Get("anthropic-version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	model, err := NewClaudeModel(ModelConfig{APIKey: "ck-test", Endpoint: srv.URL})
	require.NoError(t, err)

	resp, err := model.ProcessText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "end_turn", resp.Metadata["stop_reason"])
}
