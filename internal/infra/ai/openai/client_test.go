package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

func newTestClient(t *testing.T, model string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewClientWithConfig("openai", cfg, model, 512)
}

func TestGenerate_Success(t *testing.T) {
	var got openai.ChatCompletionRequest
	c := newTestClient(t, "gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"executiveSummary\":{\"title\":\"X\"}}"},"finish_reason":"stop"}]}`))
	})

	text, err := c.Generate(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"executiveSummary":{"title":"X"}}`, text)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	assert.Zero(t, got.MaxCompletionTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "the prompt", got.Messages[0].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
}

func TestGenerate_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var got openai.ChatCompletionRequest
	c := newTestClient(t, "o3-mini", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`))
	})

	_, err := c.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, 512, got.MaxCompletionTokens)
	assert.Zero(t, got.MaxTokens)
}

func TestGenerate_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ai.ErrorKind
	}{
		{"overloaded", http.StatusServiceUnavailable, `{"error":{"message":"overloaded","type":"server_error"}}`, ai.KindOverloaded},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, ai.KindAuth},
		{"quota", http.StatusTooManyRequests, `{"error":{"message":"quota","type":"insufficient_quota"}}`, ai.KindQuota},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad","type":"invalid_request_error"}}`, ai.KindOther},
		{"non json body", http.StatusServiceUnavailable, `upstream unavailable`, ai.KindOverloaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Generate(context.Background(), "p")

			var ie *ai.InvocationError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.want, ie.Kind)
			assert.Equal(t, tt.status, ie.StatusCode)
			assert.Equal(t, "openai", ie.Provider)
		})
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Generate(context.Background(), "p")

	assert.Equal(t, ai.KindOther, ai.KindOf(err))
}

func TestNewOpenRouterClient(t *testing.T) {
	c := NewOpenRouterClient("k", "", 0)
	assert.Equal(t, "openrouter", c.Name())
	assert.Equal(t, DefaultModel, c.Model)
	assert.Equal(t, DefaultMaxTokens, c.MaxTokens)
}
