package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 2048

	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

type Client struct {
	*openai.Client
	name      string
	Model     string
	MaxTokens int
}

// NewClient talks to api.openai.com.
func NewClient(apiKey, model string, maxTokens int) *Client {
	return NewClientWithConfig("openai", openai.DefaultConfig(apiKey), model, maxTokens)
}

// NewOpenRouterClient talks to the OpenAI-compatible OpenRouter endpoint.
func NewOpenRouterClient(apiKey, model string, maxTokens int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = OpenRouterBaseURL
	return NewClientWithConfig("openrouter", cfg, model, maxTokens)
}

func NewClientWithConfig(name string, cfg openai.ClientConfig, model string, maxTokens int) *Client {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), name: name, Model: model, MaxTokens: maxTokens}
}

func (c *Client) Name() string { return c.name }

// Generate sends prompt as a single user message and asks for a JSON object
// back. Failures are returned as *ai.InvocationError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", ai.NewInvocationError(c.name, statusCode(err), fmt.Errorf("failed to create chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", ai.NewInvocationError(c.name, 0, errors.New("no completion choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
