// Package azure is the Azure OpenAI generator.
package azure

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

const Name = "azure"

type Client struct {
	client       *azopenai.Client
	deploymentID string
	maxTokens    int32
}

// NewClient creates a client bound to one deployment. The SDK's own retry
// policy is disabled; retries belong to the invoker.
func NewClient(endpoint, apiKey, deploymentID string, maxTokens int) (*Client, error) {
	return newClient(endpoint, apiKey, deploymentID, maxTokens, nil)
}

func newClient(endpoint, apiKey, deploymentID string, maxTokens int, transport policy.Transporter) (*Client, error) {
	opts := &azopenai.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry:     policy.RetryOptions{MaxRetries: -1},
			Transport: transport,
		},
	}
	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), opts)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &Client{client: client, deploymentID: deploymentID, maxTokens: int32(maxTokens)}, nil
}

func (c *Client) Name() string { return Name }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	opts := azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentID),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(prompt),
			},
		},
		ResponseFormat: &azopenai.ChatCompletionsJSONResponseFormat{},
	}
	if c.maxTokens > 0 {
		opts.MaxTokens = to.Ptr(c.maxTokens)
	}

	resp, err := c.client.GetChatCompletions(ctx, opts, nil)
	if err != nil {
		return "", ai.NewInvocationError(Name, statusCode(err), err)
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, nil
	}
	return "", ai.NewInvocationError(Name, 0, errors.New("no completion received from LLM"))
}

func statusCode(err error) int {
	var re *azcore.ResponseError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
