package provider

import (
	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/azure"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/openai"
)

const (
	OpenAIKey      = "OPENAI_API_KEY"
	OpenRouterKey  = "OPENROUTER_API_KEY"
	AzureKey       = "AZURE_OPENAI_API_KEY"
	AzureEndpoint  = "AZURE_OPENAI_ENDPOINT"
	AzureDeployKey = "AZURE_OPENAI_DEPLOYMENT"
)

// Builtin lists the shipped providers in preference order.
func Builtin() []Spec {
	return []Spec{
		{
			Name:                "openai",
			RequiredCredentials: []string{OpenAIKey},
			New: func(c map[string]string, s Settings) (ai.Generator, error) {
				return openai.NewClient(c[OpenAIKey], s.Model, s.MaxTokens), nil
			},
		},
		{
			Name:                "openrouter",
			RequiredCredentials: []string{OpenRouterKey},
			New: func(c map[string]string, s Settings) (ai.Generator, error) {
				return openai.NewOpenRouterClient(c[OpenRouterKey], s.Model, s.MaxTokens), nil
			},
		},
		{
			Name:                azure.Name,
			RequiredCredentials: []string{AzureKey, AzureEndpoint, AzureDeployKey},
			New: func(c map[string]string, s Settings) (ai.Generator, error) {
				return azure.NewClient(c[AzureEndpoint], c[AzureKey], c[AzureDeployKey], s.MaxTokens)
			},
		},
	}
}
