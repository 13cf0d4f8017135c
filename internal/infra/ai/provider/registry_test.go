package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/boardroom-ai/internal/config"
	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

type namedGen string

func (n namedGen) Name() string                                     { return string(n) }
func (n namedGen) Generate(context.Context, string) (string, error) { return "", nil }

func fakeSpecs() []Spec {
	mk := func(name string, keys ...string) Spec {
		return Spec{
			Name:                name,
			RequiredCredentials: keys,
			New: func(map[string]string, Settings) (ai.Generator, error) {
				return namedGen(name), nil
			},
		}
	}
	return []Spec{mk("alpha", "ALPHA_KEY"), mk("beta", "BETA_KEY", "BETA_URL")}
}

func TestListAvailable(t *testing.T) {
	tests := []struct {
		name string
		env  config.MapEnv
		want []string
	}{
		{"none", config.MapEnv{}, []string{}},
		{"alpha only", config.MapEnv{"ALPHA_KEY": "a"}, []string{"alpha"}},
		{"beta partial", config.MapEnv{"BETA_KEY": "b"}, []string{}},
		{"empty value is absent", config.MapEnv{"ALPHA_KEY": ""}, []string{}},
		{"both", config.MapEnv{"ALPHA_KEY": "a", "BETA_KEY": "b", "BETA_URL": "u"}, []string{"alpha", "beta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.env, "", Settings{}, fakeSpecs()...)
			assert.Equal(t, tt.want, r.ListAvailable())
		})
	}
}

func TestCreateProvider_Default(t *testing.T) {
	r := NewRegistry(config.MapEnv{"BETA_KEY": "b", "BETA_URL": "u"}, "beta", Settings{}, fakeSpecs()...)

	gen, err := r.CreateProvider()

	require.NoError(t, err)
	assert.Equal(t, "beta", gen.Name())
}

func TestCreateProvider_EnvOverride(t *testing.T) {
	env := config.MapEnv{"ALPHA_KEY": "a", "BETA_KEY": "b", "BETA_URL": "u", config.ProviderEnv: "alpha"}
	r := NewRegistry(env, "beta", Settings{}, fakeSpecs()...)

	gen, err := r.CreateProvider()

	require.NoError(t, err)
	assert.Equal(t, "alpha", gen.Name())
}

func TestCreateProvider_FirstAvailableWhenUnset(t *testing.T) {
	r := NewRegistry(config.MapEnv{"BETA_KEY": "b", "BETA_URL": "u"}, "", Settings{}, fakeSpecs()...)

	gen, err := r.CreateProvider()

	require.NoError(t, err)
	assert.Equal(t, "beta", gen.Name())
}

func TestCreateProvider_MissingCredential(t *testing.T) {
	r := NewRegistry(config.MapEnv{"ALPHA_KEY": "a", "BETA_KEY": "b"}, "beta", Settings{}, fakeSpecs()...)

	_, err := r.CreateProvider()

	var ce *ai.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "beta", ce.Provider)
	assert.Equal(t, []string{"BETA_URL"}, ce.Missing)
	assert.Equal(t, []string{"alpha"}, ce.Available)
	assert.Contains(t, err.Error(), "BETA_URL")
	assert.Equal(t, ai.ErrorKind(""), ai.KindOf(err))
}

func TestCreateProvider_NothingConfigured(t *testing.T) {
	r := NewRegistry(config.MapEnv{}, "", Settings{}, fakeSpecs()...)

	_, err := r.CreateProvider()

	require.True(t, ai.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "ALPHA_KEY")
	assert.Contains(t, err.Error(), "available: none")
}

func TestCreateProvider_UnknownName(t *testing.T) {
	r := NewRegistry(config.MapEnv{"ALPHA_KEY": "a"}, "gamma", Settings{}, fakeSpecs()...)

	_, err := r.CreateProvider()

	var ce *ai.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "gamma", ce.Provider)
	assert.Equal(t, []string{"alpha"}, ce.Available)
}

func TestRegistry_ReadsEnvEveryCall(t *testing.T) {
	env := config.MapEnv{}
	r := NewRegistry(env, "alpha", Settings{}, fakeSpecs()...)

	_, err := r.CreateProvider()
	require.Error(t, err)

	env["ALPHA_KEY"] = "rotated-in"
	gen, err := r.CreateProvider()
	require.NoError(t, err)
	assert.Equal(t, "alpha", gen.Name())
}

func TestBuiltin(t *testing.T) {
	env := config.MapEnv{
		OpenAIKey:      "sk",
		OpenRouterKey:  "or",
		AzureKey:       "az",
		AzureEndpoint:  "https://example.openai.azure.com",
		AzureDeployKey: "gpt4o",
	}
	r := NewRegistry(env, "", Settings{Model: "gpt-4o-mini", MaxTokens: 1024})

	assert.Equal(t, []string{"openai", "openrouter", "azure"}, r.ListAvailable())
	for _, name := range r.ListAvailable() {
		env[config.ProviderEnv] = name
		gen, err := r.CreateProvider()
		require.NoError(t, err, name)
		assert.Equal(t, name, gen.Name())
	}
}
