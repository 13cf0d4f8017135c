// Package provider selects the model backend from environment credentials.
package provider

import (
	"github.com/bryanwahyu/boardroom-ai/internal/config"
	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

// Settings are the non-secret generation options shared by all providers.
type Settings struct {
	Model     string
	MaxTokens int
}

// Factory builds a Generator from the credentials named in Spec.
type Factory func(creds map[string]string, s Settings) (ai.Generator, error)

type Spec struct {
	Name                string
	RequiredCredentials []string
	New                 Factory
}

// Registry never caches credential presence; every call re-reads env.
type Registry struct {
	env             config.EnvSource
	defaultProvider string
	settings        Settings
	specs           []Spec
}

func NewRegistry(env config.EnvSource, defaultProvider string, settings Settings, specs ...Spec) *Registry {
	if len(specs) == 0 {
		specs = Builtin()
	}
	return &Registry{env: env, defaultProvider: defaultProvider, settings: settings, specs: specs}
}

// Default is the provider CreateProvider will try: AI_PROVIDER, then the
// configured name, then the first provider with credentials.
func (r *Registry) Default() string {
	if name := config.ResolveProvider(r.env, r.defaultProvider); name != "" {
		return name
	}
	if avail := r.ListAvailable(); len(avail) > 0 {
		return avail[0]
	}
	return ""
}

// ListAvailable returns the providers whose credentials are all present,
// in registration order.
func (r *Registry) ListAvailable() []string {
	out := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		if _, missing := r.credentials(s); len(missing) == 0 {
			out = append(out, s.Name)
		}
	}
	return out
}

// CreateProvider builds the default provider or returns *ai.ConfigurationError.
func (r *Registry) CreateProvider() (ai.Generator, error) {
	name := r.Default()
	if name == "" {
		return nil, &ai.ConfigurationError{Missing: r.allCredentials()}
	}

	spec, ok := r.lookup(name)
	if !ok {
		return nil, &ai.ConfigurationError{Provider: name, Available: r.ListAvailable()}
	}

	creds, missing := r.credentials(spec)
	if len(missing) > 0 {
		return nil, &ai.ConfigurationError{Provider: name, Missing: missing, Available: r.ListAvailable()}
	}

	gen, err := spec.New(creds, r.settings)
	if err != nil {
		return nil, &ai.ConfigurationError{Provider: name, Available: r.ListAvailable(), Err: err}
	}
	return gen, nil
}

func (r *Registry) lookup(name string) (Spec, bool) {
	for _, s := range r.specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

func (r *Registry) credentials(s Spec) (map[string]string, []string) {
	creds := make(map[string]string, len(s.RequiredCredentials))
	var missing []string
	for _, key := range s.RequiredCredentials {
		v, ok := r.env.Lookup(key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		creds[key] = v
	}
	return creds, missing
}

func (r *Registry) allCredentials() []string {
	var out []string
	for _, s := range r.specs {
		out = append(out, s.RequiredCredentials...)
	}
	return out
}
