package config

import "os"

// ProviderEnv is the variable that overrides ai.provider at call time.
const ProviderEnv = "AI_PROVIDER"

// EnvSource looks up credentials. The registry consults it on every call so
// a rotated or newly added key is picked up without a restart.
type EnvSource interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads the live process environment.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

// MapEnv is a fixed environment, mostly for tests.
type MapEnv map[string]string

func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

// ResolveProvider returns AI_PROVIDER when set, else the configured name.
func ResolveProvider(env EnvSource, configured string) string {
	if v, ok := env.Lookup(ProviderEnv); ok {
		return v
	}
	return configured
}
