package ai

import "context"

// Generator is a named text-generation backend. Generate takes the full prompt
// payload and returns the raw model text, or an *InvocationError.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
