// Package provider abstracts the external language model used for
// classification fallback and clause evaluation. The pipeline depends only
// on the Provider interface so that tests can substitute deterministic
// implementations.
package provider

import "context"

// Provider generates a model completion for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
