// internal/llm/adapter.go
package llm

import "context"

// Options carries per-call sampling parameters. The zero value lets the
// provider pick its own defaults.
type Options struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// Adapter is the provider-neutral contract for generative text calls. The
// pipeline never talks to a provider SDK directly.
type Adapter interface {
	// Generate sends a prompt to the model and returns the response text.
	Generate(ctx context.Context, model string, prompt string, opts Options) (string, error)

	// Name returns the adapter's identifier.
	Name() string
}
