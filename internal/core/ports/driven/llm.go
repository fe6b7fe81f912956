package driven

import "context"

// LLMService provides text generation for bookmark classification.
// Each implementation targets one provider's HTTP shape; the contract
// returned to callers is always plain text.
//
// Implementations classify their failures with the domain provider
// error sentinels so the retry layer can tell transient from fatal.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used before committing to a long run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// System is an optional system prompt.
	System string
}
