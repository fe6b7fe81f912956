// Package llm wires provider settings to a concrete LLM service and
// wraps every client with transparent retry on transient failures.
package llm

import (
	"fmt"

	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/llm/anthropic"
	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/llm/openai"
	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/llm/qwen"
	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

// New creates an LLM service for the given settings, wrapped in the
// retry decorator. The provider set is closed: an unrecognised name is
// a configuration error, not a request to guess.
func New(settings domain.LLMSettings) (driven.LLMService, error) {
	inner, err := newProvider(settings)
	if err != nil {
		return nil, err
	}
	return NewRetrying(inner, RetryConfig{}), nil
}

// newProvider builds the raw, non-retrying client.
func newProvider(settings domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.ProviderClaude:
		return anthropic.NewLLMService(anthropic.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.Endpoint,
			Model:   model(settings),
		})

	case domain.ProviderQwen:
		return qwen.NewLLMService(qwen.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.Endpoint,
			Model:   model(settings),
		})

	case domain.ProviderOpenAI, domain.ProviderKimi, domain.ProviderDeepSeek, domain.ProviderOpenRouter:
		return openai.NewLLMService(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: endpoint(settings),
			Model:   model(settings),
		})

	case domain.ProviderChatGLM:
		// ChatGLM's base URL already carries the API version.
		return openai.NewLLMService(openai.Config{
			APIKey:          settings.APIKey,
			BaseURL:         endpoint(settings),
			Model:           model(settings),
			CompletionsPath: "/chat/completions",
		})

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, settings.Provider)
	}
}

func endpoint(settings domain.LLMSettings) string {
	if settings.Endpoint != "" {
		return settings.Endpoint
	}
	return settings.Provider.DefaultEndpoint()
}

func model(settings domain.LLMSettings) string {
	if settings.Model != "" {
		return settings.Model
	}
	return settings.Provider.DefaultModel()
}
