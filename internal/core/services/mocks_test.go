package services

import (
	"context"
	"fmt"

	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService, replaying scripted responses
// in order. A nil error paired with each response is the default.
type mockLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)

	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "", fmt.Errorf("mockLLM: no scripted response for call %d", i)
}

func (m *mockLLM) ModelName() string           { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                { return nil }

// mockPromptStore implements driven.PromptStore over a fixed map.
// Missing names return an error so callers exercise their fallbacks.
type mockPromptStore struct {
	prompts map[string]string
	reloads int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("prompt %q not found", name)
}

func (m *mockPromptStore) Reload() { m.reloads++ }
