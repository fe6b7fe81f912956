// Package openai provides an LLM service adapter for the OpenAI
// chat-completions API and the providers that speak its dialect
// (Moonshot Kimi, Zhipu ChatGLM, DeepSeek, OpenRouter).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL         = "https://api.openai.com"
	DefaultModel           = "gpt-4o"
	DefaultTimeout         = 120 * time.Second
	DefaultCompletionsPath = "/v1/chat/completions"
)

// Config holds configuration for an OpenAI-compatible LLM service.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com).
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o).
	Model string

	// CompletionsPath overrides the chat-completions path. ChatGLM
	// carries the version in its base URL, so its path has no /v1.
	CompletionsPath string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations over the chat-completions shape.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	path    string
}

// chatRequest is the chat-completions request format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat-completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.CompletionsPath == "" {
		cfg.CompletionsPath = DefaultCompletionsPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		path:    cfg.CompletionsPath,
	}, nil
}

// Generate produces a text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if opts.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	reqBody := chatRequest{
		Model:    s.model,
		Messages: messages,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+s.path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w: %v", domain.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w: %v", domain.ErrProviderTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %w: %s", domain.ErrProviderFatal, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w: no choices returned", domain.ErrProviderTransient)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// classifyStatus maps an HTTP failure onto the domain error taxonomy.
// Overload signatures are transient no matter the status code.
func classifyStatus(status int, body []byte) error {
	text := string(body)
	lower := strings.ToLower(text)
	if strings.Contains(lower, "overloaded") || strings.Contains(lower, "overload_error") {
		return fmt.Errorf("openai error (status %d): %w: %.200s", status, domain.ErrProviderTransient, text)
	}
	switch {
	case status == http.StatusTooManyRequests, status >= 500:
		return fmt.Errorf("openai error (status %d): %w: %.200s", status, domain.ErrProviderTransient, text)
	default:
		return fmt.Errorf("openai error (status %d): %w: %.200s", status, domain.ErrProviderFatal, text)
	}
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable with a minimal completion
// request. Chat-completions providers have no universal models
// endpoint, so a one-token call is the cheapest reliable check.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.Generate(ctx, "ping", driven.GenerateOptions{MaxTokens: 1})
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
