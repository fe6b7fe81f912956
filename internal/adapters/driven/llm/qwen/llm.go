// Package qwen provides an LLM service adapter for Alibaba's DashScope
// text-generation API.
package qwen

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
	DefaultBaseURL = "https://dashscope.aliyuncs.com"
	DefaultModel   = "qwen-max"
	DefaultTimeout = 120 * time.Second

	generationPath = "/api/v1/services/aigc/text-generation/generation"
)

// Config holds configuration for the DashScope LLM service.
type Config struct {
	// APIKey is the DashScope API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://dashscope.aliyuncs.com).
	BaseURL string

	// Model is the LLM model to use (default: qwen-max).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the DashScope API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// generationRequest is the DashScope request format. Messages nest
// under input; tuning knobs under parameters.
type generationRequest struct {
	Model      string               `json:"model"`
	Input      generationInput      `json:"input"`
	Parameters generationParameters `json:"parameters"`
}

type generationInput struct {
	Messages []generationMessage `json:"messages"`
}

type generationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generationParameters struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generationResponse is the DashScope response format. A failed call
// still returns 200-shaped JSON with a code field set.
type generationResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	RequestID string `json:"request_id"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NewLLMService creates a new DashScope LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("qwen: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
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
	}, nil
}

// Generate produces a text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := make([]generationMessage, 0, 2)
	if opts.System != "" {
		messages = append(messages, generationMessage{Role: "system", Content: opts.System})
	}
	messages = append(messages, generationMessage{Role: "user", Content: prompt})

	reqBody := generationRequest{
		Model: s.model,
		Input: generationInput{Messages: messages},
		Parameters: generationParameters{
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+generationPath,
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

	var genResp generationResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if genResp.Code != "" {
		return "", fmt.Errorf("qwen error %s: %w: %s", genResp.Code, domain.ErrProviderFatal, genResp.Message)
	}
	if genResp.Output.Text == "" {
		return "", fmt.Errorf("qwen: %w: empty output text", domain.ErrProviderTransient)
	}

	return genResp.Output.Text, nil
}

// classifyStatus maps an HTTP failure onto the domain error taxonomy.
func classifyStatus(status int, body []byte) error {
	text := string(body)
	lower := strings.ToLower(text)
	if strings.Contains(lower, "overloaded") || strings.Contains(lower, "overload_error") {
		return fmt.Errorf("qwen error (status %d): %w: %.200s", status, domain.ErrProviderTransient, text)
	}
	switch {
	case status == http.StatusTooManyRequests, status >= 500:
		return fmt.Errorf("qwen error (status %d): %w: %.200s", status, domain.ErrProviderTransient, text)
	default:
		return fmt.Errorf("qwen error (status %d): %w: %.200s", status, domain.ErrProviderFatal, text)
	}
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable with a minimal generation
// request.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.Generate(ctx, "ping", driven.GenerateOptions{MaxTokens: 1})
	if err != nil {
		return fmt.Errorf("qwen: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
