package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "be brief", req.System)
		assert.NotZero(t, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "hello "},
				{"type": "text", "text": "world"},
			},
		})
	})

	result, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{System: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestGenerate_OverloadedIsTransient(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		w.Write([]byte(`{"type": "error", "error": {"type": "overloaded_error", "message": "Overloaded"}}`))
	})

	_, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}

func TestGenerate_AuthFailureIsFatal(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"type": "authentication_error", "message": "invalid key"}}`, http.StatusUnauthorized)
	})

	_, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFatal)
}

func TestGenerate_RateLimitedIsTransient(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"type": "rate_limit_error", "message": "slow down"}}`, http.StatusTooManyRequests)
	})

	_, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Write([]byte(`{"data": []}`))
	})

	require.NoError(t, svc.Ping(context.Background()))
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)
}
