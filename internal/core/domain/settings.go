package domain

const unknownDescription = "Unknown"

// Provider identifies an LLM provider for bookmark classification.
// Providers form a closed set: each maps to exactly one request/response
// shape in the llm adapters.
type Provider string

// Available providers. Kimi, ChatGLM, DeepSeek and OpenRouter speak the
// OpenAI chat-completions dialect and differ only in endpoint, auth and
// default model.
const (
	ProviderOpenAI     Provider = "openai"
	ProviderClaude     Provider = "claude"
	ProviderQwen       Provider = "qwen"
	ProviderKimi       Provider = "kimi"
	ProviderChatGLM    Provider = "chatglm"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOpenRouter Provider = "openrouter"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderClaude, ProviderQwen, ProviderKimi,
		ProviderChatGLM, ProviderDeepSeek, ProviderOpenRouter:
		return true
	default:
		return false
	}
}

// DefaultEndpoint returns the provider's default API base URL.
func (p Provider) DefaultEndpoint() string {
	switch p {
	case ProviderOpenAI:
		return "https://api.openai.com"
	case ProviderClaude:
		return "https://api.anthropic.com"
	case ProviderQwen:
		return "https://dashscope.aliyuncs.com"
	case ProviderKimi:
		return "https://api.moonshot.cn"
	case ProviderChatGLM:
		return "https://open.bigmodel.cn/api/paas/v4"
	case ProviderDeepSeek:
		return "https://api.deepseek.com"
	case ProviderOpenRouter:
		return "https://openrouter.ai/api"
	default:
		return ""
	}
}

// DefaultModel returns the provider's default model name.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderClaude:
		return "claude-3-5-sonnet-20241022"
	case ProviderQwen:
		return "qwen-max"
	case ProviderKimi:
		return "kimi-k2-0711-preview"
	case ProviderChatGLM:
		return "glm-4"
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderOpenRouter:
		return "anthropic/claude-3.5-sonnet"
	default:
		return ""
	}
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderClaude:
		return "Anthropic Claude"
	case ProviderQwen:
		return "Alibaba Qwen (DashScope)"
	case ProviderKimi:
		return "Moonshot Kimi"
	case ProviderChatGLM:
		return "Zhipu ChatGLM"
	case ProviderDeepSeek:
		return "DeepSeek"
	case ProviderOpenRouter:
		return "OpenRouter"
	default:
		return unknownDescription
	}
}

// LLMSettings holds provider configuration for a run.
type LLMSettings struct {
	// Provider selects the request/response shape.
	Provider Provider

	// APIKey authenticates against the provider (required).
	APIKey string

	// Endpoint overrides the provider's default base URL.
	Endpoint string

	// Model overrides the provider's default model.
	Model string
}

// IsConfigured returns true if the settings can produce a usable client.
func (s LLMSettings) IsConfigured() bool {
	return s.Provider.IsValid() && s.APIKey != ""
}

// Default pipeline tuning values.
const (
	// DefaultBatchSize bounds three-stage batches.
	DefaultBatchSize = 35

	// DefaultSinglePassBatchSize bounds single-pass batches.
	DefaultSinglePassBatchSize = 25

	// DefaultSubdivideThreshold is the folder size above which the
	// single-pass organizer attempts keyword subcategorization.
	DefaultSubdivideThreshold = 10

	// DefaultMaxSubfolders caps keyword subcategorization: more
	// non-empty buckets than this keeps the folder intact.
	DefaultMaxSubfolders = 5
)

// PipelineSettings holds tuning knobs for an organization run.
type PipelineSettings struct {
	// BatchSize bounds every produced batch.
	BatchSize int

	// ThreeStage selects the plan/batch/review pipeline over the
	// simpler single-pass mode.
	ThreeStage bool

	// EnableOptimization turns on the stage-3 review pass.
	EnableOptimization bool
}

// Normalize fills zero values with defaults.
func (s PipelineSettings) Normalize() PipelineSettings {
	if s.BatchSize <= 0 {
		if s.ThreeStage {
			s.BatchSize = DefaultBatchSize
		} else {
			s.BatchSize = DefaultSinglePassBatchSize
		}
	}
	return s
}
