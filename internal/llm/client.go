package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// Request is a provider-neutral completion request: one system prompt and one
// user turn.
type Request struct {
	System string
	User   string
	// Model overrides the tier lookup when set.
	Model       string
	Tier        ModelTier
	MaxTokens   int
	Temperature float64
	// TopP is sent only when non-zero.
	TopP float64
	// Penalties are honored by OpenAI only.
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Result is the normalized outcome of a completion, tagged with the provider
// that produced it. Usage is nil when the provider reported none.
type Result struct {
	Provider Provider          `json:"provider"`
	Model    string            `json:"model"`
	Text     string            `json:"text"`
	Usage    *types.TokenUsage `json:"usage,omitempty"`
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete runs a single system+user completion
	Complete(ctx context.Context, req Request) (*Result, error)
	// Provider identifies the backing provider
	Provider() Provider
	// GetModel returns the provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// resolveModel picks the explicit model or the tier's model.
func resolveModel(config *Config, req Request) (string, error) {
	if req.Model != "" {
		return req.Model, nil
	}
	model := config.GetModel(req.Tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}
	return model, nil
}

// usage builds a TokenUsage, deriving the total when the provider omits it.
func usage(input, output, total int) *types.TokenUsage {
	if total == 0 {
		total = input + output
	}
	return &types.TokenUsage{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  total,
	}
}
