package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/llm"
)

func envFrom(vars map[string]string) *config.Config {
	return config.FromEnv(func(k string) string { return vars[k] })
}

func TestResolveConfig_EnvOnly(t *testing.T) {
	cfg, err := resolveConfig(envFrom(map[string]string{"OPENAI_API_KEY": "sk-test"}), "", false)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.False(t, cfg.Verbose)
}

func TestResolveConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 8081,
		"llm_provider": "claude",
		"anthropic_api_key": "file-key",
		"openai_api_key": "file-openai"
	}`), 0o600))

	cfg, err := resolveConfig(envFrom(map[string]string{
		"OPENAI_API_KEY": "env-openai",
		"PORT":           "9000",
	}), path, true)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "claude", cfg.LLMProvider)
	assert.Equal(t, "file-key", cfg.AnthropicAPIKey)
	assert.Equal(t, "env-openai", cfg.OpenAIAPIKey)
	assert.True(t, cfg.Verbose)
}

func TestResolveConfig_Errors(t *testing.T) {
	_, err := resolveConfig(envFrom(nil), "", false)
	assert.ErrorContains(t, err, "no API key configured for openai")

	_, err = resolveConfig(envFrom(map[string]string{"OPENAI_API_KEY": "k"}), filepath.Join(t.TempDir(), "missing.json"), false)
	assert.ErrorContains(t, err, "failed to load config")
}

func TestBuildRegistry(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:     "anthropic",
		LLMModel:        "claude-pinned",
		OpenAIAPIKey:    "sk-openai",
		AnthropicAPIKey: "sk-ant",
	}

	registry, err := buildRegistry(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = registry.Close() }()

	assert.Equal(t, llm.ProviderAnthropic, registry.Default().Provider())
	assert.True(t, registry.Has(llm.ProviderOpenAI))
	assert.False(t, registry.Has(llm.ProviderGemini))

	for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
		assert.Equal(t, "claude-pinned", registry.Default().GetModel(tier))
	}

	openai, err := registry.Get(llm.ProviderOpenAI)
	require.NoError(t, err)
	assert.NotEqual(t, "claude-pinned", openai.GetModel(llm.TierLite))
}

func TestBuildRegistry_DefaultWithoutKey(t *testing.T) {
	_, err := buildRegistry(context.Background(), &config.Config{LLMProvider: "gemini", OpenAIAPIKey: "sk"})
	assert.ErrorIs(t, err, llm.ErrProviderUnavailable)
}

func TestBuildReviewer_ProviderChoices(t *testing.T) {
	registry := llm.NewRegistry(&llm.Fake{ProviderName: llm.ProviderOpenAI}, &llm.Fake{ProviderName: llm.ProviderAnthropic})

	reviewer, cleanup, err := buildReviewer(context.Background(), &config.Config{
		ReviewProvider:          "openai",
		CrossValidationProvider: "claude",
	}, registry)
	require.NoError(t, err)
	defer cleanup()
	assert.True(t, reviewer.CanCrossValidate())

	reviewer, cleanup, err = buildReviewer(context.Background(), &config.Config{}, registry)
	require.NoError(t, err)
	defer cleanup()
	assert.False(t, reviewer.CanCrossValidate())

	_, _, err = buildReviewer(context.Background(), &config.Config{ReviewProvider: "cohere"}, registry)
	assert.Error(t, err)
}
