// Package config provides configuration loading and validation for the
// server and the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
)

// DefaultPort is the HTTP port used when none is configured.
const DefaultPort = 3000

// Config represents the service configuration. Values come from the
// environment, optionally layered over a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	Port int `json:"port,omitempty"`

	// LLM providers
	LLMProvider             string `json:"llm_provider,omitempty"`              // Default provider for the conversation
	LLMModel                string `json:"llm_model,omitempty"`                 // Overrides every tier of the default provider
	ReviewProvider          string `json:"review_provider,omitempty"`           // Provider for repository analyses
	CrossValidationProvider string `json:"cross_validation_provider,omitempty"` // Second provider for cross-validation
	OpenAIAPIKey            string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey         string `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey            string `json:"gemini_api_key,omitempty"`

	// Admin review
	GitHubToken string `json:"github_token,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL for the report archive

	// HTTP
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Debug logging
}

// Load reads the configuration from the process environment.
func Load() *Config {
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Unparseable numbers are left at zero.
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{
		LLMProvider:             getenv("LLM_PROVIDER"),
		LLMModel:                getenv("LLM_MODEL"),
		ReviewProvider:          getenv("REVIEW_PROVIDER"),
		CrossValidationProvider: getenv("CROSS_VALIDATION_PROVIDER"),
		OpenAIAPIKey:            getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:         getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:            firstNonEmpty(getenv("GEMINI_API_KEY"), getenv("GOOGLE_API_KEY")),
		GitHubToken:             getenv("GITHUB_TOKEN"),
		DatabaseURL:             getenv("DATABASE_URL"),
		AllowedOrigins:          splitList(getenv("ALLOWED_ORIGINS")),
	}
	if port, err := strconv.Atoi(strings.TrimSpace(getenv("PORT"))); err == nil {
		cfg.Port = port
	}
	if debug, err := strconv.ParseBool(getenv("DEBUG")); err == nil {
		cfg.Verbose = debug
	}
	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Environment values are merged over a config file this way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	strs := []struct {
		dst *string
		def string
	}{
		{&result.LLMProvider, defaults.LLMProvider},
		{&result.LLMModel, defaults.LLMModel},
		{&result.ReviewProvider, defaults.ReviewProvider},
		{&result.CrossValidationProvider, defaults.CrossValidationProvider},
		{&result.OpenAIAPIKey, defaults.OpenAIAPIKey},
		{&result.AnthropicAPIKey, defaults.AnthropicAPIKey},
		{&result.GeminiAPIKey, defaults.GeminiAPIKey},
		{&result.GitHubToken, defaults.GitHubToken},
		{&result.DatabaseURL, defaults.DatabaseURL},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = s.def
		}
	}

	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	// Bool fields: cannot distinguish unset from false, so true wins
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	provider, err := c.DefaultProvider()
	if err != nil {
		return fmt.Errorf("config error: 'llm_provider': %w", err)
	}
	if c.APIKey(provider) == "" {
		return fmt.Errorf("config error: no API key configured for %s", provider)
	}

	for name, raw := range map[string]string{
		"review_provider":           c.ReviewProvider,
		"cross_validation_provider": c.CrossValidationProvider,
	} {
		if raw == "" {
			continue
		}
		if _, err := llm.ParseProvider(raw); err != nil {
			return fmt.Errorf("config error: '%s': %w", name, err)
		}
	}

	return nil
}

// DefaultProvider resolves LLMProvider; empty means OpenAI.
func (c *Config) DefaultProvider() (llm.Provider, error) {
	if c.LLMProvider == "" {
		return llm.ProviderOpenAI, nil
	}
	return llm.ParseProvider(c.LLMProvider)
}

// APIKey returns the key configured for p.
func (c *Config) APIKey(p llm.Provider) string {
	switch p {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	case llm.ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// ConfiguredProviders lists every provider with an API key, default first.
func (c *Config) ConfiguredProviders() []llm.Provider {
	def, err := c.DefaultProvider()
	if err != nil {
		def = ""
	}
	var out []llm.Provider
	if def != "" && c.APIKey(def) != "" {
		out = append(out, def)
	}
	for _, p := range []llm.Provider{llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini} {
		if p != def && c.APIKey(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return ":" + strconv.Itoa(port)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
