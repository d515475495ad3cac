package main

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/fetch"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/review"
)

// resolveConfig layers the environment over the optional config file and
// validates the result.
func resolveConfig(env *config.Config, path string, debug bool) (*config.Config, error) {
	var file config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		file = *loaded
	}

	merged := env.MergeWithDefaults(file)
	merged.Verbose = merged.Verbose || debug
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// buildRegistry creates one client per provider with an API key. LLM_MODEL
// pins every tier of the default provider.
func buildRegistry(ctx context.Context, cfg *config.Config) (*llm.Registry, error) {
	def, err := cfg.DefaultProvider()
	if err != nil {
		return nil, err
	}

	registry := llm.NewRegistry()
	for _, p := range cfg.ConfiguredProviders() {
		llmCfg, err := llm.ConfigFor(p)
		if err != nil {
			return nil, err
		}
		if p == def && cfg.LLMModel != "" {
			for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
				llmCfg = llmCfg.WithModel(tier, cfg.LLMModel)
			}
		}

		client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey(p))
		if err != nil {
			_ = registry.Close()
			return nil, fmt.Errorf("failed to create %s client: %w", p, err)
		}
		registry.Register(client)
	}

	if err := registry.SetDefault(def); err != nil {
		_ = registry.Close()
		return nil, err
	}
	observability.Logger().Info("LLM providers configured", "default", def, "providers", registry.Providers())
	return registry, nil
}

// buildReviewer wires the GitHub fetcher, the provider choices and, when
// DATABASE_URL is set, the report archive. The returned func releases the
// database pool.
func buildReviewer(ctx context.Context, cfg *config.Config, registry *llm.Registry) (*review.Reviewer, func(), error) {
	fetcher, err := fetch.NewCachedFetcher(fetch.NewGitHubClient(fetch.GitHubConfig{Token: cfg.GitHubToken}), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create repository cache: %w", err)
	}

	var opts []review.Option
	if cfg.ReviewProvider != "" {
		p, err := llm.ParseProvider(cfg.ReviewProvider)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, review.WithAnalysisProvider(p))
	}
	if cfg.CrossValidationProvider != "" {
		p, err := llm.ParseProvider(cfg.CrossValidationProvider)
		if err != nil {
			return nil, nil, err
		}
		if !registry.Has(p) {
			observability.Logger().Warn("cross-validation provider has no API key", "provider", p)
		}
		opts = append(opts, review.WithValidator(p))
	}

	cleanup := func() {}
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		opts = append(opts, review.WithArchive(database))
		cleanup = database.Close
	}

	return review.New(fetcher, registry, opts...), cleanup, nil
}
