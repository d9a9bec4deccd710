package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/parafile/parafile/internal/common"
	"github.com/parafile/parafile/internal/config"
	"github.com/parafile/parafile/internal/extract"
	"github.com/parafile/parafile/internal/llm"
	"github.com/parafile/parafile/internal/organize"
	"github.com/parafile/parafile/internal/rules"
	"github.com/parafile/parafile/internal/service"
	"github.com/parafile/parafile/internal/storage"
)

// initHistory opens the processing ledger with proper path expansion.
func initHistory(ctx context.Context) (service.History, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// rulesPath resolves where the organization rules live.
func rulesPath() string {
	path := viper.GetString("rules.path")
	if path == "" {
		path = config.DefaultRulesPath()
	}
	return config.ExpandPath(path)
}

// loadRules reads the rules document, creating it with defaults on
// first use.
func loadRules() (*rules.Document, string, error) {
	path := rulesPath()
	doc, err := rules.Load(path)
	if err != nil {
		return nil, path, err
	}
	return doc, path, nil
}

// saveRules persists an edited rules document.
func saveRules(path string, doc *rules.Document) error {
	if err := rules.Save(path, doc); err != nil {
		return fmt.Errorf("failed to save rules: %w", err)
	}
	return nil
}

// createGateway creates the LLM gateway based on configuration.
func createGateway() (*llm.Gateway, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai" // default provider
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	// Get API key based on provider
	switch provider {
	case "openai":
		// Check viper first, then environment variable
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	case "anthropic":
		// Check viper first, then environment variable
		apiKey := viper.GetString("llm.anthropic_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	gateway, err := llm.NewGateway(cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM gateway: %w", err)
	}

	return gateway, nil
}

// buildPipeline assembles the document pipeline from the rules document.
// The history ledger is optional; a broken database logs a warning and
// documents are still organized.
func buildPipeline(ctx context.Context, doc *rules.Document) (*organize.Pipeline, service.History, error) {
	gateway, err := createGateway()
	if err != nil {
		return nil, nil, err
	}

	history, err := initHistory(ctx)
	if err != nil {
		slog.Warn("processing history unavailable", "error", err)
		history = nil
	}

	cfg := organize.Config{
		WatchedFolder:      config.ExpandPath(doc.WatchedFolder),
		EnableOrganization: doc.EnableOrganization,
		Categories:         doc.Categories,
		Variables:          doc.Variables,
		Retry: common.RetryOptions{
			MaxAttempts: viper.GetInt("retry.max_attempts"),
			Delay:       viper.GetDuration("retry.delay"),
		},
	}

	pipeline := organize.New(extract.NewRegistry(), gateway, gateway, history, cfg)
	return pipeline, history, nil
}
