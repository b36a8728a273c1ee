package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/arkanhakim/catatduit/internal/chat"
	"github.com/arkanhakim/catatduit/internal/classifier"
	"github.com/arkanhakim/catatduit/internal/kv"
	"github.com/arkanhakim/catatduit/internal/llm"
	"github.com/arkanhakim/catatduit/internal/storage"
)

// defaultModels is the Groq fallback chain, most capable first.
var defaultModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
}

// openStorage opens the SQLite database from config.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "catatduit", "catatduit.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return storage.NewSQLiteStorage(dbPath)
}

// buildFallbackClient constructs the multi-model LLM client from config.
func buildFallbackClient() (*llm.FallbackClient, *kv.MemoryStore, error) {
	provider := viper.GetString("llm.provider")

	apiKey := viper.GetString("llm.api_key")
	if apiKey == "" {
		for _, env := range []string{"GROQ_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
			if v := os.Getenv(env); v != "" {
				apiKey = v
				break
			}
		}
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("LLM API key not found in config or environment")
	}

	client, err := llm.NewClient(llm.Config{
		Provider: provider,
		APIKey:   apiKey,
		BaseURL:  viper.GetString("llm.base_url"),
	})
	if err != nil {
		return nil, nil, err
	}

	models := viper.GetStringSlice("llm.models")
	if len(models) == 0 {
		models = defaultModels
	}

	cooldown := viper.GetDuration("llm.rate_limit_cooldown")
	if cooldown == 0 {
		cooldown = time.Minute
	}

	// One shared key-value store backs both the rate-limit flags and the
	// classification cache.
	store := kv.NewMemoryStore(24 * time.Hour)
	tracker := llm.NewRateLimitTracker(store, cooldown)

	fallback, err := llm.NewFallbackClient(client, tracker, llm.FallbackConfig{
		Models:      models,
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return fallback, store, nil
}

// buildCategorizer wires the classification pipeline.
func buildCategorizer(store classifier.Store, client *llm.FallbackClient, kvStore kv.Store) *classifier.Categorizer {
	ttl := viper.GetDuration("llm.cache_ttl")
	cache := classifier.NewCache(kvStore, ttl)
	return classifier.NewCategorizer(cache, client, store, slog.Default())
}

// buildChatService wires the chat-entry service.
func buildChatService(store *storage.SQLiteStorage, client *llm.FallbackClient) *chat.Service {
	parser := chat.NewParser(client, store, slog.Default())
	return chat.NewService(parser, store, client, slog.Default())
}
