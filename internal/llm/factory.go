package llm

import (
	"fmt"
	"strings"
)

// Config holds provider configuration for client construction.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// NewClient creates a provider client based on configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai", "groq":
		return newOpenAIClient(cfg.APIKey, cfg.BaseURL)
	case "anthropic":
		return newAnthropicClient(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
