// Package llm provides natural language to SQL generation backed by
// multiple LLM providers.
package llm

import (
	"context"

	"github.com/kyleking/sql-advisor/internal/config"
)

// Service defines the interface for LLM operations
type Service interface {
	GenerateSQL(ctx context.Context, prompt string) (string, error)
	Configure(config Config) error
}

// Config represents LLM service configuration
type Config struct {
	Provider string `json:"provider"` // openai, anthropic, local, ollama
	Model    string `json:"model"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Provider constants for different LLM providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
	ProviderOllama    = "ollama"
)

// NewServiceFromConfig builds a configured Service from application config.
// When no provider is set, it returns a nil Service and no error: callers
// treat a nil Service as "AI unavailable" and rely on fallback generation.
func NewServiceFromConfig(cfg config.LLMConfig) (Service, error) {
	if cfg.Provider == "" {
		return nil, nil
	}

	clientCfg := Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	}

	client := NewClient(clientCfg)
	if err := client.Configure(clientCfg); err != nil {
		return nil, err
	}

	return client, nil
}
