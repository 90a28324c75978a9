package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a generation provider based on configuration.
// An empty provider name returns (nil, nil): generation disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint.
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434/v1"
		}
		if config.APIKey == "" {
			config.APIKey = "ollama" // Placeholder; Ollama ignores the key
		}
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, ollama)", config.Provider)
	}
}
