package llm

import (
	"fmt"
	"strings"
)

// NewClassifier creates a classifier based on configuration.
// An empty provider returns nil: the overlay is disabled.
func NewClassifier(config Config) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "openai":
		return NewOpenAIClassifier(config)

	case "anthropic", "claude":
		return NewAnthropicClassifier(config)

	case "ollama":
		return NewOllamaClassifier(config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown overlay provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
