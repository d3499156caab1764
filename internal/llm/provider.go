package llm

import (
	"context"
	"errors"

	"github.com/ppiankov/capevent/internal/model"
)

// ErrAPIKeyRequired is returned when a hosted provider has no API key
var ErrAPIKeyRequired = errors.New("API key required")

// Classifier defines the interface for inference overlay providers.
// A classifier proposes an event type for a headline; the pipeline decides
// whether to trust it.
type Classifier interface {
	// Name returns the provider name
	Name() string

	// Classify returns the provider's verdict for one headline title
	Classify(ctx context.Context, title string) (*Verdict, error)
}

// Verdict is a classifier's proposal for one headline
type Verdict struct {
	// Type is the proposed event type, upper-cased. It may fall outside the
	// taxonomy; callers check Type.Valid().
	Type model.EventType

	// Confidence is clamped to [0,1]
	Confidence float64

	// Name is the proposed primary organization, possibly empty
	Name string

	// Reasoning is a short free-text justification
	Reasoning string
}

// Config holds classifier configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 300,
	}
}

// ConfigFromModel converts the overlay section of the app config
func ConfigFromModel(c model.OverlayConfig) Config {
	return Config{
		Provider:   c.Provider,
		Model:      c.Model,
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Timeout:    c.Timeout,
		MaxTokens:  c.MaxTokens,
		HTTPProxy:  c.HTTPProxy,
		HTTPSProxy: c.HTTPSProxy,
		NoProxy:    c.NoProxy,
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 300
}
