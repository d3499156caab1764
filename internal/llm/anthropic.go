package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ppiankov/capevent/internal/util"
)

const defaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicClassifier implements Classifier with the Messages API
type AnthropicClassifier struct {
	client anthropic.Client
	model  anthropic.Model
	config Config
}

// NewAnthropicClassifier creates a new Anthropic classifier
func NewAnthropicClassifier(config Config) (*AnthropicClassifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrAPIKeyRequired)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(util.NewHTTPClient(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	modelName := config.Model
	if modelName == "" {
		modelName = defaultAnthropicModel
	}

	return &AnthropicClassifier{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(modelName),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicClassifier) Name() string {
	return "anthropic"
}

// Classify sends the prompt and parses the first text block
func (p *AnthropicClassifier) Classify(ctx context.Context, title string) (*Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, timeoutOf(p.config, 30*time.Second))
	defer cancel()

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: int64(p.config.maxTokens()),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(title))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			verdict, err := ParseVerdict(block.Text)
			if err != nil {
				return nil, fmt.Errorf("anthropic: %w", err)
			}
			return verdict, nil
		}
	}
	return nil, fmt.Errorf("anthropic: no text block in response")
}
