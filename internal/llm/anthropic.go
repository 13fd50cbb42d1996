package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/model"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// anthropicClient implements Client using the Anthropic Messages API.
type anthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is required", common.ErrMissingConfig)
	}

	m := cfg.Model
	if m == "" {
		m = defaultAnthropicModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 64
	}

	return &anthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     anthropic.Model(m),
		maxTokens: maxTokens,
	}, nil
}

// PredictLabel implements Client.
func (c *anthropicClient) PredictLabel(ctx context.Context, summary string, known []model.Label) (string, error) {
	prompt := buildPrompt(summary, known)

	var answer string
	err := common.WithRetry(ctx, func() error {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return &common.RetryableError{Err: fmt.Errorf("anthropic API call failed: %w", err), Retryable: true}
		}
		if len(message.Content) == 0 {
			return &common.RetryableError{Err: fmt.Errorf("anthropic returned no content"), Retryable: false}
		}
		answer = message.Content[0].Text
		return nil
	}, retryOptions())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
