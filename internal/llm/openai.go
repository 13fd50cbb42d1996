package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/model"
)

const defaultOpenAIModel = openai.GPT4o

// openAIClient implements Client using the OpenAI chat completions API.
type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	m := cfg.Model
	if m == "" {
		m = defaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 64
	}

	return &openAIClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       m,
		temperature: float32(cfg.Temperature),
		maxTokens:   maxTokens,
	}, nil
}

// PredictLabel implements Client.
func (c *openAIClient) PredictLabel(ctx context.Context, summary string, known []model.Label) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(summary, known),
			},
		},
	}

	var answer string
	err := common.WithRetry(ctx, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return &common.RetryableError{Err: fmt.Errorf("openai API call failed: %w", err), Retryable: true}
		}
		if len(resp.Choices) == 0 {
			return &common.RetryableError{Err: fmt.Errorf("openai returned no choices"), Retryable: false}
		}
		answer = resp.Choices[0].Message.Content
		return nil
	}, retryOptions())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
