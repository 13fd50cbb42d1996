// Package llm provides the generative fallback clients used when neither the
// rule engine nor the statistical model produces a confident label.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/model"
)

// Client defines the interface for generative providers.
type Client interface {
	// PredictLabel asks the model to pick one label from the known set for
	// the summarized transaction. The answer is returned verbatim; callers
	// validate it against the set themselves.
	PredictLabel(ctx context.Context, summary string, known []model.Label) (string, error)
}

// Config holds generative provider configuration.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewClient creates a generative client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return newAnthropicClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported generative provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

const systemPrompt = "You are a treasury operations assistant that labels bank transactions. " +
	"Respond with exactly one label from the allowed list and nothing else."

// buildPrompt renders the single-transaction labeling prompt. The allowed
// list is spelled out in full so the model has no room to invent labels.
func buildPrompt(summary string, known []model.Label) string {
	var b strings.Builder
	b.WriteString("Label this bank transaction for payroll treasury reconciliation.\n\n")
	b.WriteString("Transaction:\n")
	b.WriteString(summary)
	b.WriteString("\n\nAllowed labels:\n")
	for _, l := range known {
		b.WriteString("- ")
		b.WriteString(string(l))
		b.WriteByte('\n')
	}
	b.WriteString("\nAnswer with exactly one label from the list above. ")
	b.WriteString("If none fits, answer Unknown.")
	return b.String()
}

// retryOptions used by both providers for transient API failures.
func retryOptions() common.RetryOptions {
	return common.RetryOptions{MaxAttempts: 3}
}
