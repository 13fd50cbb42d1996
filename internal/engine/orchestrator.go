// Package engine composes the rule engine with the statistical and
// generative fallback tiers under a confidence threshold policy.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/treasuryops/recon/internal/model"
	"github.com/treasuryops/recon/internal/rules"
)

// Config holds the escalation policy. The thresholds were tuned
// experimentally in production, so they are configuration rather than
// constants.
type Config struct {
	// RuleThreshold gates acceptance of a rule match; RuleConfidence is the
	// score assigned to one. Rules are treated as ground truth, so the
	// defaults make every rule match terminal.
	RuleThreshold  float64
	RuleConfidence float64
	// StatisticalThreshold is the minimum model probability accepted from
	// the statistical tier.
	StatisticalThreshold float64
	// GenerativeConfidence is assigned to a validated generative answer;
	// UnknownConfidence to the terminal Unknown outcome.
	GenerativeConfidence float64
	UnknownConfidence    float64
	// Per-tier call timeouts. A timeout is an abstention, not an error.
	StatisticalTimeout time.Duration
	GenerativeTimeout  time.Duration
}

// DefaultConfig returns the production escalation policy.
func DefaultConfig() Config {
	return Config{
		RuleThreshold:        0.9,
		RuleConfidence:       0.99,
		StatisticalThreshold: 0.7,
		GenerativeConfidence: 0.75,
		UnknownConfidence:    0.5,
		StatisticalTimeout:   5 * time.Second,
		GenerativeTimeout:    30 * time.Second,
	}
}

// Orchestrator escalates each transaction through rules, the statistical
// classifier, and the generative classifier until a tier produces an
// acceptable label. Either fallback tier may be nil, in which case it
// permanently abstains.
type Orchestrator struct {
	rules      *rules.Engine
	stats      StatisticalClassifier
	generative GenerativeClassifier
	cfg        Config
	logger     *slog.Logger
}

// New creates an orchestrator. logger may be nil.
func New(ruleEngine *rules.Engine, stats StatisticalClassifier, generative GenerativeClassifier, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		rules:      ruleEngine,
		stats:      stats,
		generative: generative,
		cfg:        cfg,
		logger:     logger,
	}
}

// ClassifyTransaction classifies a single transaction. It is total: every
// input produces a result, with Unknown as the terminal fallback.
func (o *Orchestrator) ClassifyTransaction(ctx context.Context, txn model.Transaction) model.PredictionResult {
	if match, ok := o.rules.Classify(txn); ok {
		if result, accepted := o.acceptRuleMatch(txn, match); accepted {
			return result
		}
	}
	return o.escalate(ctx, txn)
}

// ClassifyBatch classifies a full batch. Rule evaluation runs first over
// the whole batch so the two-pass pairing rule sees every record; only the
// residue escalates to the fallback tiers. A single record's tier failure
// never fails the batch.
func (o *Orchestrator) ClassifyBatch(ctx context.Context, txns []model.Transaction) []model.PredictionResult {
	return o.ClassifyBatchWithProgress(ctx, txns, nil)
}

// ClassifyBatchWithProgress is ClassifyBatch with a per-record callback,
// invoked after each transaction resolves. onResult may be nil.
func (o *Orchestrator) ClassifyBatchWithProgress(ctx context.Context, txns []model.Transaction, onResult func(model.Transaction, model.PredictionResult)) []model.PredictionResult {
	matches, matched := o.rules.ClassifyBatch(txns)

	results := make([]model.PredictionResult, len(txns))
	for i, txn := range txns {
		if matched[i] {
			if result, accepted := o.acceptRuleMatch(txn, matches[i]); accepted {
				results[i] = result
				if onResult != nil {
					onResult(txn, result)
				}
				continue
			}
		}
		results[i] = o.escalate(ctx, txn)
		if onResult != nil {
			onResult(txn, results[i])
		}
	}
	return results
}

func (o *Orchestrator) acceptRuleMatch(txn model.Transaction, match rules.Match) (model.PredictionResult, bool) {
	if o.cfg.RuleConfidence <= o.cfg.RuleThreshold {
		return model.PredictionResult{}, false
	}
	o.logger.Debug("rule matched",
		"transaction_id", txn.ID,
		"label", match.Label,
		"justification", match.Justification)
	return model.PredictionResult{
		Label:         match.Label,
		Method:        model.MethodRule,
		Justification: match.Justification,
		Confidence:    o.cfg.RuleConfidence,
	}, true
}

// escalate runs the statistical then generative tiers. Any tier failure is
// an abstention, logged and skipped, never surfaced to the caller.
func (o *Orchestrator) escalate(ctx context.Context, txn model.Transaction) model.PredictionResult {
	if result, ok := o.tryStatistical(ctx, txn); ok {
		return result
	}
	if result, ok := o.tryGenerative(ctx, txn); ok {
		return result
	}
	return model.PredictionResult{
		Label:         model.LabelUnknown,
		Method:        model.MethodNone,
		Justification: "No tier produced a confident label; needs manual review",
		Confidence:    o.cfg.UnknownConfidence,
	}
}

func (o *Orchestrator) tryStatistical(ctx context.Context, txn model.Transaction) (model.PredictionResult, bool) {
	if o.stats == nil {
		return model.PredictionResult{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.StatisticalTimeout)
	defer cancel()

	label, confidence, err := o.stats.Predict(callCtx, txn.Description, txn.Account)
	if err != nil {
		o.logger.Warn("statistical tier abstained",
			"transaction_id", txn.ID,
			"error", err)
		return model.PredictionResult{}, false
	}
	if label == "" || confidence <= o.cfg.StatisticalThreshold {
		o.logger.Debug("statistical tier below threshold",
			"transaction_id", txn.ID,
			"label", label,
			"confidence", confidence)
		return model.PredictionResult{}, false
	}

	return model.PredictionResult{
		Label:         model.Label(label),
		Method:        model.MethodStatistical,
		Justification: fmt.Sprintf("Statistical model predicted %q with probability %.2f", label, confidence),
		Confidence:    confidence,
	}, true
}

func (o *Orchestrator) tryGenerative(ctx context.Context, txn model.Transaction) (model.PredictionResult, bool) {
	if o.generative == nil {
		return model.PredictionResult{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.GenerativeTimeout)
	defer cancel()

	known := model.AllLabels()
	answer, err := o.generative.PredictLabel(callCtx, Summarize(txn), known)
	if err != nil {
		o.logger.Warn("generative tier abstained",
			"transaction_id", txn.ID,
			"error", err)
		return model.PredictionResult{}, false
	}

	// The model is untrusted: accept its answer only if it is a member of
	// the known label set.
	candidate := model.Label(strings.TrimSpace(answer))
	if !model.Known(candidate) || candidate == model.LabelUnknown {
		o.logger.Warn("generative tier returned unusable label",
			"transaction_id", txn.ID,
			"answer", answer)
		return model.PredictionResult{}, false
	}

	return model.PredictionResult{
		Label:         candidate,
		Method:        model.MethodGenerative,
		Justification: fmt.Sprintf("Generative model selected %q from the known label set", candidate),
		Confidence:    o.cfg.GenerativeConfidence,
	}, true
}

// Summarize renders a transaction as the one-line summary handed to the
// generative tier.
func Summarize(txn model.Transaction) string {
	date := ""
	if !txn.Date.IsZero() {
		date = txn.Date.Format("2006-01-02")
	}
	amount := ""
	if txn.AmountValid {
		amount = "$" + txn.Amount.StringFixed(2)
	}
	return fmt.Sprintf("account: %s | amount: %s | date: %s | payment method: %s | description: %s",
		txn.Account, amount, date, txn.PaymentMethod, txn.Description)
}
