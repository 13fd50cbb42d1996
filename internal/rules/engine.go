// Package rules implements the deterministic, ordered rule engine that maps
// one bank transaction to at most one operational label.
package rules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/treasuryops/recon/internal/model"
)

// Config holds the tunable boundaries of the rule engine. The thresholds
// were adjusted experimentally in production, so they are configuration
// rather than constants.
type Config struct {
	// LargeWireThreshold: amounts strictly above this in the Chase Recovery
	// account are presumed misrouted Risk wires.
	LargeWireThreshold decimal.Decimal
	// SmallWireThreshold: wire-in amounts strictly below this are presumed
	// misrouted recovery wires.
	SmallWireThreshold decimal.Decimal
	// Now supplies "today" for the same-day deferral rule. Defaults to
	// time.Now.
	Now func() time.Time
}

// DefaultConfig returns the production rule boundaries.
func DefaultConfig() Config {
	return Config{
		LargeWireThreshold: decimal.NewFromInt(25000),
		SmallWireThreshold: decimal.NewFromInt(3500),
		Now:                time.Now,
	}
}

// Match is a successful rule evaluation: the label plus the human-readable
// justification shown to the reviewing operator.
type Match struct {
	Label         model.Label
	Justification string
}

// Engine evaluates the ordered rule table. It is pure and safe for
// concurrent use: evaluation reads only the transaction and the immutable
// table.
type Engine struct {
	cfg   Config
	table []rule
}

// NewEngine creates a rule engine with the given configuration. Zero
// thresholds fall back to the defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.LargeWireThreshold.IsZero() {
		cfg.LargeWireThreshold = def.LargeWireThreshold
	}
	if cfg.SmallWireThreshold.IsZero() {
		cfg.SmallWireThreshold = def.SmallWireThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	e := &Engine{cfg: cfg}
	e.table = buildTable(cfg)
	return e
}

// Classify evaluates a single transaction against the rule table, highest
// priority first, returning on the first rule that fires. The second return
// value is false when no rule matched, which signals escalation to the next
// prediction tier. Classify is total: malformed amounts, empty descriptions
// and unknown accounts never panic, they simply fail to match.
func (e *Engine) Classify(txn model.Transaction) (Match, bool) {
	return e.classify(txn, nil)
}

// ClassifyBatch classifies a full day's batch with the two-pass ICP pairing
// rule: the first pass collects the amounts of transactions carrying the
// definitive ICP funding signature, the second pass classifies every record
// with that amount set available, so the inbound member of an ICP pair
// resolves even though its own account does not identify it. The returned
// slice is index-aligned with txns; ok[i] is false where no rule fired.
func (e *Engine) ClassifyBatch(txns []model.Transaction) ([]Match, []bool) {
	paired := collectPairedAmounts(txns)

	matches := make([]Match, len(txns))
	ok := make([]bool, len(txns))
	for i, txn := range txns {
		matches[i], ok[i] = e.classify(txn, paired)
	}
	return matches, ok
}

func (e *Engine) classify(txn model.Transaction, paired map[string]struct{}) (Match, bool) {
	c := newEvalContext(txn, paired, e.cfg.Now())

	for _, r := range e.table {
		if !r.match(c) {
			continue
		}
		if r.deferred {
			// Intentional business rule: leave the transaction unlabeled
			// today and let it resolve on a later run.
			return Match{}, false
		}
		return Match{Label: r.label, Justification: r.justification}, true
	}
	return Match{}, false
}

// collectPairedAmounts is the first pass of the batch-level ICP rule: the
// outbound leg of an ICP funding pair is identifiable by account plus the
// TRANSFER FROM remark, and its amount identifies the inbound leg.
func collectPairedAmounts(txns []model.Transaction) map[string]struct{} {
	var paired map[string]struct{}
	for _, txn := range txns {
		if !txn.AmountValid {
			continue
		}
		if !isICPAccount(txn.AccountUpper()) {
			continue
		}
		if !hasICPFundingSignature(txn.DescriptionUpper()) {
			continue
		}
		if paired == nil {
			paired = make(map[string]struct{})
		}
		paired[txn.Amount.StringFixed(2)] = struct{}{}
	}
	return paired
}
