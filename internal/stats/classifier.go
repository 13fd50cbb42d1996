// Package stats implements the trained statistical fallback tier: a TF-IDF
// naive Bayes model over historical labeled transactions.
package stats

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/jbrukh/bayesian"
	"gopkg.in/yaml.v3"

	"github.com/treasuryops/recon/internal/common"
)

//go:embed corpus.yaml
var embeddedCorpus []byte

// Example is one labeled historical transaction used for training.
type Example struct {
	Description string `yaml:"description"`
	Account     string `yaml:"account"`
	Label       string `yaml:"label"`
}

type corpus struct {
	Examples []Example `yaml:"examples"`
}

// Classifier scores a transaction's text against the classes seen during
// training. Training happens once at construction; Predict is read-only and
// safe for concurrent use.
type Classifier struct {
	cl      *bayesian.Classifier
	classes []bayesian.Class
}

// New trains a classifier on the embedded historical corpus.
func New() (*Classifier, error) {
	return newFromYAML(embeddedCorpus)
}

// NewFromCorpus trains a classifier on an external YAML corpus, for
// deployments that retrain from fresh ledger exports.
func NewFromCorpus(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read training corpus %s: %w", path, err)
	}
	return newFromYAML(data)
}

func newFromYAML(data []byte) (*Classifier, error) {
	var c corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse training corpus: %w", err)
	}
	return NewFromExamples(c.Examples)
}

// NewFromExamples trains a classifier from labeled examples. At least two
// distinct labels are required; a single-class model cannot discriminate.
func NewFromExamples(examples []Example) (*Classifier, error) {
	seen := make(map[string]bool)
	var classes []bayesian.Class
	for _, ex := range examples {
		if ex.Label == "" || seen[ex.Label] {
			continue
		}
		seen[ex.Label] = true
		classes = append(classes, bayesian.Class(ex.Label))
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: training corpus needs at least two distinct labels, got %d",
			common.ErrInvalidConfig, len(classes))
	}

	cl := bayesian.NewClassifierTfIdf(classes...)
	for _, ex := range examples {
		if ex.Label == "" {
			continue
		}
		cl.Learn(tokenize(ex.Description, ex.Account), bayesian.Class(ex.Label))
	}
	cl.ConvertTermsFreqToTfIdf()

	return &Classifier{cl: cl, classes: classes}, nil
}

// Predict scores the transaction text and returns the most probable label
// with its normalized probability. An ambiguous score distribution still
// returns the top class; the orchestrator's threshold decides acceptance.
func (c *Classifier) Predict(ctx context.Context, description, account string) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	terms := tokenize(description, account)
	if len(terms) == 0 {
		return "", 0, nil
	}

	scores, best, _ := c.cl.ProbScores(terms)
	if best < 0 || best >= len(c.classes) {
		return "", 0, nil
	}
	return string(c.classes[best]), scores[best], nil
}

// Classes returns the labels the model was trained on.
func (c *Classifier) Classes() []string {
	out := make([]string, len(c.classes))
	for i, cl := range c.classes {
		out[i] = string(cl)
	}
	return out
}

// tokenize flattens description and account text into lowercase terms.
// Reference numbers vary per transaction, so digit runs longer than four are
// dropped to keep the vocabulary stable.
func tokenize(description, account string) []string {
	text := strings.ToLower(description + " " + account)
	text = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, text)

	var terms []string
	for _, f := range strings.Fields(text) {
		if len(f) > 4 && isDigits(f) {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
