package engine

import (
	"context"

	"github.com/treasuryops/recon/internal/model"
)

// MockStatisticalClassifier is a configurable StatisticalClassifier for
// tests. Responses are keyed by description.
type MockStatisticalClassifier struct {
	Responses map[string]MockStatResponse
	Err       error
	Calls     int
}

// MockStatResponse is one canned statistical answer.
type MockStatResponse struct {
	Label      string
	Confidence float64
}

// Predict implements StatisticalClassifier.
func (m *MockStatisticalClassifier) Predict(ctx context.Context, description, account string) (string, float64, error) {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if m.Err != nil {
		return "", 0, m.Err
	}
	resp, ok := m.Responses[description]
	if !ok {
		return "", 0, nil
	}
	return resp.Label, resp.Confidence, nil
}

// MockGenerativeClassifier is a configurable GenerativeClassifier for tests.
type MockGenerativeClassifier struct {
	Answer string
	Err    error
	Calls  int

	// LastSummary and LastKnown record the most recent request for
	// assertions on prompt construction.
	LastSummary string
	LastKnown   []model.Label
}

// PredictLabel implements GenerativeClassifier.
func (m *MockGenerativeClassifier) PredictLabel(ctx context.Context, summary string, known []model.Label) (string, error) {
	m.Calls++
	m.LastSummary = summary
	m.LastKnown = known
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}
