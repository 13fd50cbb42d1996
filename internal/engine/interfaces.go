package engine

import (
	"context"

	"github.com/treasuryops/recon/internal/model"
)

// StatisticalClassifier is the trained-model fallback tier. It accepts
// already-cleaned text and returns a candidate label with its probability.
// An empty label or an error both mean the tier abstains.
type StatisticalClassifier interface {
	Predict(ctx context.Context, description, account string) (label string, confidence float64, err error)
}

// GenerativeClassifier is the final fallback tier. The returned text is
// untrusted: the orchestrator re-validates it against the known label set
// before accepting it.
type GenerativeClassifier interface {
	PredictLabel(ctx context.Context, summary string, known []model.Label) (string, error)
}
