package model

// Method indicates which tier produced a prediction.
type Method string

// Prediction method constants.
const (
	MethodRule        Method = "rule-based"
	MethodStatistical Method = "statistical"
	MethodGenerative  Method = "generative-fallback"
	MethodNone        Method = "none"
)

// PredictionResult is the terminal outcome of classifying one transaction.
type PredictionResult struct {
	Label         Label
	Method        Method
	Justification string
	Confidence    float64
}

// Matched reports whether a tier produced a usable label. An Unknown label
// is a legitimate terminal state, not an error; it signals human review.
func (r PredictionResult) Matched() bool {
	return r.Label != "" && r.Label != LabelUnknown
}
