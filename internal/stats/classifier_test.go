package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuryops/recon/internal/common"
)

func trainingExamples() []Example {
	return []Example{
		{Description: "ORIG CO NAME GUSTO PAYROLL DES PAYMENT", Account: "Chase Operating", Label: "ACH"},
		{Description: "ORIG CO NAME ADP PAYROLL FEES", Account: "Chase Operating", Label: "ACH"},
		{Description: "ACH DEBIT RECEIVED PAYROLL FUNDING", Account: "PNC Operating", Label: "ACH"},
		{Description: "FEDWIRE CREDIT RECOVERY OF OVERPAYMENT", Account: "Chase Recovery", Label: "Recovery Wire"},
		{Description: "WIRE TRANSFER CREDIT RECOVERY REPAYMENT", Account: "Chase Recovery", Label: "Recovery Wire"},
		{Description: "INCOMING WIRE RETURN OF EXCESS FUNDS", Account: "PNC Wire In", Label: "Recovery Wire"},
	}
}

func TestNewEmbeddedCorpus(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(c.Classes()), 10)
}

func TestPredictLearnedPattern(t *testing.T) {
	c, err := NewFromExamples(trainingExamples())
	require.NoError(t, err)

	label, confidence, err := c.Predict(context.Background(), "ORIG CO NAME GUSTO PAYROLL DES PAYMENT", "Chase Operating")
	require.NoError(t, err)
	assert.Equal(t, "ACH", label)
	assert.Greater(t, confidence, 0.5)

	label, _, err = c.Predict(context.Background(), "FEDWIRE CREDIT RECOVERY OF OVERPAYMENT", "Chase Recovery")
	require.NoError(t, err)
	assert.Equal(t, "Recovery Wire", label)
}

func TestPredictEmptyTextAbstains(t *testing.T) {
	c, err := NewFromExamples(trainingExamples())
	require.NoError(t, err)

	label, confidence, err := c.Predict(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, label)
	assert.Zero(t, confidence)
}

func TestPredictCancelledContext(t *testing.T) {
	c, err := NewFromExamples(trainingExamples())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = c.Predict(ctx, "ORIG CO NAME GUSTO PAYROLL", "Chase Operating")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFromExamplesRequiresTwoClasses(t *testing.T) {
	_, err := NewFromExamples([]Example{
		{Description: "something", Label: "ACH"},
		{Description: "something else", Label: "ACH"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = NewFromExamples(nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestTokenizeDropsReferenceNumbers(t *testing.T) {
	terms := tokenize("CHECK PAID 00045121 CSC112233", "Chase Operating")
	assert.Contains(t, terms, "check")
	assert.Contains(t, terms, "csc112233")
	assert.NotContains(t, terms, "00045121")
}
