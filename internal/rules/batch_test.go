package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuryops/recon/internal/model"
)

func TestClassifyBatchICPPairing(t *testing.T) {
	e := testEngine()
	yesterday := fixedNow.AddDate(0, 0, -1)

	outbound := txn(
		"Chase International Contractor Payment",
		"TRANSFER FROM ACCOUNT000000807737908,REMARK=JPMORGAN ACCESS TRANSFER",
		"wire out", "10000.00", yesterday)
	inbound := txn(
		"Chase Operations",
		"REMARK=JPMORGAN ACCESS TRANSFER",
		"wire in", "10000.00", yesterday)
	unrelated := txn(
		"Chase Operations",
		"REMARK=JPMORGAN ACCESS TRANSFER",
		"wire in", "123.45", yesterday)

	matches, ok := e.ClassifyBatch([]model.Transaction{outbound, inbound, unrelated})
	require.Len(t, matches, 3)

	require.True(t, ok[0])
	assert.Equal(t, model.LabelICPFunding, matches[0].Label)

	// The inbound leg resolves only because the batch pass collected the
	// paired amount.
	require.True(t, ok[1])
	assert.Equal(t, model.LabelICPFunding, matches[1].Label)

	// Same remark, different amount: not part of the pair.
	assert.False(t, ok[2])
}

func TestClassifySingleModeMissesInboundPair(t *testing.T) {
	e := testEngine()
	inbound := txn(
		"Chase Operations",
		"REMARK=JPMORGAN ACCESS TRANSFER",
		"wire in", "10000.00", fixedNow.AddDate(0, 0, -1))

	// Without batch context the inbound leg legitimately fails to resolve,
	// demonstrating the two-phase requirement.
	_, ok := e.Classify(inbound)
	assert.False(t, ok)
}

func TestClassifyBatchIsIndexAligned(t *testing.T) {
	e := testEngine()
	yesterday := fixedNow.AddDate(0, 0, -1)

	txns := []model.Transaction{
		txn("PNC Wire In", "WIRE TRANSFER IN", "wire in", "14800.00", yesterday),
		txn("Chase Operations", "NO MARKERS HERE", "ach", "50.00", yesterday),
		txn("Chase Operations", "LOCKBOX DEPOSIT", "ach", "50.00", yesterday),
	}

	matches, ok := e.ClassifyBatch(txns)
	require.Len(t, matches, 3)
	assert.True(t, ok[0])
	assert.Equal(t, model.LabelRisk, matches[0].Label)
	assert.False(t, ok[1])
	assert.True(t, ok[2])
	assert.Equal(t, model.LabelLockbox, matches[2].Label)
}

func TestClassifyBatchSkipsInvalidAmountsInPairingScan(t *testing.T) {
	e := testEngine()
	yesterday := fixedNow.AddDate(0, 0, -1)

	bad := model.FromRaw(model.RawTransaction{
		Account:     "Chase International Contractor Payment",
		Description: "TRANSFER FROM ACCOUNT000000807737908,REMARK=JPMORGAN ACCESS TRANSFER",
		Amount:      "not-a-number",
		Date:        yesterday.Format("2006-01-02"),
	})
	inbound := txn("Chase Operations", "REMARK=JPMORGAN ACCESS TRANSFER", "wire in", "0.00", yesterday)

	matches, ok := e.ClassifyBatch([]model.Transaction{bad, inbound})
	require.Len(t, matches, 2)
	// The malformed outbound leg still matches on its own account signature.
	assert.True(t, ok[0])
	assert.Equal(t, model.LabelICPFunding, matches[0].Label)
	assert.False(t, ok[1])
}
