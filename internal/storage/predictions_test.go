package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "recon.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTxn(id string, day time.Time) model.Transaction {
	return model.FromRaw(model.RawTransaction{
		ID:            id,
		Account:       "Chase Recovery",
		Description:   "INCOMING WIRE",
		Amount:        "$1,234.56",
		PaymentMethod: "wire_in",
		Date:          day.Format("2006-01-02"),
	})
}

func sampleResult() model.PredictionResult {
	return model.PredictionResult{
		Label:         model.LabelRecoveryWire,
		Method:        model.MethodRule,
		Justification: "Account is Chase Recovery",
		Confidence:    0.99,
	}
}

func TestSaveAndGetResult(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	txn := sampleTxn("txn-1", day)
	require.NoError(t, store.SaveResults(ctx, []model.Transaction{txn}, []model.PredictionResult{sampleResult()}))

	record, err := store.GetResult(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, model.LabelRecoveryWire, record.Result.Label)
	assert.Equal(t, model.MethodRule, record.Result.Method)
	assert.Equal(t, 0.99, record.Result.Confidence)
	assert.Equal(t, "Chase Recovery", record.Transaction.Account)
	assert.True(t, record.Transaction.AmountValid)
	assert.Equal(t, "1234.56", record.Transaction.Amount.StringFixed(2))
	assert.False(t, record.ClassifiedAt.IsZero())
}

func TestGetResultNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetResult(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveResultsReplacesAndKeepsHistory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	txn := sampleTxn("txn-1", day)

	first := sampleResult()
	require.NoError(t, store.SaveResults(ctx, []model.Transaction{txn}, []model.PredictionResult{first}))

	second := model.PredictionResult{
		Label:         model.LabelRisk,
		Method:        model.MethodRule,
		Justification: "Account is Chase Recovery but amount exceeds the large-wire threshold",
		Confidence:    0.99,
	}
	require.NoError(t, store.SaveResults(ctx, []model.Transaction{txn}, []model.PredictionResult{second}))

	record, err := store.GetResult(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, model.LabelRisk, record.Result.Label)

	var historyCount int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM prediction_history WHERE transaction_id = ?", "txn-1").Scan(&historyCount))
	assert.Equal(t, 2, historyCount)
}

func TestListByDate(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	day1 := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)

	txns := []model.Transaction{
		sampleTxn("txn-1", day1),
		sampleTxn("txn-2", day1),
		sampleTxn("txn-3", day2),
	}
	results := []model.PredictionResult{sampleResult(), sampleResult(), sampleResult()}
	require.NoError(t, store.SaveResults(ctx, txns, results))

	records, err := store.ListByDate(ctx, day1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "txn-1", records[0].Transaction.ID)
	assert.Equal(t, "txn-2", records[1].Transaction.ID)
}

func TestSaveResultsValidation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	err := store.SaveResults(ctx, []model.Transaction{{ID: "x"}}, nil)
	require.Error(t, err)

	err = store.SaveResults(ctx, nil, nil)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
}

func TestSaveResultsInvalidAmountStoredNull(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	txn := model.FromRaw(model.RawTransaction{ID: "txn-na", Amount: "N/A"})
	result := model.PredictionResult{Label: model.LabelUnknown, Method: model.MethodNone, Confidence: 0.5}
	require.NoError(t, store.SaveResults(ctx, []model.Transaction{txn}, []model.PredictionResult{result}))

	record, err := store.GetResult(ctx, "txn-na")
	require.NoError(t, err)
	assert.False(t, record.Transaction.AmountValid)
	assert.True(t, record.Transaction.Amount.IsZero())
}

func TestMigrateIdempotent(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}
