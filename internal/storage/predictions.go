package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/model"
)

// Record is one persisted classification: the transaction as classified plus
// the result and when it was recorded.
type Record struct {
	Transaction  model.Transaction
	Result       model.PredictionResult
	ClassifiedAt time.Time
}

// SaveResults persists a classified batch. Re-classifying a transaction
// replaces its current row and appends to the history table, so the latest
// label is queryable while the audit trail keeps every run. txns and results
// must be index-aligned.
func (s *Store) SaveResults(ctx context.Context, txns []model.Transaction, results []model.PredictionResult) error {
	if len(txns) != len(results) {
		return fmt.Errorf("transactions and results must be index-aligned: %d vs %d", len(txns), len(results))
	}
	if len(txns) == 0 {
		return common.ErrNoTransactions
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO predictions (transaction_id, date, account, description, payment_method,
			amount, amount_valid, label, method, justification, confidence, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(transaction_id) DO UPDATE SET
			label = excluded.label,
			method = excluded.method,
			justification = excluded.justification,
			confidence = excluded.confidence,
			classified_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = upsert.Close() }()

	history, err := tx.PrepareContext(ctx, `
		INSERT INTO prediction_history (transaction_id, label, method, justification, confidence)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer func() { _ = history.Close() }()

	for i, txn := range txns {
		result := results[i]

		var date any
		if !txn.Date.IsZero() {
			date = txn.Date
		}
		var amount any
		if txn.AmountValid {
			amount = txn.Amount.StringFixed(2)
		}

		if _, err := upsert.ExecContext(ctx, txn.ID, date, txn.Account, txn.Description,
			string(txn.PaymentMethod), amount, txn.AmountValid,
			string(result.Label), string(result.Method), result.Justification, result.Confidence); err != nil {
			return fmt.Errorf("failed to save prediction for %s: %w", txn.ID, err)
		}
		if _, err := history.ExecContext(ctx, txn.ID,
			string(result.Label), string(result.Method), result.Justification, result.Confidence); err != nil {
			return fmt.Errorf("failed to save history for %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// GetResult returns the latest classification for a transaction.
func (s *Store) GetResult(ctx context.Context, transactionID string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT transaction_id, date, account, description, payment_method,
			amount, amount_valid, label, method, justification, confidence, classified_at
		FROM predictions WHERE transaction_id = ?`, transactionID)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("prediction for %s: %w", transactionID, common.ErrNotFound)
	}
	return record, err
}

// ListByDate returns every classification whose transaction date falls on the
// given calendar day, in transaction-date order.
func (s *Store) ListByDate(ctx context.Context, day time.Time) ([]Record, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, date, account, description, payment_method,
			amount, amount_valid, label, method, justification, confidence, classified_at
		FROM predictions
		WHERE date >= ? AND date < ?
		ORDER BY date, transaction_id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		record        Record
		date          sql.NullTime
		amount        sql.NullString
		paymentMethod string
		label         string
		method        string
	)
	err := row.Scan(&record.Transaction.ID, &date, &record.Transaction.Account,
		&record.Transaction.Description, &paymentMethod, &amount, &record.Transaction.AmountValid,
		&label, &method, &record.Result.Justification, &record.Result.Confidence,
		&record.ClassifiedAt)
	if err != nil {
		return Record{}, err
	}

	if date.Valid {
		record.Transaction.Date = date.Time
	}
	if amount.Valid {
		if d, derr := decimal.NewFromString(amount.String); derr == nil {
			record.Transaction.Amount = d
		}
	}
	record.Transaction.PaymentMethod = model.PaymentMethod(paymentMethod)
	record.Result.Label = model.Label(label)
	record.Result.Method = model.Method(method)
	return record, nil
}
