package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arkanhakim/catatduit/internal/common"
	"github.com/arkanhakim/catatduit/internal/model"
)

// SaveTransaction inserts a new transaction record.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("transaction cannot be nil")
	}
	if txn.ID == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}
	if txn.Description == "" {
		return fmt.Errorf("transaction description cannot be empty")
	}

	query := `
		INSERT INTO transactions
			(id, user_id, account_id, description, amount, currency_code,
			 transaction_date, type, category_id, categorization_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.UserID,
		txn.AccountID,
		txn.Description,
		txn.Amount.StringFixed(2),
		txn.CurrencyCode,
		txn.Date,
		string(txn.Type),
		txn.CategoryID,
		string(txn.Status),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Debug("saved transaction", "id", txn.ID, "description", txn.Description)
	return nil
}

// GetTransactionByID returns one transaction or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("transaction ID cannot be empty")
	}

	query := `
		SELECT id, user_id, account_id, description, amount, currency_code,
		       transaction_date, type, category_id, categorization_status, created_at
		FROM transactions
		WHERE id = ?`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// GetPendingTransactions returns transactions awaiting categorization,
// oldest first.
func (s *SQLiteStorage) GetPendingTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, account_id, description, amount, currency_code,
		       transaction_date, type, category_id, categorization_status, created_at
		FROM transactions
		WHERE categorization_status = 'pending'
		ORDER BY created_at
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// AssignTransactionCategory sets the category and marks categorization
// completed.
func (s *SQLiteStorage) AssignTransactionCategory(ctx context.Context, transactionID string, categoryID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET category_id = ?, categorization_status = 'completed'
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, categoryID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to assign category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, common.ErrNotFound)
	}

	slog.Debug("assigned category", "transaction_id", transactionID, "category_id", categoryID)
	return nil
}

// MarkTransactionPending resets categorization so the worker re-processes
// the transaction (force recategorize).
func (s *SQLiteStorage) MarkTransactionPending(ctx context.Context, transactionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET categorization_status = 'pending'
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction pending: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, common.ErrNotFound)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var amount string
	var txnType, status string

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.AccountID,
		&txn.Description,
		&amount,
		&txn.CurrencyCode,
		&txn.Date,
		&txnType,
		&txn.CategoryID,
		&status,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}

	txn.Amount = parsed
	txn.Type = model.TransactionType(txnType)
	txn.Status = model.CategorizationStatus(status)
	return &txn, nil
}
