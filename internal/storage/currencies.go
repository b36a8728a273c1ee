package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/arkanhakim/catatduit/internal/common"
	"github.com/arkanhakim/catatduit/internal/model"
)

// GetCurrency looks up one of the user's currencies by code.
func (s *SQLiteStorage) GetCurrency(ctx context.Context, userID int64, code string) (*model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("currency code cannot be empty")
	}

	query := `
		SELECT id, user_id, code, name
		FROM currencies
		WHERE user_id = ? AND code = ?`

	var cur model.Currency
	err := s.db.QueryRowContext(ctx, query, userID, code).Scan(
		&cur.ID, &cur.UserID, &cur.Code, &cur.Name,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("currency %s: %w", code, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query currency: %w", err)
	}

	return &cur, nil
}

// CreateDefaultCurrency provisions the user's IDR currency record. Safe to
// call when it already exists.
func (s *SQLiteStorage) CreateDefaultCurrency(ctx context.Context, userID int64) (*model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO currencies (user_id, code, name)
		VALUES (?, 'IDR', 'Rupiah')
		ON CONFLICT(user_id, code) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return nil, fmt.Errorf("failed to create default currency: %w", err)
	}

	slog.Info("provisioned default currency", "user_id", userID, "code", "IDR")
	return s.GetCurrency(ctx, userID, "IDR")
}
