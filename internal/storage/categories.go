package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/arkanhakim/catatduit/internal/model"
)

// GetCategories returns all categories visible to the user: global ones
// plus the user's own when a user ID is given.
func (s *SQLiteStorage) GetCategories(ctx context.Context, userID *int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, user_id, created_at
		FROM categories
		WHERE user_id IS NULL`
	args := []any{}

	if userID != nil {
		query += ` OR user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.UserID, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// FindOrCreateCategory returns the existing category with this name for
// the (user, name) pair, creating it when absent. The icon is only used
// on creation.
func (s *SQLiteStorage) FindOrCreateCategory(ctx context.Context, name, icon string, userID *int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}

	existingQuery := `
		SELECT id, name, icon, user_id, created_at
		FROM categories
		WHERE name = ? AND COALESCE(user_id, 0) = COALESCE(?, 0)`

	var existing model.Category
	err := s.db.QueryRowContext(ctx, existingQuery, name, userID).Scan(
		&existing.ID, &existing.Name, &existing.Icon, &existing.UserID, &existing.CreatedAt,
	)
	if err == nil {
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	if icon == "" {
		icon = "money"
	}

	insertQuery := `
		INSERT INTO categories (name, icon, user_id, created_at)
		VALUES (?, ?, ?, ?)`

	now := time.Now()
	result, err := s.db.ExecContext(ctx, insertQuery, name, icon, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	category := &model.Category{
		ID:        id,
		Name:      name,
		Icon:      icon,
		UserID:    userID,
		CreatedAt: now,
	}

	slog.Info("created new category", "name", name, "id", id)
	return category, nil
}
