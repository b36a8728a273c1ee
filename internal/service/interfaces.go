// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/arkanhakim/catatduit/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetPendingTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	AssignTransactionCategory(ctx context.Context, transactionID string, categoryID int64) error
	MarkTransactionPending(ctx context.Context, transactionID string) error

	// Category operations
	GetCategories(ctx context.Context, userID *int64) ([]model.Category, error)
	FindOrCreateCategory(ctx context.Context, name, icon string, userID *int64) (*model.Category, error)

	// Currency operations
	GetCurrency(ctx context.Context, userID int64, code string) (*model.Currency, error)
	CreateDefaultCurrency(ctx context.Context, userID int64) (*model.Currency, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Categorizer assigns a category to a transaction description.
type Categorizer interface {
	CategorizeTransaction(ctx context.Context, description string, userID *int64) (*model.Category, error)
	BatchCategorizeTransactions(ctx context.Context, descriptions []string, userID *int64) (map[string]*model.Category, error)
}
