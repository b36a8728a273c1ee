package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeIncome represents money received by the user.
	TypeIncome TransactionType = "income"
	// TypeOutcome represents money spent by the user.
	TypeOutcome TransactionType = "outcome"
)

// CategorizationStatus tracks whether the async categorization job has
// processed a transaction yet.
type CategorizationStatus string

const (
	// StatusPending means the transaction is waiting for categorization.
	StatusPending CategorizationStatus = "pending"
	// StatusCompleted means a category has been assigned.
	StatusCompleted CategorizationStatus = "completed"
)

// Transaction represents a single recorded income or outcome entry.
type Transaction struct {
	Date         time.Time
	CreatedAt    time.Time
	ID           string
	Description  string
	CurrencyCode string
	Type         TransactionType
	Status       CategorizationStatus
	Amount       decimal.Decimal
	UserID       int64
	AccountID    int64
	CategoryID   *int64
}
