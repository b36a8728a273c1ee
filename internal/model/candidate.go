package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedCandidate is one transaction extracted from a free-text chat
// message. Amount and CurrencyCode stay nil until the user has supplied
// them; a candidate is never persisted while either is missing.
type ParsedCandidate struct {
	Date         time.Time
	Description  string
	RawCurrency  string
	Type         TransactionType
	Amount       *decimal.Decimal
	CurrencyCode *string
}

// Complete reports whether the candidate has every field needed to create
// a transaction.
func (c *ParsedCandidate) Complete() bool {
	return c.Description != "" && c.Amount != nil && c.CurrencyCode != nil
}

// MissingAmount reports whether the amount still needs to be asked for.
func (c *ParsedCandidate) MissingAmount() bool {
	return c.Amount == nil
}

// MissingCurrency reports whether the currency is unresolved. RawCurrency
// keeps whatever token the user originally supplied so the clarification
// message can name it.
func (c *ParsedCandidate) MissingCurrency() bool {
	return c.CurrencyCode == nil
}
