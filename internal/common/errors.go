// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// LLM errors.
	ErrRateLimit          = errors.New("rate limit exceeded")
	ErrAllModelsExhausted = errors.New("all models exhausted")
	ErrMaxRetries         = errors.New("max retries exceeded")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}
