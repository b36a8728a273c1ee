// Package category cleans raw model output into canonical category names
// and persists them via find-or-create.
package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arkanhakim/catatduit/internal/model"
)

// Store is the persistence surface the resolver needs.
type Store interface {
	FindOrCreateCategory(ctx context.Context, name, icon string, userID *int64) (*model.Category, error)
}

// Resolver turns raw LLM category text into a persisted Category.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a resolver over the given store.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

// Resolve cleans and maps rawCategoryText to a canonical category name,
// then finds or creates the category record. Idempotent: the same cleaned
// name always yields the same record.
func (r *Resolver) Resolve(ctx context.Context, rawCategoryText string, userID *int64) (*model.Category, error) {
	cleaned := CleanModelOutput(rawCategoryText)
	name := MapToCanonical(cleaned)

	if name != cleaned {
		r.logger.Debug("mapped category text",
			"raw", rawCategoryText,
			"cleaned", cleaned,
			"canonical", name)
	}

	cat, err := r.store.FindOrCreateCategory(ctx, name, IconFor(name), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
	}
	return cat, nil
}
