package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arkanhakim/catatduit/internal/category"
	"github.com/arkanhakim/catatduit/internal/common"
	"github.com/arkanhakim/catatduit/internal/model"
	"github.com/arkanhakim/catatduit/internal/normalize"
)

// ModelClient generates a completion from a system and user prompt.
// *llm.FallbackClient satisfies this.
type ModelClient interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Store is the persistence surface the categorizer needs.
type Store interface {
	category.Store
	GetCategories(ctx context.Context, userID *int64) ([]model.Category, error)
}

// Categorizer assigns categories to transaction descriptions through a
// layered pipeline: keyword short-circuit, classification cache, then the
// model fallback chain. Model failures degrade to the catch-all category
// instead of surfacing an error.
type Categorizer struct {
	cache    *Cache
	client   ModelClient
	store    Store
	resolver *category.Resolver
	logger   *slog.Logger
	retry    common.RetryOptions
}

// NewCategorizer wires the classification pipeline together.
func NewCategorizer(cache *Cache, client ModelClient, store Store, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Categorizer{
		cache:    cache,
		client:   client,
		store:    store,
		resolver: category.NewResolver(store, logger),
		logger:   logger,
		retry: common.RetryOptions{
			MaxAttempts: 3,
		},
	}
}

// CategorizeTransaction resolves the category for one description.
func (c *Categorizer) CategorizeTransaction(ctx context.Context, description string, userID *int64) (*model.Category, error) {
	if name, ok := category.MatchSpecial(description); ok {
		c.logger.Debug("keyword short-circuit", "description", description, "category", name)
		return c.resolver.Resolve(ctx, name, userID)
	}

	normalized := normalize.Description(description)
	if normalized == "" {
		return c.resolver.Resolve(ctx, category.CatchAll, userID)
	}

	if name, ok := c.cache.Lookup(normalized); ok {
		c.logger.Debug("classification cache hit", "description", normalized, "category", name)
		return c.resolver.Resolve(ctx, name, userID)
	}

	raw, err := c.classifyWithModels(ctx, normalized, userID)
	if err != nil {
		// Model exhaustion is an expected degraded state; fall back to the
		// catch-all so the transaction still lands somewhere visible.
		c.logger.Warn("classification fell back to catch-all",
			"description", normalized,
			"error", err)
		return c.resolver.Resolve(ctx, category.CatchAll, userID)
	}

	cat, err := c.resolver.Resolve(ctx, raw, userID)
	if err != nil {
		return nil, err
	}

	// Only confident, non-catch-all answers are worth caching.
	if cat.Name != category.CatchAll {
		c.cache.Put(normalized, cat.Name)
	}
	return cat, nil
}

// classifyWithModels asks the fallback chain for a category name.
func (c *Categorizer) classifyWithModels(ctx context.Context, normalized string, userID *int64) (string, error) {
	var existing []string
	cats, err := c.store.GetCategories(ctx, userID)
	if err != nil {
		// Classification still works without the custom-category hint.
		c.logger.Warn("failed to load existing categories", "error", err)
	} else {
		for _, cat := range cats {
			existing = append(existing, cat.Name)
		}
	}

	raw, err := c.client.Generate(ctx, classifySystemPrompt(existing), normalized)
	if err != nil {
		if errors.Is(err, common.ErrAllModelsExhausted) {
			return "", err
		}
		return "", fmt.Errorf("classification request failed: %w", err)
	}
	return raw, nil
}

// BatchCategorizeTransactions categorizes each description sequentially,
// retrying transient failures. A description that still fails after
// retries is logged and skipped; the rest of the batch proceeds.
func (c *Categorizer) BatchCategorizeTransactions(ctx context.Context, descriptions []string, userID *int64) (map[string]*model.Category, error) {
	results := make(map[string]*model.Category, len(descriptions))

	for _, desc := range descriptions {
		if _, done := results[desc]; done {
			continue
		}

		var cat *model.Category
		err := common.WithRetry(ctx, func() error {
			var opErr error
			cat, opErr = c.CategorizeTransaction(ctx, desc, userID)
			return opErr
		}, c.retry)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			c.logger.Error("failed to categorize in batch",
				"description", desc,
				"error", err)
			continue
		}
		results[desc] = cat
	}

	return results, nil
}

// InvalidateDescription drops the cached classification for a description,
// used after a manual category correction.
func (c *Categorizer) InvalidateDescription(description string) {
	c.cache.Invalidate(normalize.Description(description))
}

// ClearCache drops every cached classification.
func (c *Categorizer) ClearCache() {
	c.cache.Clear()
}
