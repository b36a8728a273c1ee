package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arkanhakim/catatduit/internal/common"
)

// FallbackConfig holds configuration for the multi-model fallback client.
type FallbackConfig struct {
	// Models is the ordered preference list, most capable first.
	Models      []string
	Temperature float64
	MaxTokens   int
}

// FallbackClient tries an ordered list of models against one provider,
// skipping models that are currently rate limited. Calls are sequential;
// there is no parallel racing of models.
type FallbackClient struct {
	client  Client
	tracker *RateLimitTracker
	logger  *slog.Logger
	cfg     FallbackConfig
}

// NewFallbackClient creates a fallback client over the given provider.
func NewFallbackClient(client Client, tracker *RateLimitTracker, cfg FallbackConfig, logger *slog.Logger) (*FallbackClient, error) {
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("%w: at least one model is required", common.ErrInvalidConfig)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 150
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackClient{
		client:  client,
		tracker: tracker,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Generate issues the prompt against each model in preference order and
// returns the first successful response text. Rate-limited failures set a
// cooldown for that model before moving on; any other failure is logged
// and the next model is tried. When every model fails the caller receives
// common.ErrAllModelsExhausted and maps it to a degraded result, never a
// hard error surfaced to the end user.
func (f *FallbackClient) Generate(ctx context.Context, system, user string) (string, error) {
	var lastErr error

	for _, model := range f.cfg.Models {
		if f.tracker.IsLimited(model) {
			f.logger.Debug("skipping rate-limited model", "model", model)
			continue
		}

		resp, err := f.client.Generate(ctx, Request{
			System:      system,
			User:        user,
			Model:       model,
			Temperature: f.cfg.Temperature,
			MaxTokens:   f.cfg.MaxTokens,
		})
		if err != nil {
			lastErr = err
			if IsRateLimitError(err) {
				cooldown := f.tracker.CooldownFromError(err)
				f.tracker.MarkLimited(model, cooldown)
				f.logger.Warn("model rate limited, trying next",
					"model", model,
					"cooldown", cooldown)
			} else {
				f.logger.Warn("model request failed, trying next",
					"model", model,
					"error", err)
			}
			continue
		}

		f.tracker.ObserveHeaders(model, resp.Headers)
		return resp.Text, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAllModelsExhausted, lastErr)
	}
	return "", common.ErrAllModelsExhausted
}
