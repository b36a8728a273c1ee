// Package worker runs the background categorization loop that picks up
// pending transactions and assigns them a category.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/arkanhakim/catatduit/internal/model"
	"github.com/arkanhakim/catatduit/internal/service"
)

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = 20
)

// Storage is the slice of persistence the worker needs.
type Storage interface {
	GetPendingTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	AssignTransactionCategory(ctx context.Context, transactionID string, categoryID int64) error
}

// Worker periodically categorizes pending transactions. Transaction entry
// never waits on a model call; this loop does the slow part afterwards.
type Worker struct {
	storage     Storage
	categorizer service.Categorizer
	logger      *slog.Logger
	interval    time.Duration
	batchSize   int
}

// New creates a worker. Zero interval and batch size use the defaults.
func New(storage Storage, categorizer service.Categorizer, interval time.Duration, batchSize int, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		storage:     storage,
		categorizer: categorizer,
		logger:      logger,
		interval:    interval,
		batchSize:   batchSize,
	}
}

// Run processes pending transactions until the context is canceled. One
// pass runs immediately so a restart doesn't wait a full interval.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if n := w.ProcessPending(ctx); n > 0 {
		w.logger.Info("categorized pending transactions", "count", n)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := w.ProcessPending(ctx); n > 0 {
				w.logger.Info("categorized pending transactions", "count", n)
			}
		}
	}
}

// ProcessPending categorizes one batch and returns how many transactions
// were completed. Individual failures are logged and skipped so one bad
// record cannot wedge the queue.
func (w *Worker) ProcessPending(ctx context.Context) int {
	pending, err := w.storage.GetPendingTransactions(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to load pending transactions", "error", err)
		return 0
	}

	done := 0
	for i := range pending {
		txn := &pending[i]
		if ctx.Err() != nil {
			return done
		}

		cat, err := w.categorizer.CategorizeTransaction(ctx, txn.Description, &txn.UserID)
		if err != nil {
			w.logger.Error("categorization failed",
				"transaction_id", txn.ID,
				"description", txn.Description,
				"error", err)
			continue
		}

		if err := w.storage.AssignTransactionCategory(ctx, txn.ID, cat.ID); err != nil {
			w.logger.Error("failed to assign category",
				"transaction_id", txn.ID,
				"category", cat.Name,
				"error", err)
			continue
		}
		done++
	}
	return done
}
