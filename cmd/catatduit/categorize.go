package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize pending transactions",
		Long: `Run the classification pipeline over stored transactions that are
still waiting for a category. Keyword rules and the classification cache
are consulted before any model call.`,
		RunE: runCategorize,
	}

	cmd.Flags().Int("limit", 100, "maximum number of transactions to process")

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	client, kvStore, err := buildFallbackClient()
	if err != nil {
		return err
	}
	categorizer := buildCategorizer(store, client, kvStore)

	pending, err := store.GetPendingTransactions(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load pending transactions: %w", err)
	}
	if len(pending) == 0 {
		slog.Info("Nothing to categorize 🎉")
		return nil
	}

	slog.Info("Categorizing pending transactions", "count", len(pending))
	bar := progressbar.Default(int64(len(pending)), "categorizing")

	done := 0
	for i := range pending {
		txn := &pending[i]
		if ctx.Err() != nil {
			break
		}

		cat, err := categorizer.CategorizeTransaction(ctx, txn.Description, &txn.UserID)
		if err != nil {
			slog.Error("categorization failed",
				"transaction_id", txn.ID,
				"description", txn.Description,
				"error", err)
			_ = bar.Add(1)
			continue
		}

		if err := store.AssignTransactionCategory(ctx, txn.ID, cat.ID); err != nil {
			slog.Error("failed to assign category",
				"transaction_id", txn.ID,
				"error", err)
			_ = bar.Add(1)
			continue
		}

		done++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	slog.Info("✅ Categorization complete", "categorized", done, "total", len(pending))
	return nil
}
