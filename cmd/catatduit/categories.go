package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		RunE:  runCategories,
	}

	cmd.Flags().Int64("user", 0, "include categories scoped to this user id")

	return cmd
}

func runCategories(cmd *cobra.Command, _ []string) error {
	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	var userID *int64
	if id, _ := cmd.Flags().GetInt64("user"); id != 0 {
		userID = &id
	}

	categories, err := store.GetCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	if len(categories) == 0 {
		cmd.Println("No categories yet. They are created as transactions get categorized.")
		return nil
	}

	for _, cat := range categories {
		scope := "global"
		if cat.UserID != nil {
			scope = fmt.Sprintf("user %d", *cat.UserID)
		}
		cmd.Printf("%4d  %-20s %-12s %s\n", cat.ID, cat.Name, cat.Icon, scope)
	}
	return nil
}
