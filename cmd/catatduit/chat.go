package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arkanhakim/catatduit/internal/chat"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one chat message and print the reply",
		Long: `Run a single chat turn against the transaction-entry pipeline,
e.g.:

  catatduit chat "Makan siang 25 ribu"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().Int64("user", 1, "user id to record transactions under")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetInt64("user")

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	client, _, err := buildFallbackClient()
	if err != nil {
		return err
	}
	svc := buildChatService(store, client)

	resp, err := svc.GenerateChatResponse(ctx, chat.Request{
		Message: strings.Join(args, " "),
		UserID:  userID,
	})
	if err != nil {
		return err
	}

	cmd.Println(resp.Message)
	if resp.Action != "" {
		cmd.Printf("(%s)\n", resp.Action)
	}
	return nil
}
