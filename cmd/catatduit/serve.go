package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/arkanhakim/catatduit/internal/server"
	"github.com/arkanhakim/catatduit/internal/worker"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background categorizer",
		Long: `Start the chat and categorization HTTP API together with the
background worker that categorizes pending transactions.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
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
	chatSvc := buildChatService(store, client)

	srv := server.New(server.Config{
		Addr:           viper.GetString("server.addr"),
		RequestsPerSec: viper.GetFloat64("server.requests_per_sec"),
		Burst:          viper.GetInt("server.burst"),
	}, chatSvc, categorizer, slog.Default())

	w := worker.New(store, categorizer,
		viper.GetDuration("worker.interval"),
		viper.GetInt("worker.batch_size"),
		slog.Default())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return w.Run(gctx) })

	slog.Info("✅ catatduit is up", "addr", viper.GetString("server.addr"))
	return g.Wait()
}
