package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stanleypangg/dear-applicant/internal/config"
	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/identity"
	"github.com/stanleypangg/dear-applicant/internal/jobsync"
	"github.com/stanleypangg/dear-applicant/internal/logging"
	"github.com/stanleypangg/dear-applicant/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	logging.Init(slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Sync.Enabled {
		syncer := jobsync.NewSyncer(db, cfg.Sync.FeedURL)
		go runSyncLoop(ctx, syncer, cfg.Sync.Interval)
	}

	srv := server.New(db, cfg.Server.Addr, identity.NewTokenResolver(db))
	slog.Info("server starting", "addr", cfg.Server.Addr, "db", cfg.Database.Path)
	return srv.Start(ctx)
}

func runSyncLoop(ctx context.Context, syncer *jobsync.Syncer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		count, err := syncer.Sync(ctx)
		if err != nil {
			slog.Error("job sync failed", "error", err)
		} else {
			slog.Info("job sync complete", "listings", count)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
