package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stanleypangg/dear-applicant/internal/config"
	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/jobsync"
	"github.com/stanleypangg/dear-applicant/internal/logging"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one job-listing sync pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context) error {
	logging.Init(slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	syncer := jobsync.NewSyncer(db, cfg.Sync.FeedURL)
	count, err := syncer.Sync(ctx)
	if err != nil {
		return err
	}
	slog.Info("job sync complete", "listings", count)
	return nil
}
