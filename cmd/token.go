package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stanleypangg/dear-applicant/internal/config"
	"github.com/stanleypangg/dear-applicant/internal/database"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue an API bearer token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		db, err := database.InitDB(cmd.Context(), cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		token := uuid.NewString()
		if err := database.NewTokenRepo(db).Insert(cmd.Context(), token, args[0]); err != nil {
			return fmt.Errorf("failed to insert token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
