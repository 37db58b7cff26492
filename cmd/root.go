package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dear-applicant",
	Short: "Dear Applicant - a kanban board for job applications",
	Long: `Dear Applicant tracks job applications on a kanban board: columns for
each stage, drag-style moves with a transition history behind them, and
a job board synced from the Simplify new-grad feed.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
}

func Execute() error {
	return rootCmd.Execute()
}
