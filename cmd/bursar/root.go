package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bursar",
	Short: "Review travel expense report PDFs against an external ticketing backend",
	Long: `Bursar reviews travel expense report PDFs. It extracts the report's
header, invoices, and summary with a language model, verifies totals, travel
periods, and the daily allowance against the backend's rate table, and writes
the approval decision back to the matching travel ticket.

Completed reviews are recorded to Postgres and the source PDF archived to
blob storage when those are configured; both are optional.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command with the signal-aware context.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"path to the configuration file (default config.yaml when present)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"enable debug logging",
	)
}
