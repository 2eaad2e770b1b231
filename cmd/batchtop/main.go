package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/batchtop/cmd/batchtop/commands"
	"github.com/teranos/batchtop/logger"
)

var rootCmd = &cobra.Command{
	Use:   "batchtop",
	Short: "batchtop - operations console for a batch job/pipeline platform",
	Long: `batchtop - terminal operations console for a batch execution platform.

batchtop polls a platform's REST surface (jobs, pipelines, executions,
runtime metrics, scheduled jobs), renders the state, and lets an operator
trigger work and manage cron-style schedules.

Available commands:
  console - Start the interactive operations console
  version - Show build version

Examples:
  batchtop console                                # Console against the configured server
  batchtop console --server http://build-7:8080   # Console against a specific server
  batchtop console --interval 5                   # 5 second refresh cadence`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs on stderr")

	rootCmd.AddCommand(commands.ConsoleCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
