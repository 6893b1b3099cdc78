package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootWorkspace string

var rootCmd = &cobra.Command{
	Use:   "heatwatch",
	Short: "Industrial process monitoring dashboard",
	Long: `Heatwatch monitors a simulated Waste Heat Recovery System. Each cycle
it generates fresh telemetry, archives the CSVs, renders the culprit
signals plot, and asks a Claude vision model to rank the sensors most
likely responsible for process deviations.

With no arguments, launches the interactive dashboard where you can
start and stop monitoring and watch cycles land live.

Core capabilities:
- Periodic monitoring cycles that survive individual failures
- Timestamped archive copies of every artifact
- AI anomaly analysis of the rendered plot
- Run history in a per-workspace SQLite database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootWorkspace, "workspace", "", "Workspace directory (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
