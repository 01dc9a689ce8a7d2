package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sisworks/benchgate/internal/actions"
	"github.com/sisworks/benchgate/internal/config"
)

var (
	// Report command flags
	reportInputDir  string
	reportOutputDir string
	reportVerbose   bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rebuild the aggregate report and dashboard from suite artifacts",
	Long: `Read previously written suite artifacts and regenerate the aggregate
JSON report and the HTML dashboard without re-running any benchmarks.

Example:
  benchgate report
  benchgate report --input results --output site`,
	RunE: func(_ *cobra.Command, _ []string) error {
		log := newLogger(reportVerbose)

		return actions.BuildReport(log, reportInputDir, reportOutputDir)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportInputDir, "input", config.DefaultOutputDir, "Directory containing suite artifacts")
	reportCmd.Flags().StringVar(&reportOutputDir, "output", config.DefaultOutputDir, "Directory for the regenerated report")
	reportCmd.Flags().BoolVar(&reportVerbose, "verbose", false, "Verbose output")
}
