package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sisworks/benchgate/internal/actions"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the resolved benchmark configuration",
	Long: `Prints the configuration resolved from environment variables and the .env
file, along with the artifact paths derived from it.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := actions.ShowConfig(); err != nil {
			return fmt.Errorf("failed to show config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
