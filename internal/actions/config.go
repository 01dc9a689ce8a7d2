package actions

import (
	"fmt"
	"path/filepath"

	"github.com/sisworks/benchgate/internal/config"
	"github.com/sisworks/benchgate/internal/report"
)

// ShowConfig prints the resolved configuration together with the artifact
// paths derived from it.
func ShowConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(cfg.String())

	fmt.Println("\nArtifacts:")
	for _, name := range []string{
		report.PerformanceResultsFilename,
		report.DistributedResultsFilename,
		report.AggregateFilename,
		report.DashboardFilename,
	} {
		fmt.Printf("  %s\n", filepath.Join(cfg.OutputDir, name))
	}

	return nil
}
