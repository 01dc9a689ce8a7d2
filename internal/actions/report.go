// Package actions contains the core business logic for benchgate operations
package actions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sisworks/benchgate/internal/bench"
	"github.com/sisworks/benchgate/internal/report"
)

// ErrNoSuiteResults is returned when the input directory holds no suite
// artifacts to aggregate.
var ErrNoSuiteResults = errors.New("no suite results found")

// BuildReport reads the suite artifacts under inputDir and regenerates the
// aggregate report and HTML dashboard under outputDir.
func BuildReport(log logrus.FieldLogger, inputDir, outputDir string) error {
	suites, err := loadSuites(log, inputDir)
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(log, outputDir)
	if err != nil {
		return fmt.Errorf("preparing output directory: %w", err)
	}

	agg := report.BuildAggregate(suites)

	aggPath, err := writer.WriteAggregate(agg)
	if err != nil {
		return fmt.Errorf("writing aggregate report: %w", err)
	}

	dashPath, err := writer.WriteDashboard(agg, report.CollectMetricStats(suites))
	if err != nil {
		return fmt.Errorf("writing dashboard: %w", err)
	}

	fmt.Printf("📊 Aggregate report: %s\n", aggPath)
	fmt.Printf("📈 Dashboard:        %s\n", dashPath)

	return nil
}

// loadSuites reads every known suite artifact present under dir. Absent
// files are skipped; at least one artifact must exist.
func loadSuites(log logrus.FieldLogger, dir string) ([]*bench.TestSuite, error) {
	filenames := []string{
		report.PerformanceResultsFilename,
		report.DistributedResultsFilename,
	}

	suites := make([]*bench.TestSuite, 0, len(filenames))
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		suite, err := report.ReadSuite(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", filename, err)
		}

		log.WithFields(logrus.Fields{
			"suite": suite.SuiteName,
			"path":  path,
		}).Debug("loaded suite artifact")

		suites = append(suites, suite)
	}

	if len(suites) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSuiteResults, dir)
	}

	return suites, nil
}
