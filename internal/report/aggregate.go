package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sisworks/benchgate/internal/bench"
)

// Aggregate is the cross-suite validation report consumed by the release
// gate tooling and the dashboard.
type Aggregate struct {
	GeneratedAt string          `json:"generated_at"`
	TestSuites  []SuiteOverview `json:"test_suites"`
	Overall     OverallSummary  `json:"overall_summary"`
}

// SuiteOverview condenses one suite to its headline numbers.
type SuiteOverview struct {
	Name      string        `json:"name"`
	Duration  float64       `json:"duration"`
	NodeCount int           `json:"node_count"`
	Summary   bench.Summary `json:"summary"`
}

// OverallSummary sums test counts across all suites. OverallSuccessRate is
// a fraction in [0, 1], zero when no tests ran.
type OverallSummary struct {
	TotalTests         int     `json:"total_tests"`
	PassedTests        int     `json:"passed_tests"`
	FailedTests        int     `json:"failed_tests"`
	OverallSuccessRate float64 `json:"overall_success_rate"`
}

// BuildAggregate folds completed suites into one aggregate report.
func BuildAggregate(suites []*bench.TestSuite) *Aggregate {
	agg := &Aggregate{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		TestSuites:  make([]SuiteOverview, 0, len(suites)),
	}

	for _, suite := range suites {
		agg.TestSuites = append(agg.TestSuites, SuiteOverview{
			Name:      suite.SuiteName,
			Duration:  suite.Duration(),
			NodeCount: suite.NodeCount,
			Summary:   suite.Summary,
		})

		agg.Overall.TotalTests += suite.Summary.TotalTests
		agg.Overall.PassedTests += suite.Summary.PassedTests
		agg.Overall.FailedTests += suite.Summary.FailedTests
	}

	if agg.Overall.TotalTests > 0 {
		agg.Overall.OverallSuccessRate = float64(agg.Overall.PassedTests) / float64(agg.Overall.TotalTests)
	}

	return agg
}

// WriteAggregate writes the aggregate report and returns the path written.
func (w *Writer) WriteAggregate(agg *Aggregate) (string, error) {
	path := filepath.Join(w.dir, AggregateFilename)
	if err := writeJSON(path, agg); err != nil {
		return "", fmt.Errorf("writing aggregate report: %w", err)
	}

	w.log.WithField("path", path).Info("Wrote aggregate report")

	return path, nil
}
