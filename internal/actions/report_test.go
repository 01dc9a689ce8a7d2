package actions

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisworks/benchgate/internal/bench"
	"github.com/sisworks/benchgate/internal/report"
)

func TestBuildReport(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	log := logrus.New()

	writer, err := report.NewWriter(log, inputDir)
	require.NoError(t, err)

	suite := &bench.TestSuite{
		SuiteName: bench.SuitePerformance,
		StartTime: 1700000000.0,
		EndTime:   1700000010.0,
		NodeCount: 5,
		Results: []bench.TestResult{
			{
				TestName: bench.ScenarioAIInference,
				NodeID:   1,
				Success:  true,
				Metrics:  map[string]float64{"p99_latency_us": 21.5},
			},
		},
		Summary: bench.Summary{TotalTests: 1, PassedTests: 1},
	}

	_, err = writer.WriteSuite(suite, report.PerformanceResultsFilename)
	require.NoError(t, err)

	require.NoError(t, BuildReport(log, inputDir, outputDir))

	assert.FileExists(t, filepath.Join(outputDir, report.AggregateFilename))
	assert.FileExists(t, filepath.Join(outputDir, report.DashboardFilename))
}

func TestBuildReportNoSuites(t *testing.T) {
	t.Parallel()

	err := BuildReport(logrus.New(), t.TempDir(), t.TempDir())
	require.ErrorIs(t, err, ErrNoSuiteResults)
}
