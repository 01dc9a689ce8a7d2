package output

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/sisworks/benchgate/internal/bench"
)

func newTestFormatter() *SuiteFormatter {
	log := logrus.New()

	return NewSuiteFormatter(log, NewRenderer(log))
}

func performanceSuite() *bench.TestSuite {
	capable := true

	return &bench.TestSuite{
		SuiteName: bench.SuitePerformance,
		StartTime: 1700000000.0,
		EndTime:   1700000003.5,
		NodeCount: 2,
		Results: []bench.TestResult{
			{
				TestName:  bench.ScenarioAIInference,
				NodeID:    1,
				StartTime: 1700000000.0,
				EndTime:   1700000000.25,
				Success:   true,
				Metrics:   map[string]float64{"p99_latency_us": 21.7},
			},
			{
				TestName:     bench.ScenarioContextSwitch,
				NodeID:       2,
				StartTime:    1700000000.0,
				EndTime:      1700000000.5,
				Success:      false,
				Metrics:      map[string]float64{},
				ErrorMessage: "scheduler wedged",
			},
		},
		Summary: bench.Summary{
			TotalNodes:         2,
			ByzantineTolerance: 0,
			TotalTests:         2,
			PassedTests:        1,
			FailedTests:        1,
			ConsensusCapable:   &capable,
		},
	}
}

func TestFormatResults(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	out := newTestFormatter().FormatResults(performanceSuite())

	assert.Contains(t, out, "▸ Performance Benchmark Results")
	assert.Contains(t, out, bench.ScenarioAIInference)
	assert.Contains(t, out, "✓ PASS")
	assert.Contains(t, out, "✗ FAIL")
	assert.Contains(t, out, "p99 21.70µs")
	assert.Contains(t, out, "scheduler wedged")
	assert.Contains(t, out, "▸ Failed Test Details")
	assert.Contains(t, out, "Error: scheduler wedged")
}

func TestFormatResultsEmpty(t *testing.T) {
	assert.Equal(t, "No tests executed", newTestFormatter().FormatResults(&bench.TestSuite{}))
}

func TestFormatResultsTruncatesLongErrors(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	longError := strings.Repeat("x", 60)
	suite := &bench.TestSuite{
		SuiteName: bench.SuitePerformance,
		Results: []bench.TestResult{
			{TestName: bench.ScenarioThroughput, NodeID: 1, ErrorMessage: longError},
		},
	}

	out := newTestFormatter().FormatResults(suite)

	assert.Contains(t, out, strings.Repeat("x", 47)+"...")

	// The detail section keeps the full message.
	assert.Contains(t, out, longError)
}

func TestFormatSummary(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	out := newTestFormatter().FormatSummary(performanceSuite())

	assert.Contains(t, out, "▸ Summary")
	assert.Contains(t, out, "Total Tests")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Byzantine Tolerance")
	assert.Contains(t, out, "✓ Yes")
}

func TestHeadlineMetric(t *testing.T) {
	tests := []struct {
		name     string
		result   bench.TestResult
		expected string
	}{
		{
			name: "ai inference",
			result: bench.TestResult{
				TestName: bench.ScenarioAIInference,
				Metrics:  map[string]float64{"p99_latency_us": 21.7},
			},
			expected: "p99 21.70µs",
		},
		{
			name: "throughput",
			result: bench.TestResult{
				TestName: bench.ScenarioThroughput,
				Metrics:  map[string]float64{"ops_per_second": 1050000},
			},
			expected: "1050000 ops/s",
		},
		{
			name: "byzantine consensus",
			result: bench.TestResult{
				TestName: bench.ScenarioByzantineConsensus,
				Metrics:  map[string]float64{"consensus_time_ms": 4.5},
			},
			expected: "4.50ms",
		},
		{
			name:     "unknown scenario",
			result:   bench.TestResult{TestName: "mystery"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, headlineMetric(tt.result))
		})
	}
}

func TestNodeLabel(t *testing.T) {
	assert.Equal(t, "cluster", nodeLabel(0))
	assert.Equal(t, "7", nodeLabel(7))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "microseconds", duration: 500 * time.Microsecond, expected: "500µs"},
		{name: "milliseconds", duration: 250 * time.Millisecond, expected: "250ms"},
		{name: "seconds", duration: 1500 * time.Millisecond, expected: "1.5s"},
		{name: "minutes", duration: 90 * time.Second, expected: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
