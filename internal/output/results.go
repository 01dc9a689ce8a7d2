package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sisworks/benchgate/internal/bench"
)

// SuiteFormatter formats benchmark suites as terminal tables.
type SuiteFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSuiteFormatter creates a suite table formatter.
func NewSuiteFormatter(log logrus.FieldLogger, renderer Renderer) *SuiteFormatter {
	return &SuiteFormatter{
		log:      log.WithField("component", "output.suite_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// FormatResults converts a suite's result list into a formatted table with
// a failure detail section when anything failed.
func (f *SuiteFormatter) FormatResults(suite *bench.TestSuite) string {
	if len(suite.Results) == 0 {
		return "No tests executed"
	}

	var (
		headers = []string{"Test", "Node", "Status", "Duration", "Details"}
		rows    = make([][]string, 0, len(suite.Results))
		failed  = make([]bench.TestResult, 0)
	)

	for _, result := range suite.Results {
		status := f.colors.FormatStatus(result.Success)

		var details string
		if result.Success {
			details = headlineMetric(result)
		} else {
			failed = append(failed, result)

			errMsg := result.ErrorMessage
			if len(errMsg) > 50 {
				errMsg = errMsg[:47] + "..."
			}

			details = f.colors.Muted(errMsg)
		}

		rows = append(rows, []string{
			result.TestName,
			nodeLabel(result.NodeID),
			status,
			formatDuration(secondsToDuration(result.EndTime - result.StartTime)),
			details,
		})
	}

	output := "\n" + f.colors.Header("▸ "+suiteTitle(suite.SuiteName)+" Results") + "\n\n" +
		f.renderer.RenderToString(headers, rows)

	if len(failed) > 0 {
		output += f.formatFailureDetails(failed)
	}

	return output
}

// formatFailureDetails creates a section with the full error of every
// failed task, untruncated.
func (f *SuiteFormatter) formatFailureDetails(failed []bench.TestResult) string {
	var builder strings.Builder

	builder.WriteString("\n\n" + f.colors.Header("▸ Failed Test Details") + "\n\n")

	for i, result := range failed {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("%s (node %s)\n", result.TestName, nodeLabel(result.NodeID)))

		if result.ErrorMessage != "" {
			builder.WriteString(fmt.Sprintf("  %s: %s\n", f.colors.Failure("Error"), result.ErrorMessage))
		} else {
			builder.WriteString(fmt.Sprintf("  %s: Test failed (no details available)\n", f.colors.Failure("Error")))
		}
	}

	return builder.String()
}

// FormatSummary converts a suite summary into a metric/value table.
func (f *SuiteFormatter) FormatSummary(suite *bench.TestSuite) string {
	summary := suite.Summary

	var passRate float64
	if summary.TotalTests > 0 {
		passRate = float64(summary.PassedTests) / float64(summary.TotalTests) * 100.0
	}

	passedValue := fmt.Sprintf("%s (%s)",
		f.colors.FormatRatio(summary.PassedTests, summary.TotalTests),
		f.colors.FormatPercentage(passRate))

	failedValue := fmt.Sprintf("%d (%.1f%%)", summary.FailedTests, 100.0-passRate)
	if summary.FailedTests > 0 {
		failedValue = f.colors.Failure(failedValue)
	} else {
		failedValue = f.colors.Success(failedValue)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Total Tests", f.colors.Bold(strconv.Itoa(summary.TotalTests))},
			{"Passed", passedValue},
			{"Failed", failedValue},
			{"Duration", formatDuration(secondsToDuration(suite.Duration()))},
			{"Nodes", strconv.Itoa(suite.NodeCount)},
		}
	)

	if summary.ConsensusCapable != nil {
		rows = append(rows,
			[]string{"Byzantine Tolerance", strconv.Itoa(summary.ByzantineTolerance)},
			[]string{"Consensus Capable", f.formatCapable(*summary.ConsensusCapable)},
		)
	}

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.RenderToString(headers, rows)
}

func (f *SuiteFormatter) formatCapable(capable bool) string {
	if capable {
		return f.colors.Success("✓ Yes")
	}

	return f.colors.Failure("✗ No")
}

// headlineMetric picks the single most telling metric of a scenario for
// the details column.
func headlineMetric(result bench.TestResult) string {
	metrics := result.Metrics

	switch result.TestName {
	case bench.ScenarioAIInference:
		return fmt.Sprintf("p99 %.2fµs", metrics["p99_latency_us"])
	case bench.ScenarioContextSwitch:
		return fmt.Sprintf("p95 %.2fns", metrics["p95_latency_ns"])
	case bench.ScenarioMemoryAllocation:
		return fmt.Sprintf("p99 %.2fns", metrics["p99_latency_ns"])
	case bench.ScenarioThroughput:
		return fmt.Sprintf("%.0f ops/s", metrics["ops_per_second"])
	case bench.ScenarioByzantineConsensus:
		return fmt.Sprintf("%.2fms", metrics["consensus_time_ms"])
	case bench.ScenarioLeaderElection:
		return fmt.Sprintf("%.2fms", metrics["election_time_ms"])
	case bench.ScenarioPartitionRecovery:
		return fmt.Sprintf("%.2fms", metrics["recovery_time_ms"])
	default:
		return ""
	}
}

// nodeLabel names a result's origin; node 0 is a cluster-wide result.
func nodeLabel(nodeID int) string {
	if nodeID == 0 {
		return "cluster"
	}

	return strconv.Itoa(nodeID)
}

// suiteTitle renders a suite name for section headers.
func suiteTitle(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
