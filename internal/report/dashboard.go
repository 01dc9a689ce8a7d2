package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sisworks/benchgate/internal/bench"
	"github.com/sisworks/benchgate/internal/stats"
)

//go:embed dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

// MetricStats pairs a metric name with its cross-result description and
// the indices of anomalous samples within the series.
type MetricStats struct {
	Name      string
	Stats     stats.Description
	Anomalies []int
}

// CollectMetricStats gathers every metric series across all suite results
// and describes it, flagging anomalies at the default threshold. Output is
// sorted by metric name.
func CollectMetricStats(suites []*bench.TestSuite) []MetricStats {
	series := make(map[string][]float64)

	for _, suite := range suites {
		for _, result := range suite.Results {
			for name, value := range result.Metrics {
				series[name] = append(series[name], value)
			}
		}
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	collected := make([]MetricStats, 0, len(names))
	for _, name := range names {
		values := series[name]

		collected = append(collected, MetricStats{
			Name:      name,
			Stats:     stats.Describe(values),
			Anomalies: stats.DetectAnomalies(values, stats.DefaultAnomalyThreshold),
		})
	}

	return collected
}

// dashboardData is the fully preformatted view model. The template renders
// these values verbatim and computes nothing itself.
type dashboardData struct {
	GeneratedAt  string
	SuccessRate  string
	TotalTests   int
	PassedTests  int
	FailedTests  int
	SuiteCount   int
	Suites       []suiteCard
	Metrics      []metricRow
	AnomalyCount int
}

type suiteCard struct {
	Title       string
	Duration    string
	NodeCount   int
	SummaryJSON string
}

type metricRow struct {
	Name      string
	Count     int
	Mean      string
	Median    string
	StdDev    string
	Min       string
	Max       string
	P95       string
	P99       string
	Anomalous bool
}

// WriteDashboard renders the HTML dashboard for the aggregate and the
// caller-computed metric statistics, returning the path written.
func (w *Writer) WriteDashboard(agg *Aggregate, metrics []MetricStats) (string, error) {
	data, err := buildDashboardData(agg, metrics)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering dashboard: %w", err)
	}

	path := filepath.Join(w.dir, DashboardFilename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing dashboard: %w", err)
	}

	w.log.WithField("path", path).Info("Wrote dashboard")

	return path, nil
}

func buildDashboardData(agg *Aggregate, metrics []MetricStats) (*dashboardData, error) {
	data := &dashboardData{
		GeneratedAt: agg.GeneratedAt,
		SuccessRate: fmt.Sprintf("%.1f%%", agg.Overall.OverallSuccessRate*100),
		TotalTests:  agg.Overall.TotalTests,
		PassedTests: agg.Overall.PassedTests,
		FailedTests: agg.Overall.FailedTests,
		SuiteCount:  len(agg.TestSuites),
	}

	titles := cases.Title(language.English)

	for _, suite := range agg.TestSuites {
		summaryJSON, err := json.MarshalIndent(suite.Summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling summary for %s: %w", suite.Name, err)
		}

		data.Suites = append(data.Suites, suiteCard{
			Title:       titles.String(strings.ReplaceAll(suite.Name, "_", " ")),
			Duration:    fmt.Sprintf("%.2f", suite.Duration),
			NodeCount:   suite.NodeCount,
			SummaryJSON: string(summaryJSON),
		})
	}

	for _, metric := range metrics {
		data.Metrics = append(data.Metrics, metricRow{
			Name:      metric.Name,
			Count:     metric.Stats.Count,
			Mean:      fmt.Sprintf("%.2f", metric.Stats.Mean),
			Median:    fmt.Sprintf("%.2f", metric.Stats.Median),
			StdDev:    fmt.Sprintf("%.2f", metric.Stats.StdDev),
			Min:       fmt.Sprintf("%.2f", metric.Stats.Min),
			Max:       fmt.Sprintf("%.2f", metric.Stats.Max),
			P95:       fmt.Sprintf("%.2f", metric.Stats.P95),
			P99:       fmt.Sprintf("%.2f", metric.Stats.P99),
			Anomalous: len(metric.Anomalies) > 0,
		})

		data.AnomalyCount += len(metric.Anomalies)
	}

	return data, nil
}
