// Package report projects completed benchmark suites into artifacts: one
// JSON document per suite, an aggregate validation report, and an HTML
// dashboard. The projector renders what it is given and never recomputes
// statistics from the rendered view.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sisworks/benchgate/internal/bench"
)

// Artifact filenames under the output directory.
const (
	PerformanceResultsFilename = "performance_results.json"
	DistributedResultsFilename = "distributed_results.json"
	AggregateFilename          = "industry_validation_report.json"
	DashboardFilename          = "validation_dashboard.html"
)

// Writer writes report artifacts into a single output directory.
type Writer struct {
	log logrus.FieldLogger
	dir string
}

// NewWriter creates the output directory if needed and returns a writer
// bound to it.
func NewWriter(log logrus.FieldLogger, dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{
		log: log.WithField("component", "report"),
		dir: dir,
	}, nil
}

// Dir returns the output directory the writer is bound to.
func (w *Writer) Dir() string {
	return w.dir
}

// suiteDocument is the on-disk shape of a suite: the suite fields plus the
// derived duration and a human-readable timestamp of the suite start.
type suiteDocument struct {
	SuiteName string             `json:"suite_name"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Duration  float64            `json:"duration"`
	NodeCount int                `json:"node_count"`
	Timestamp string             `json:"timestamp"`
	Results   []bench.TestResult `json:"results"`
	Summary   bench.Summary      `json:"summary"`
}

// WriteSuite writes one suite under the given filename and returns the
// full path written.
func (w *Writer) WriteSuite(suite *bench.TestSuite, filename string) (string, error) {
	doc := suiteDocument{
		SuiteName: suite.SuiteName,
		StartTime: suite.StartTime,
		EndTime:   suite.EndTime,
		Duration:  suite.Duration(),
		NodeCount: suite.NodeCount,
		Timestamp: isoTimestamp(suite.StartTime),
		Results:   suite.Results,
		Summary:   suite.Summary,
	}

	path := filepath.Join(w.dir, filename)
	if err := writeJSON(path, doc); err != nil {
		return "", fmt.Errorf("writing suite %s: %w", suite.SuiteName, err)
	}

	w.log.WithFields(logrus.Fields{
		"suite": suite.SuiteName,
		"path":  path,
	}).Info("Wrote suite results")

	return path, nil
}

// ReadSuite loads a previously written suite artifact. Envelope-only keys
// such as duration and timestamp are derived fields and are dropped on read.
func ReadSuite(path string) (*bench.TestSuite, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading caller-named artifact
	if err != nil {
		return nil, fmt.Errorf("reading suite artifact: %w", err)
	}

	var suite bench.TestSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("decoding suite artifact %s: %w", path, err)
	}

	return &suite, nil
}

// writeJSON marshals v with 2-space indentation and writes it in one shot.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// isoTimestamp renders fractional unix seconds as an RFC 3339 UTC string.
func isoTimestamp(unixSeconds float64) string {
	return time.Unix(0, int64(unixSeconds*float64(time.Second))).UTC().Format(time.RFC3339)
}
