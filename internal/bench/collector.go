package bench

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SuiteMetric captures aggregate counts for one executed suite.
type SuiteMetric struct {
	Suite     string
	Tests     int
	Passed    int
	Failed    int
	Duration  time.Duration
	Timestamp time.Time
}

// FailureDetail captures a single converted task failure.
type FailureDetail struct {
	Scenario string
	NodeID   int
	Error    string
}

// RunSummary provides aggregate statistics across all suites of one run.
type RunSummary struct {
	TotalDuration time.Duration
	Suites        int
	TotalTests    int
	PassedTests   int
	FailedTests   int
	SuccessRate   float64 // percentage
}

// Collector interface for run metrics collection.
type Collector interface {
	Start(ctx context.Context) error
	Stop() error
	RecordSuite(metric *SuiteMetric)
	RecordFailure(detail FailureDetail)
	GetSuiteMetrics() []SuiteMetric
	GetFailures() []FailureDetail
	GetSummary() RunSummary
}

// collector implements Collector interface
type collector struct {
	log          logrus.FieldLogger
	mu           sync.RWMutex
	suiteMetrics []SuiteMetric
	failures     []FailureDetail
	startTime    time.Time
}

// NewCollector creates a new run metrics collector.
// Returns Collector interface, not *collector struct.
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:          log.WithField("component", "run_collector"),
		suiteMetrics: make([]SuiteMetric, 0, 4), // capacity hint
		failures:     make([]FailureDetail, 0, 8),
	}
}

func (c *collector) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()

	c.log.Debug("run collector started")

	return nil
}

func (c *collector) Stop() error {
	c.log.Debug("run collector stopped")

	return nil
}

func (c *collector) RecordSuite(metric *SuiteMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suiteMetrics = append(c.suiteMetrics, *metric)
}

func (c *collector) RecordFailure(detail FailureDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, detail)
}

func (c *collector) GetSuiteMetrics() []SuiteMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// Return copy to avoid race conditions
	result := make([]SuiteMetric, len(c.suiteMetrics))
	copy(result, c.suiteMetrics)
	return result
}

func (c *collector) GetFailures() []FailureDetail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]FailureDetail, len(c.failures))
	copy(result, c.failures)
	return result
}

func (c *collector) GetSummary() RunSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := RunSummary{
		TotalDuration: time.Since(c.startTime),
		Suites:        len(c.suiteMetrics),
	}

	for _, sm := range c.suiteMetrics {
		summary.TotalTests += sm.Tests
		summary.PassedTests += sm.Passed
		summary.FailedTests += sm.Failed
	}

	if summary.TotalTests > 0 {
		summary.SuccessRate = float64(summary.PassedTests) / float64(summary.TotalTests) * 100.0
	}

	return summary
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
