// Package bench drives benchmark and fault-tolerance suites across a
// simulated multi-node deployment and folds raw measurements into frozen
// result suites.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Defaults applied when the caller leaves Config fields zero.
const (
	DefaultNodes       = 10
	DefaultIterations  = 1000
	DefaultTaskTimeout = 60 * time.Second
)

// MinDistributedNodes is the smallest cluster that can tolerate a single
// Byzantine fault (f >= 1 requires n >= 4).
const MinDistributedNodes = 4

// ErrInsufficientNodes is returned by RunDistributed before any step
// executes when the configured cluster is too small.
var ErrInsufficientNodes = errors.New("distributed consensus requires at least 4 nodes")

// Config contains configuration for the orchestrator.
type Config struct {
	Logger      logrus.FieldLogger
	Backend     Backend
	Collector   Collector
	Nodes       int
	Iterations  int
	TaskTimeout time.Duration
}

// Orchestrator coordinates suite execution: concurrent per-node fan-out
// for performance scenario groups, strictly sequential steps for
// cluster-wide consensus scenarios.
// This is the concrete implementation without an interface abstraction.
type Orchestrator struct {
	log         logrus.FieldLogger
	backend     Backend
	collector   Collector
	nodes       int
	iterations  int
	taskTimeout time.Duration
}

// NewOrchestrator creates a new orchestrator, applying defaults for zero
// Config fields. A nil Backend selects the synthetic backend.
func NewOrchestrator(cfg *Config) *Orchestrator {
	nodes := cfg.Nodes
	if nodes <= 0 {
		nodes = DefaultNodes
	}

	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	taskTimeout := cfg.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}

	backend := cfg.Backend
	if backend == nil {
		backend = NewSyntheticBackend()
	}

	collector := cfg.Collector
	if collector == nil {
		collector = NewCollector(cfg.Logger)
	}

	return &Orchestrator{
		log:         cfg.Logger.WithField("component", "orchestrator"),
		backend:     backend,
		collector:   collector,
		nodes:       nodes,
		iterations:  iterations,
		taskTimeout: taskTimeout,
	}
}

// Start initializes the orchestrator and its collector.
func (o *Orchestrator) Start(ctx context.Context) error {
	if err := o.collector.Start(ctx); err != nil {
		return fmt.Errorf("starting collector: %w", err)
	}

	o.log.WithFields(logrus.Fields{
		"nodes":      o.nodes,
		"iterations": o.iterations,
	}).Debug("orchestrator started")

	return nil
}

// Stop releases orchestrator resources.
func (o *Orchestrator) Stop() error {
	if err := o.collector.Stop(); err != nil {
		return fmt.Errorf("stopping collector: %w", err)
	}

	return nil
}

// Collector exposes the run metrics recorded so far.
func (o *Orchestrator) Collector() Collector {
	return o.collector
}

// RunPerformance executes every performance scenario group with one task
// per node, all fanned out together and joined as a unit. A failing task
// is converted at its own boundary and never aborts siblings; the suite
// is assembled only after the last task has reported.
func (o *Orchestrator) RunPerformance(ctx context.Context) (*TestSuite, error) {
	o.log.WithFields(logrus.Fields{
		"nodes":      o.nodes,
		"iterations": o.iterations,
	}).Info("starting performance benchmark")

	suiteStart := nowSeconds()
	groups := o.performanceGroups()

	// One slot per (group, node): every task writes a unique index, so
	// the join below is the only synchronization needed and ordering by
	// node is preserved regardless of completion order.
	grouped := make([][]TestResult, len(groups))
	for i := range grouped {
		grouped[i] = make([]TestResult, o.nodes)
	}

	g, gctx := errgroup.WithContext(ctx)
	for gi, group := range groups {
		for node := 1; node <= o.nodes; node++ {
			g.Go(func() error {
				grouped[gi][node-1] = o.runTask(gctx, group.name, node, func(taskCtx context.Context) (TestResult, error) {
					return group.run(taskCtx, node)
				})

				return nil
			})
		}
	}

	// Tasks convert their own failures, so the join never yields an error.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("joining scenario tasks: %w", err)
	}

	results := make([]TestResult, 0, len(groups)*o.nodes)
	for _, nodeResults := range grouped {
		results = append(results, nodeResults...)
	}

	suite := &TestSuite{
		SuiteName: SuitePerformance,
		StartTime: suiteStart,
		EndTime:   nowSeconds(),
		NodeCount: o.nodes,
		Results:   results,
		Summary:   performanceSummary(results),
	}

	o.recordSuite(suite)

	o.log.WithFields(logrus.Fields{
		"tests":  suite.Summary.TotalTests,
		"passed": suite.Summary.PassedTests,
		"failed": suite.Summary.FailedTests,
	}).Info("performance benchmark complete")

	return suite, nil
}

// RunDistributed executes the cluster-wide consensus scenarios strictly
// in sequence; each step models a whole-cluster state transition, so
// there is no per-node fan-out. The node-count precondition is checked
// before any step runs.
func (o *Orchestrator) RunDistributed(ctx context.Context) (*TestSuite, error) {
	if o.nodes < MinDistributedNodes {
		return nil, fmt.Errorf("%w, got %d", ErrInsufficientNodes, o.nodes)
	}

	o.log.WithField("nodes", o.nodes).Info("starting distributed consensus tests")

	suiteStart := nowSeconds()
	steps := o.distributedSteps()

	results := make([]TestResult, 0, len(steps))
	for _, step := range steps {
		result := o.runTask(ctx, step.name, 0, step.run)
		results = append(results, result)
	}

	suite := &TestSuite{
		SuiteName: SuiteDistributed,
		StartTime: suiteStart,
		EndTime:   nowSeconds(),
		NodeCount: o.nodes,
		Results:   results,
		Summary:   distributedSummary(results, o.nodes),
	}

	o.recordSuite(suite)

	o.log.WithFields(logrus.Fields{
		"tests":             suite.Summary.TotalTests,
		"passed":            suite.Summary.PassedTests,
		"consensus_capable": *suite.Summary.ConsensusCapable,
	}).Info("distributed consensus tests complete")

	return suite, nil
}

// runTask executes one scenario task under the task timeout, converting
// error, timeout and panic at the task boundary into a failed TestResult
// so the caller always receives a result.
func (o *Orchestrator) runTask(
	ctx context.Context,
	scenario string,
	nodeID int,
	run func(context.Context) (TestResult, error),
) (result TestResult) {
	taskCtx, cancel := context.WithTimeout(ctx, o.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			o.log.WithFields(logrus.Fields{
				"scenario": scenario,
				"node":     nodeID,
			}).Errorf("scenario task panicked: %v", r)

			result = o.failedResult(scenario, nodeID, fmt.Sprintf("panic: %v", r))
		}
	}()

	res, err := run(taskCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("task timed out after %s: %w", o.taskTimeout, err)
		}

		o.log.WithError(err).WithFields(logrus.Fields{
			"scenario": scenario,
			"node":     nodeID,
		}).Error("scenario task failed")

		return o.failedResult(scenario, nodeID, err.Error())
	}

	return res
}

// failedResult converts a task failure into a result carrying the failure
// text, stamped at conversion time.
func (o *Orchestrator) failedResult(scenario string, nodeID int, message string) TestResult {
	now := nowSeconds()

	result := TestResult{
		TestName:     scenario,
		NodeID:       nodeID,
		StartTime:    now,
		EndTime:      now,
		Success:      false,
		Metrics:      map[string]float64{},
		Logs:         []string{},
		ErrorMessage: message,
	}

	o.collector.RecordFailure(FailureDetail{
		Scenario: scenario,
		NodeID:   nodeID,
		Error:    message,
	})

	return result
}

// recordSuite feeds suite-level aggregates into the collector.
func (o *Orchestrator) recordSuite(suite *TestSuite) {
	o.collector.RecordSuite(&SuiteMetric{
		Suite:     suite.SuiteName,
		Tests:     suite.Summary.TotalTests,
		Passed:    suite.Summary.PassedTests,
		Failed:    suite.Summary.FailedTests,
		Duration:  time.Duration(suite.Duration() * float64(time.Second)),
		Timestamp: time.Now(),
	})
}
