package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sisworks/benchgate/internal/bench"
	"github.com/sisworks/benchgate/internal/config"
	"github.com/sisworks/benchgate/internal/history"
	"github.com/sisworks/benchgate/internal/output"
	"github.com/sisworks/benchgate/internal/report"
)

var (
	// Bench command flags
	benchNodes       int
	benchIterations  int
	benchOutputDir   string
	benchPerformance bool
	benchDistributed bool
	benchAll         bool
	benchTaskTimeout time.Duration
	benchVerbose     bool
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run kernel benchmark suites across a simulated node fleet",
	Long: `Execute benchmark suites and write their result artifacts.

The performance suite fans one task per node out for every scenario group
and joins them as a unit. The distributed suite drives cluster-wide
consensus scenarios through strictly sequential steps and requires at
least 4 nodes. Suite artifacts, the aggregate report and the HTML
dashboard are written to the output directory.

Without --performance, --distributed or --all, both suites run.

Example:
  benchgate bench --all --nodes 10 --output results
  benchgate bench --distributed --nodes 7 --verbose`,
	RunE: runBench,
}

// suiteRun pairs an executed suite with its artifact filename.
type suiteRun struct {
	suite    *bench.TestSuite
	filename string
}

// setupCleanupHandler sets up signal handling for graceful cleanup on Ctrl+C.
func setupCleanupHandler(orchestrator *bench.Orchestrator) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Warn("\nReceived interrupt signal, cleaning up...")
		_ = orchestrator.Stop()
		os.Exit(130) // Exit code 130 = 128 + SIGINT(2)
	}()
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchNodes, "nodes", config.DefaultNodes, "Number of simulated nodes")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", config.DefaultIterations, "Iterations per scenario task")
	benchCmd.Flags().StringVar(&benchOutputDir, "output", config.DefaultOutputDir, "Directory for result artifacts")
	benchCmd.Flags().BoolVar(&benchPerformance, "performance", false, "Run the performance suite")
	benchCmd.Flags().BoolVar(&benchDistributed, "distributed", false, "Run the distributed consensus suite")
	benchCmd.Flags().BoolVar(&benchAll, "all", false, "Run all suites")
	benchCmd.Flags().DurationVar(&benchTaskTimeout, "task-timeout", config.DefaultTaskTimeout, "Per-node task timeout")
	benchCmd.Flags().BoolVar(&benchVerbose, "verbose", false, "Verbose output")
}

func runBench(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Explicit flags beat environment values.
	if cmd.Flags().Changed("nodes") {
		cfg.Nodes = benchNodes
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = benchIterations
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = benchOutputDir
	}
	if cmd.Flags().Changed("task-timeout") {
		cfg.TaskTimeout = benchTaskTimeout
	}

	log := newLogger(benchVerbose)

	orchestrator := bench.NewOrchestrator(&bench.Config{
		Logger:      log,
		Nodes:       cfg.Nodes,
		Iterations:  cfg.Iterations,
		TaskTimeout: cfg.TaskTimeout,
	})

	// Setup signal handling for cleanup on Ctrl+C
	setupCleanupHandler(orchestrator)

	ctx := context.Background()
	if err := orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("starting orchestrator: %w", err)
	}
	defer func() {
		if stopErr := orchestrator.Stop(); stopErr != nil {
			log.WithError(stopErr).Warn("stopping orchestrator")
		}
	}()

	fmt.Printf("🚀 Running benchmark suites (nodes=%d, iterations=%d)\n", cfg.Nodes, cfg.Iterations)

	runs, err := runSuites(ctx, orchestrator)
	if err != nil {
		return err
	}

	printSuites(log, runs)

	if err := writeArtifacts(log, cfg.OutputDir, runs); err != nil {
		return err
	}

	recordSuites(ctx, log, cfg.ClickHouseDSN, runs)

	return nil
}

// runSuites executes the suites selected by the bench flags. No selection
// flag means both suites.
func runSuites(ctx context.Context, orchestrator *bench.Orchestrator) ([]suiteRun, error) {
	runAll := benchAll || (!benchPerformance && !benchDistributed)

	runs := make([]suiteRun, 0, 2)

	if benchPerformance || runAll {
		suite, err := orchestrator.RunPerformance(ctx)
		if err != nil {
			return nil, fmt.Errorf("running performance suite: %w", err)
		}

		runs = append(runs, suiteRun{suite: suite, filename: report.PerformanceResultsFilename})
	}

	if benchDistributed || runAll {
		suite, err := orchestrator.RunDistributed(ctx)
		if err != nil {
			return nil, fmt.Errorf("running distributed suite: %w", err)
		}

		runs = append(runs, suiteRun{suite: suite, filename: report.DistributedResultsFilename})
	}

	return runs, nil
}

func printSuites(log logrus.FieldLogger, runs []suiteRun) {
	formatter := output.NewSuiteFormatter(log, output.NewRenderer(log))

	for _, run := range runs {
		fmt.Print(formatter.FormatResults(run.suite))
		fmt.Println(formatter.FormatSummary(run.suite))
	}
}

func writeArtifacts(log logrus.FieldLogger, dir string, runs []suiteRun) error {
	writer, err := report.NewWriter(log, dir)
	if err != nil {
		return fmt.Errorf("creating report writer: %w", err)
	}

	suites := make([]*bench.TestSuite, 0, len(runs))

	for _, run := range runs {
		path, err := writer.WriteSuite(run.suite, run.filename)
		if err != nil {
			return fmt.Errorf("writing suite artifact: %w", err)
		}

		fmt.Printf("💾 Results saved:    %s\n", path)
		suites = append(suites, run.suite)
	}

	agg := report.BuildAggregate(suites)

	aggregatePath, err := writer.WriteAggregate(agg)
	if err != nil {
		return fmt.Errorf("writing aggregate report: %w", err)
	}

	fmt.Printf("📊 Aggregate report: %s\n", aggregatePath)

	dashboardPath, err := writer.WriteDashboard(agg, report.CollectMetricStats(suites))
	if err != nil {
		return fmt.Errorf("writing dashboard: %w", err)
	}

	fmt.Printf("📈 Dashboard:        %s\n", dashboardPath)

	return nil
}

// recordSuites pushes the executed suites into the ClickHouse history sink.
// The sink is best-effort and never fails the run.
func recordSuites(ctx context.Context, log logrus.FieldLogger, dsn string, runs []suiteRun) {
	if dsn == "" {
		return
	}

	recorder := history.NewRecorder(log, dsn)
	if err := recorder.Start(ctx); err != nil {
		log.WithError(err).Warn("history sink unavailable, skipping run recording")
		return
	}

	defer func() {
		if err := recorder.Stop(); err != nil {
			log.WithError(err).Warn("closing history sink")
		}
	}()

	for _, run := range runs {
		if err := recorder.RecordSuite(ctx, run.suite); err != nil {
			log.WithError(err).WithField("suite", run.suite.SuiteName).Warn("recording suite history")
		}
	}
}
