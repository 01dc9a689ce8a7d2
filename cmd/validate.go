package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sisworks/benchgate/internal/config"
	"github.com/sisworks/benchgate/internal/gate"
	"github.com/sisworks/benchgate/internal/history"
	"github.com/sisworks/benchgate/internal/output"
)

var (
	// Validate command flags
	validateStrict       bool
	validateProfile      string
	validateOutputFormat string
	validateHistorical   []string
	validatePolicyFile   string
	validateVerbose      bool

	// Stress threshold overrides
	validateMaxOOMEvents      int
	validateMaxP99LatencyMs   float64
	validateMinInterventions  int
	validateMinImprovementPct float64
)

var (
	errUnknownProfile      = errors.New("unknown profile")
	errUnknownOutputFormat = errors.New("unknown output format")
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a benchmark results document against release criteria",
	Long: `Run the release gate on a results document.

The release profile checks data integrity, overall score, category
coverage, security and performance claims, AI accuracy, execution
completeness and cross-run variability. The stress profile checks memory
pressure, chaos recovery, autonomy impact and learning progress.

Example:
  benchgate validate results/performance_results.json
  benchgate validate stress.json --profile stress --strict
  benchgate validate results.json --historical prev1.json --historical prev2.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	defaults := gate.DefaultPolicy()

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
	validateCmd.Flags().StringVar(&validateProfile, "profile", "release", "Validation profile (release, stress)")
	validateCmd.Flags().StringVar(&validateOutputFormat, "output-format", "text", "Output format (text, json)")
	validateCmd.Flags().StringArrayVar(&validateHistorical, "historical", nil, "Historical results document for variability checks (repeatable)")
	validateCmd.Flags().StringVar(&validatePolicyFile, "policy", "", "YAML policy file overriding default thresholds")
	validateCmd.Flags().BoolVar(&validateVerbose, "verbose", false, "Verbose output")

	validateCmd.Flags().IntVar(&validateMaxOOMEvents, "max-oom-events", defaults.MaxOOMEvents, "Maximum tolerated OOM events")
	validateCmd.Flags().Float64Var(&validateMaxP99LatencyMs, "max-p99-latency-ms", defaults.MaxP99LatencyMs, "Maximum p99 latency under memory pressure (ms)")
	validateCmd.Flags().IntVar(&validateMinInterventions, "min-autonomy-interventions", defaults.MinAutonomyInterventions, "Minimum manual interventions saved by autonomy")
	validateCmd.Flags().Float64Var(&validateMinImprovementPct, "min-learning-improvement-pct", defaults.MinLearningImprovementPct, "Minimum learning improvement percentage")
}

func runValidate(cmd *cobra.Command, args []string) error {
	file := args[0]
	log := newLogger(validateVerbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	policy, err := resolvePolicy(cmd)
	if err != nil {
		return err
	}

	doc, err := gate.LoadDocument(file)
	if err != nil {
		return err
	}

	historical := loadHistorical(log, validateHistorical)

	g := gate.New(log, policy, validateStrict)

	var verdict *gate.Verdict

	switch validateProfile {
	case "release":
		verdict = g.EvaluateRelease(doc, historical)
	case "stress":
		verdict = g.EvaluateStress(doc, historical)
	default:
		return fmt.Errorf("%w %q (want release or stress)", errUnknownProfile, validateProfile)
	}

	if err := printVerdict(log, doc, verdict, policy, file); err != nil {
		return err
	}

	recordVerdict(cmd.Context(), log, cfg.ClickHouseDSN, validateProfile, file, verdict)

	if !verdict.Success {
		return fmt.Errorf("%w: %d error(s)", errValidationFailed, len(verdict.Errors))
	}

	return nil
}

// resolvePolicy layers the policy file and explicit threshold flags over
// the built-in defaults.
func resolvePolicy(cmd *cobra.Command) (gate.ThresholdPolicy, error) {
	policy := gate.DefaultPolicy()

	if validatePolicyFile != "" {
		loaded, err := gate.LoadPolicy(validatePolicyFile)
		if err != nil {
			return policy, err
		}

		policy = loaded
	}

	if cmd.Flags().Changed("max-oom-events") {
		policy.MaxOOMEvents = validateMaxOOMEvents
	}
	if cmd.Flags().Changed("max-p99-latency-ms") {
		policy.MaxP99LatencyMs = validateMaxP99LatencyMs
	}
	if cmd.Flags().Changed("min-autonomy-interventions") {
		policy.MinAutonomyInterventions = validateMinInterventions
	}
	if cmd.Flags().Changed("min-learning-improvement-pct") {
		policy.MinLearningImprovementPct = validateMinImprovementPct
	}

	return policy, nil
}

// loadHistorical reads the historical documents. Unreadable files are
// skipped with a warning so stale artifacts never block a current run.
func loadHistorical(log logrus.FieldLogger, paths []string) []*gate.Document {
	docs := make([]*gate.Document, 0, len(paths))

	for _, path := range paths {
		doc, err := gate.LoadDocument(path)
		if err != nil {
			log.WithError(err).WithField("file", path).Warn("skipping historical document")
			continue
		}

		docs = append(docs, doc)
	}

	return docs
}

func printVerdict(log logrus.FieldLogger, doc *gate.Document, verdict *gate.Verdict, policy gate.ThresholdPolicy, file string) error {
	switch validateOutputFormat {
	case "json":
		data, err := json.MarshalIndent(output.NewCIReport(verdict, file), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding verdict: %w", err)
		}

		fmt.Println(string(data))
	case "text":
		formatter := output.NewVerdictFormatter(log)

		if validateProfile == "stress" {
			if validateVerbose {
				fmt.Print(formatter.FormatStressPreamble(file, policy))
			}

			fmt.Print(formatter.FormatStress(verdict))

			if verdict.Success && validateVerbose {
				fmt.Print(formatter.FormatValidatedSections(doc))
			}
		} else {
			fmt.Print(formatter.FormatRelease(verdict, file))
		}
	default:
		return fmt.Errorf("%w %q (want text or json)", errUnknownOutputFormat, validateOutputFormat)
	}

	return nil
}

// recordVerdict pushes the verdict into the ClickHouse history sink.
// Best-effort, like the suite recording in bench.
func recordVerdict(ctx context.Context, log logrus.FieldLogger, dsn, profile, file string, verdict *gate.Verdict) {
	if dsn == "" {
		return
	}

	recorder := history.NewRecorder(log, dsn)
	if err := recorder.Start(ctx); err != nil {
		log.WithError(err).Warn("history sink unavailable, skipping verdict recording")
		return
	}

	defer func() {
		if err := recorder.Stop(); err != nil {
			log.WithError(err).Warn("closing history sink")
		}
	}()

	if err := recorder.RecordVerdict(ctx, profile, file, verdict); err != nil {
		log.WithError(err).Warn("recording verdict history")
	}
}
