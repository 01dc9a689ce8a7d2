// Package gate evaluates kernel validation results documents against a
// threshold policy and produces an accept/reject verdict. Checks never
// short-circuit: every check runs and findings accumulate so one report
// surfaces everything that needs fixing.
package gate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sisworks/benchgate/internal/stats"
)

// Gate applies a threshold policy to validation results documents.
type Gate struct {
	log    logrus.FieldLogger
	policy ThresholdPolicy
	strict bool
}

// New creates a gate with the given policy. In strict mode warnings are
// promoted to errors before the verdict is decided.
func New(log logrus.FieldLogger, policy ThresholdPolicy, strict bool) *Gate {
	return &Gate{
		log:    log.WithField("component", "gate"),
		policy: policy,
		strict: strict,
	}
}

// evaluation accumulates findings across the checks of one document.
type evaluation struct {
	errors   []Finding
	warnings []Finding
	passes   []string
}

func (e *evaluation) errorf(format string, args ...any) {
	e.errors = append(e.errors, Finding{
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (e *evaluation) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, Finding{
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

func (e *evaluation) passf(format string, args ...any) {
	e.passes = append(e.passes, fmt.Sprintf(format, args...))
}

// EvaluateRelease runs the production readiness checks against doc.
// Historical documents, when at least two are supplied, additionally feed
// the cross-run variability check.
func (g *Gate) EvaluateRelease(doc *Document, historical []*Document) *Verdict {
	g.log.Debug("Running release readiness checks")

	eval := &evaluation{}

	g.checkDataIntegrity(doc, eval)
	g.checkOverallScore(doc, eval)
	g.checkCoverage(doc, eval)
	g.checkSecurityClaims(doc, eval)
	g.checkPerformanceClaims(doc, eval)
	g.checkAIAccuracy(doc, eval)
	g.checkExecutionCompleteness(doc, eval)
	g.checkVariability(historical, eval)

	return g.compose(eval)
}

// checkDataIntegrity verifies the document carries the sections every
// release evaluation depends on.
func (g *Gate) checkDataIntegrity(doc *Document, eval *evaluation) {
	var missing []string

	if doc.Summary == nil {
		missing = append(missing, "summary")
	}

	if doc.Coverage == nil {
		missing = append(missing, "coverage")
	}

	if doc.ValidationResults == nil {
		missing = append(missing, "validation_results")
	}

	if len(missing) > 0 {
		eval.errorf("Missing required data sections: %s", strings.Join(missing, ", "))
	} else {
		eval.passf("All required data sections present")
	}

	if len(doc.ValidationResults) == 0 {
		eval.errorf("No validation results found in test output")
	} else {
		eval.passf("Found %d validation results", len(doc.ValidationResults))
	}
}

func (g *Gate) checkOverallScore(doc *Document, eval *evaluation) {
	score := 0.0
	if doc.Summary != nil {
		score = doc.Summary.OverallScore
	}

	if score < g.policy.MinOverallScore {
		eval.errorf("Overall score (%.1f%%) below minimum threshold (%g%%)", score, g.policy.MinOverallScore)
	} else {
		eval.passf("Overall score (%.1f%%) meets threshold", score)
	}
}

// checkCoverage enforces the per-area coverage floors. Security and
// correctness are hard requirements, performance and AI/ML are advisory.
func (g *Gate) checkCoverage(doc *Document, eval *evaluation) {
	var cov CoverageSection
	if doc.Coverage != nil {
		cov = *doc.Coverage
	}

	areas := []struct {
		name     string
		actual   float64
		required float64
		hard     bool
	}{
		{name: "Security", actual: cov.Security * 100, required: g.policy.MinSecurityCoverage, hard: true},
		{name: "Correctness", actual: cov.Correctness * 100, required: g.policy.MinCorrectnessCoverage, hard: true},
		{name: "Performance", actual: cov.Performance * 100, required: g.policy.MinPerformanceCoverage},
		{name: "AI/ML", actual: cov.AI * 100, required: g.policy.MinAICoverage},
	}

	for _, area := range areas {
		switch {
		case area.actual >= area.required:
			eval.passf("%s coverage (%.1f%%) meets threshold", area.name, area.actual)
		case area.hard:
			eval.errorf("%s coverage (%.1f%%) below REQUIRED threshold (%g%%)", area.name, area.actual, area.required)
		default:
			eval.warnf("%s coverage (%.1f%%) below recommended threshold (%g%%)", area.name, area.actual, area.required)
		}
	}
}

// checkSecurityClaims counts failed memory safety and vulnerability claims
// against their zero-tolerance maximums.
func (g *Gate) checkSecurityClaims(doc *Document, eval *evaluation) {
	memoryViolations := 0
	criticalVulns := 0

	for _, result := range doc.ValidationResults {
		if result.Passed {
			continue
		}

		if strings.Contains(result.Claim, "Memory Safety") {
			memoryViolations++
		}

		if strings.Contains(result.Claim, "Vulnerabilities") {
			criticalVulns++
		}
	}

	if memoryViolations > g.policy.MaxMemorySafetyViolations {
		eval.errorf("Memory safety violations (%d) exceed maximum allowed (%d)", memoryViolations, g.policy.MaxMemorySafetyViolations)
	} else {
		eval.passf("Memory safety: %d violations (within limits)", memoryViolations)
	}

	if criticalVulns > g.policy.MaxCriticalVulnerabilities {
		eval.errorf("Critical vulnerabilities (%d) exceed maximum allowed (%d)", criticalVulns, g.policy.MaxCriticalVulnerabilities)
	} else {
		eval.passf("Security: %d critical vulnerabilities", criticalVulns)
	}
}

// checkPerformanceClaims flags failing latency-sensitive claims. Failures
// here are advisory: throughput regressions alone do not block a release.
func (g *Gate) checkPerformanceClaims(doc *Document, eval *evaluation) {
	var failing []string

	for _, result := range doc.ValidationResults {
		if result.Passed {
			continue
		}

		if strings.Contains(result.Claim, "Inference") || strings.Contains(result.Claim, "Context Switch") {
			failing = append(failing, result.Claim)
		}
	}

	if len(failing) > 0 {
		eval.warnf("Performance tests failing: %s", strings.Join(failing, ", "))
	} else {
		eval.passf("All performance tests passing")
	}
}

// checkAIAccuracy parses the measured percentage of passed inference
// accuracy claims and holds it to the policy minimum. Values that do not
// parse as a number become advisories rather than hard failures.
func (g *Gate) checkAIAccuracy(doc *Document, eval *evaluation) {
	for _, result := range doc.ValidationResults {
		if !result.Passed || !strings.Contains(result.Claim, "Inference Accuracy") {
			continue
		}

		measured := result.MeasuredValue()

		accuracy, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(measured, "%", "")), 64)
		if err != nil {
			eval.warnf("Could not parse AI accuracy: %s", measured)
			continue
		}

		if accuracy < g.policy.MinAIAccuracy {
			eval.errorf("AI inference accuracy (%g%%) below minimum (%g%%)", accuracy, g.policy.MinAIAccuracy)
		} else {
			eval.passf("AI accuracy (%g%%) meets threshold", accuracy)
		}
	}
}

// checkExecutionCompleteness bounds the total number of failed claims and
// names every failure when the bound is exceeded.
func (g *Gate) checkExecutionCompleteness(doc *Document, eval *evaluation) {
	var failed []string

	for _, result := range doc.ValidationResults {
		if !result.Passed {
			failed = append(failed, result.ClaimName())
		}
	}

	if len(failed) > g.policy.MaxAcceptableFailures {
		eval.errorf("Too many test failures (%d) - maximum allowed: %d", len(failed), g.policy.MaxAcceptableFailures)
		eval.errorf("Failed tests: %s", strings.Join(failed, ", "))
	} else {
		eval.passf("Test failures (%d) within acceptable limits (%d)", len(failed), g.policy.MaxAcceptableFailures)
	}
}

// checkVariability looks across historical runs for metrics that never
// change, which points at a stubbed collector rather than real measurement.
func (g *Gate) checkVariability(historical []*Document, eval *evaluation) {
	if len(historical) < 2 {
		return
	}

	var memories []*MemorySection

	for _, doc := range historical {
		if doc.Memory != nil {
			memories = append(memories, doc.Memory)
		}
	}

	if len(memories) < 3 {
		return
	}

	var peaks []float64

	for _, mem := range memories {
		if mem.PeakPressure != nil {
			peaks = append(peaks, *mem.PeakPressure)
		}
	}

	if len(peaks) > 0 && stats.IsConstant(peaks) {
		eval.warnf("No variability in memory peak pressure across %d runs", len(peaks))
	}

	var ooms []float64

	for _, mem := range memories {
		if mem.OOMEvents != nil {
			ooms = append(ooms, float64(*mem.OOMEvents))
		}
	}

	if len(ooms) > 0 && stats.IsConstant(ooms) {
		eval.warnf("No variability in OOM events across %d runs", len(ooms))
	}
}

// compose applies strict promotion and decides the verdict. Promoted
// warnings keep their warning severity so renderers can still tell them
// apart from real errors.
func (g *Gate) compose(eval *evaluation) *Verdict {
	errors := eval.errors
	warnings := eval.warnings

	if g.strict && len(warnings) > 0 {
		errors = append(errors, warnings...)
		warnings = nil
	}

	verdict := &Verdict{
		Success:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
		Passes:   eval.passes,
	}

	g.log.WithFields(logrus.Fields{
		"success":  verdict.Success,
		"errors":   len(verdict.Errors),
		"warnings": len(verdict.Warnings),
	}).Debug("Evaluation complete")

	return verdict
}
