package output

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sisworks/benchgate/internal/gate"
)

const separator = "============================================================"

// VerdictFormatter renders gate verdicts in the classic validator layout.
type VerdictFormatter struct {
	log    logrus.FieldLogger
	colors *ColorHelper
}

// NewVerdictFormatter creates a verdict formatter.
func NewVerdictFormatter(log logrus.FieldLogger) *VerdictFormatter {
	return &VerdictFormatter{
		log:    log.WithField("component", "output.verdict_formatter"),
		colors: NewColorHelper(),
	}
}

// FormatRelease renders a release verdict: header naming the source, one
// line per passed check, then the failure summary and any warnings.
func (f *VerdictFormatter) FormatRelease(verdict *gate.Verdict, source string) string {
	var b strings.Builder

	b.WriteString("Starting SIS Kernel test results validation...\n")
	fmt.Fprintf(&b, "Validating results from: %s\n", source)
	b.WriteString(separator + "\n")

	for _, pass := range verdict.Passes {
		fmt.Fprintf(&b, "%s %s\n", f.colors.PassTag(), pass)
	}

	b.WriteString(separator + "\n")

	if verdict.Success {
		fmt.Fprintf(&b, "%s All validation checks PASSED\n", f.colors.PassTag())
	} else {
		fmt.Fprintf(&b, "%s Validation FAILED with %d errors\n", f.colors.FailTag(), len(verdict.Errors))

		for _, finding := range verdict.Errors {
			fmt.Fprintf(&b, "   ERROR: %s\n", finding.Message)
		}
	}

	if len(verdict.Warnings) > 0 {
		fmt.Fprintf(&b, "%s %d warnings:\n", f.colors.WarnTag(), len(verdict.Warnings))

		for _, finding := range verdict.Warnings {
			fmt.Fprintf(&b, "   WARNING: %s\n", finding.Message)
		}
	}

	return b.String()
}

// FormatStress renders a stress verdict. Warnings promoted in strict mode
// stay in their own section with a note, matching how operators read the
// non-strict output.
func (f *VerdictFormatter) FormatStress(verdict *gate.Verdict) string {
	hard, promoted := verdict.SplitErrors()

	warnings := verdict.Warnings
	if len(promoted) > 0 {
		warnings = promoted
	}

	var b strings.Builder

	if !verdict.Success {
		fmt.Fprintf(&b, "%s Stress test validation failed:\n\n", f.colors.FailTag())

		if len(hard) > 0 {
			b.WriteString("Errors:\n")

			for _, finding := range hard {
				b.WriteString(f.renderFinding(finding) + "\n")
			}
		}

		if len(warnings) > 0 {
			b.WriteString("\nWarnings:\n")

			for _, finding := range warnings {
				b.WriteString(f.renderFinding(finding) + "\n")
			}
		}

		if len(promoted) > 0 {
			b.WriteString("\n(Warnings treated as errors)\n")
		}

		return b.String()
	}

	if len(warnings) > 0 {
		fmt.Fprintf(&b, "%s Stress tests passed with warnings:\n\n", f.colors.PassTag())

		for _, finding := range warnings {
			b.WriteString(f.renderFinding(finding) + "\n")
		}

		b.WriteString("\n")

		return b.String()
	}

	fmt.Fprintf(&b, "%s ✓ All stress test validations passed\n", f.colors.PassTag())

	return b.String()
}

// FormatStressPreamble renders the verbose header naming the source and
// the active thresholds.
func (f *VerdictFormatter) FormatStressPreamble(source string, policy gate.ThresholdPolicy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Validating stress test results from: %s\n", f.colors.InfoTag(), source)
	fmt.Fprintf(&b, "%s Thresholds:\n", f.colors.InfoTag())
	fmt.Fprintf(&b, "  - Max OOM events: %d\n", policy.MaxOOMEvents)
	fmt.Fprintf(&b, "  - Min autonomy interventions: %d\n", policy.MinAutonomyInterventions)
	fmt.Fprintf(&b, "  - Max p99 latency: %gms\n", policy.MaxP99LatencyMs)
	fmt.Fprintf(&b, "  - Min learning improvement: %g%%\n", policy.MinLearningImprovementPct)
	b.WriteString("\n")

	return b.String()
}

// FormatValidatedSections renders the verbose list of document sections
// that were actually present and checked.
func (f *VerdictFormatter) FormatValidatedSections(doc *gate.Document) string {
	var b strings.Builder

	b.WriteString("\nValidated:\n")

	if doc.Memory != nil {
		fmt.Fprintf(&b, "  %s Memory test\n", f.colors.Success("✓"))
	}

	if doc.Chaos != nil {
		fmt.Fprintf(&b, "  %s Chaos test\n", f.colors.Success("✓"))
	}

	if doc.Compare != nil {
		fmt.Fprintf(&b, "  %s Autonomy comparison\n", f.colors.Success("✓"))
	}

	if doc.Learning != nil {
		fmt.Fprintf(&b, "  %s Learning test\n", f.colors.Success("✓"))
	}

	return b.String()
}

// renderFinding renders one finding with its severity icon.
func (f *VerdictFormatter) renderFinding(finding gate.Finding) string {
	if finding.Severity == gate.SeverityWarning {
		return fmt.Sprintf("  %s %s", f.colors.Warning("⚠"), finding.Message)
	}

	return fmt.Sprintf("  %s %s", f.colors.Failure("✗"), finding.Message)
}

// CIReport is the machine-readable verdict shape consumed by CI pipelines.
type CIReport struct {
	Success  bool     `json:"success"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	File     string   `json:"file"`
}

// NewCIReport flattens a verdict for JSON output.
func NewCIReport(verdict *gate.Verdict, file string) CIReport {
	return CIReport{
		Success:  verdict.Success,
		Errors:   verdict.ErrorMessages(),
		Warnings: verdict.WarningMessages(),
		File:     file,
	}
}
