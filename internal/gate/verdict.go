package gate

// Severity classifies a finding: errors block a release, warnings advise.
type Severity string

const (
	// SeverityError marks a blocking finding.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding.
	SeverityWarning Severity = "warning"
)

// Finding is a single validation outcome. Findings are never mutated
// after creation.
type Finding struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Verdict is the gate's final accept/reject decision together with the
// complete finding sets of one evaluation. Success is false iff the error
// list is non-empty after strict promotion.
type Verdict struct {
	Success  bool      `json:"success"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Passes   []string  `json:"passes,omitempty"`
}

// ErrorMessages returns the error texts in emission order.
func (v *Verdict) ErrorMessages() []string {
	messages := make([]string, 0, len(v.Errors))
	for _, finding := range v.Errors {
		messages = append(messages, finding.Message)
	}

	return messages
}

// WarningMessages returns the warning texts in emission order.
func (v *Verdict) WarningMessages() []string {
	messages := make([]string, 0, len(v.Warnings))
	for _, finding := range v.Warnings {
		messages = append(messages, finding.Message)
	}

	return messages
}

// SplitErrors partitions the error list into hard errors and warnings that
// were promoted in strict mode.
func (v *Verdict) SplitErrors() (hard, promoted []Finding) {
	for _, finding := range v.Errors {
		if finding.Severity == SeverityWarning {
			promoted = append(promoted, finding)
		} else {
			hard = append(hard, finding)
		}
	}

	return hard, promoted
}
