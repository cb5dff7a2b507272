package domain

import (
	"fmt"
	"strings"
)

// ReportTimeLayout is the wall-clock format stamped on each report.
const ReportTimeLayout = "2006-01-02 15:04:05"

// DiagnosticReport aggregates one optional result per monitored target.
// A nil slot means the check was disabled or has not produced a result.
type DiagnosticReport struct {
	LocalResources *CheckResult `json:"localResources,omitempty"`
	GPU            *CheckResult `json:"gpu,omitempty"`
	Internet       *CheckResult `json:"internet,omitempty"`
	ClaudeAPI      *CheckResult `json:"claudeApi,omitempty"`
	OpenAIAPI      *CheckResult `json:"openaiApi,omitempty"`
	GoogleAI       *CheckResult `json:"googleAi,omitempty"`
	OpenCode       *CheckResult `json:"opencode,omitempty"`
	Terminals      *CheckResult `json:"terminals,omitempty"`
	Diagnosis      string       `json:"diagnosis,omitempty"`
	Timestamp      string       `json:"timestamp,omitempty"`
}

// Checks returns every slot, populated or not, in fixed report order.
func (r *DiagnosticReport) Checks() []*CheckResult {
	return []*CheckResult{
		r.LocalResources,
		r.GPU,
		r.Internet,
		r.ClaudeAPI,
		r.OpenAIAPI,
		r.GoogleAI,
		r.OpenCode,
		r.Terminals,
	}
}

// TextReport renders the report as clipboard-ready plain text. Rendering is
// read-only, so repeated calls on the same report yield identical output.
func (r *DiagnosticReport) TextReport() string {
	var b strings.Builder
	b.WriteString("=== OpenCode Diagnostics Report ===\n")
	if r.Timestamp != "" {
		fmt.Fprintf(&b, "Time: %s\n", r.Timestamp)
	}
	b.WriteByte('\n')

	for _, check := range r.Checks() {
		if check == nil {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", check.Status.Icon(), check.Name)
		fmt.Fprintf(&b, "     %s\n", check.Details)
		if check.Message != "" {
			fmt.Fprintf(&b, "     Message: \"%s\"\n", check.Message)
		}
		b.WriteByte('\n')
	}

	if r.Diagnosis != "" {
		fmt.Fprintf(&b, "\nDIAGNOSIS: %s\n", r.Diagnosis)
	}
	return b.String()
}
