package diagnostics

import (
	"strings"

	"opencode-diag/internal/domain"
)

// diagnosisAllClear is reported when no rule matches.
const diagnosisAllClear = "All systems operational."

// diagnosisRule pairs a report predicate with the message it produces.
type diagnosisRule struct {
	match   func(*domain.DiagnosticReport) bool
	message func(*domain.DiagnosticReport) string
}

// diagnosisRules is the fixed-priority chain: machine health masks network
// health, network health masks upstream API health, and the monitored
// process comes last. Disabled checks never match.
var diagnosisRules = []diagnosisRule{
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.LocalResources, domain.CheckStatusError) },
		message: fixed("System resources critical. Close other applications."),
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.GPU, domain.CheckStatusError) },
		message: fixed("GPU overloaded. Close GPU-heavy applications."),
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.GPU, domain.CheckStatusWarning) },
		message: fixed("High GPU usage detected. May affect performance."),
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.Internet, domain.CheckStatusError) },
		message: fixed("No internet connection. Check your network."),
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.ClaudeAPI, domain.CheckStatusError) },
		message: claudeErrorMessage,
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.ClaudeAPI, domain.CheckStatusWarning) },
		message: claudeWarningMessage,
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.OpenAIAPI, domain.CheckStatusError) },
		message: func(r *domain.DiagnosticReport) string { return "OpenAI API issue: " + r.OpenAIAPI.Details },
	},
	{
		match:   func(r *domain.DiagnosticReport) bool { return hasStatus(r.OpenCode, domain.CheckStatusError) },
		message: fixed("OpenCode process not running."),
	},
}

// Diagnose returns the single synthesized sentence for the most important
// finding in the report.
func Diagnose(report *domain.DiagnosticReport) string {
	for _, rule := range diagnosisRules {
		if rule.match(report) {
			return rule.message(report)
		}
	}
	return diagnosisAllClear
}

// hasStatus reports whether a populated check slot carries the status.
func hasStatus(check *domain.CheckResult, status domain.CheckStatus) bool {
	return check != nil && check.Status == status
}

// fixed adapts a constant message to the rule message signature.
func fixed(message string) func(*domain.DiagnosticReport) string {
	return func(*domain.DiagnosticReport) string { return message }
}

// claudeErrorMessage splits the two overload signals off from generic
// failures using the detail wording set by the status table.
func claudeErrorMessage(r *domain.DiagnosticReport) string {
	details := r.ClaudeAPI.Details
	switch {
	case strings.Contains(details, "503") || strings.Contains(details, "capacity"):
		return "Claude API is overloaded. Try again later."
	case strings.Contains(details, "529"):
		return "Claude API overloaded (529). Try again in a few minutes."
	default:
		return "Claude API issue: " + details
	}
}

// claudeWarningMessage separates rate limiting from plain slowness.
func claudeWarningMessage(r *domain.DiagnosticReport) string {
	if strings.Contains(r.ClaudeAPI.Details, "429") {
		return "Claude API rate limited. Wait a few minutes."
	}
	return "Claude API is slow. May experience delays."
}
