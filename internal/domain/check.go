package domain

// CheckStatus classifies the outcome of a single diagnostic check.
type CheckStatus string

const (
	CheckStatusOk       CheckStatus = "ok"
	CheckStatusWarning  CheckStatus = "warning"
	CheckStatusError    CheckStatus = "error"
	CheckStatusUnknown  CheckStatus = "unknown"
	CheckStatusInactive CheckStatus = "inactive"
)

// Label returns the short badge text shown next to a check.
func (s CheckStatus) Label() string {
	switch s {
	case CheckStatusOk:
		return "OK"
	case CheckStatusWarning:
		return "WARN"
	case CheckStatusError:
		return "ERROR"
	case CheckStatusInactive:
		return "--"
	default:
		return "..."
	}
}

// Icon returns the bracketed marker used in the text report.
func (s CheckStatus) Icon() string {
	switch s {
	case CheckStatusOk:
		return "[OK]"
	case CheckStatusWarning:
		return "[!!]"
	case CheckStatusError:
		return "[XX]"
	case CheckStatusInactive:
		return "[--]"
	default:
		return "[??]"
	}
}

// IsIssue reports whether the status belongs in the error log.
func (s CheckStatus) IsIssue() bool {
	return s == CheckStatusError || s == CheckStatusWarning
}

// CheckResult is the normalized outcome of one probe invocation.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Details string      `json:"details"`
	Message string      `json:"message,omitempty"`
}

// NewCheckResult builds a result for one named check.
func NewCheckResult(name string, status CheckStatus, details string) CheckResult {
	return CheckResult{Name: name, Status: status, Details: details}
}

// WithMessage returns a copy carrying a secondary upstream message.
func (r CheckResult) WithMessage(message string) CheckResult {
	r.Message = message
	return r
}
