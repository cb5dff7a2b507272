package domain

// Check IDs used to toggle individual probes.
const (
	CheckIDCPURAM    = "cpu_ram"
	CheckIDGPU       = "gpu"
	CheckIDInternet  = "internet"
	CheckIDClaude    = "claude"
	CheckIDOpenAI    = "openai"
	CheckIDGoogleAI  = "google_ai"
	CheckIDOpenCode  = "opencode"
	CheckIDTerminals = "terminals"
)

// CheckOption describes one toggleable diagnostic check.
type CheckOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// CheckEnabled reports whether the check with the given ID is switched on.
// Unknown IDs read as disabled.
func (s Settings) CheckEnabled(id string) bool {
	switch id {
	case CheckIDCPURAM:
		return s.CheckCPURAM
	case CheckIDGPU:
		return s.CheckGPU
	case CheckIDInternet:
		return s.CheckInternet
	case CheckIDClaude:
		return s.CheckClaude
	case CheckIDOpenAI:
		return s.CheckOpenAI
	case CheckIDGoogleAI:
		return s.CheckGoogleAI
	case CheckIDOpenCode:
		return s.CheckOpenCode
	case CheckIDTerminals:
		return s.CheckTerminals
	default:
		return false
	}
}

// SetCheckEnabled toggles the check with the given ID and reports whether
// the ID was recognized.
func (s *Settings) SetCheckEnabled(id string, enabled bool) bool {
	switch id {
	case CheckIDCPURAM:
		s.CheckCPURAM = enabled
	case CheckIDGPU:
		s.CheckGPU = enabled
	case CheckIDInternet:
		s.CheckInternet = enabled
	case CheckIDClaude:
		s.CheckClaude = enabled
	case CheckIDOpenAI:
		s.CheckOpenAI = enabled
	case CheckIDGoogleAI:
		s.CheckGoogleAI = enabled
	case CheckIDOpenCode:
		s.CheckOpenCode = enabled
	case CheckIDTerminals:
		s.CheckTerminals = enabled
	default:
		return false
	}
	return true
}
