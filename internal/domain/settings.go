package domain

import "fmt"

// UI scale bounds enforced by AdjustScale.
const (
	MinUIScale = 0.75
	MaxUIScale = 2.5
)

// Settings contains user-selectable probe toggles and refresh behavior.
// JSON keys are fixed so settings files survive upgrades.
type Settings struct {
	CheckCPURAM    bool `json:"check_cpu_ram"`
	CheckGPU       bool `json:"check_gpu"`
	CheckInternet  bool `json:"check_internet"`
	CheckClaude    bool `json:"check_claude"`
	CheckOpenAI    bool `json:"check_openai"`
	CheckGoogleAI  bool `json:"check_google_ai"`
	CheckOpenCode  bool `json:"check_opencode"`
	CheckTerminals bool `json:"check_terminals"`

	AutoRefresh         bool    `json:"auto_refresh"`
	RefreshIntervalSecs int     `json:"refresh_interval_secs"`
	UIScale             float64 `json:"ui_scale"`
	MaxHistoryEntries   int     `json:"max_history_entries"`
}

// RefreshPreset is one selectable auto-refresh interval.
type RefreshPreset struct {
	Secs  int
	Label string
}

// RefreshPresets lists the selectable auto-refresh intervals in menu order.
var RefreshPresets = []RefreshPreset{
	{Secs: 30, Label: "30s"},
	{Secs: 60, Label: "1m"},
	{Secs: 120, Label: "2m"},
	{Secs: 300, Label: "5m"},
}

// ScalePreset is one selectable UI scale factor.
type ScalePreset struct {
	Scale float64
	Label string
}

// ScalePresets lists the selectable UI scale factors in menu order.
var ScalePresets = []ScalePreset{
	{Scale: 1.0, Label: "100%"},
	{Scale: 1.25, Label: "125%"},
	{Scale: 1.5, Label: "150%"},
	{Scale: 2.0, Label: "200%"},
}

// EnabledCount returns how many probes are switched on.
func (s Settings) EnabledCount() int {
	count := 0
	for _, enabled := range []bool{
		s.CheckCPURAM,
		s.CheckGPU,
		s.CheckInternet,
		s.CheckClaude,
		s.CheckOpenAI,
		s.CheckGoogleAI,
		s.CheckOpenCode,
		s.CheckTerminals,
	} {
		if enabled {
			count++
		}
	}
	return count
}

// RefreshPresetIndex returns the preset matching the current interval, or
// the one-minute preset when the interval is custom.
func (s Settings) RefreshPresetIndex() int {
	for i, preset := range RefreshPresets {
		if preset.Secs == s.RefreshIntervalSecs {
			return i
		}
	}
	return 1
}

// SetRefreshPreset switches the interval to the given preset; out-of-range
// indexes are ignored.
func (s *Settings) SetRefreshPreset(index int) {
	if index < 0 || index >= len(RefreshPresets) {
		return
	}
	s.RefreshIntervalSecs = RefreshPresets[index].Secs
}

// FormatInterval renders the current interval in whole minutes when it is
// at least one minute, otherwise in seconds.
func (s Settings) FormatInterval() string {
	if s.RefreshIntervalSecs >= 60 {
		return fmt.Sprintf("%dm", s.RefreshIntervalSecs/60)
	}
	return fmt.Sprintf("%ds", s.RefreshIntervalSecs)
}

// ScalePresetIndex returns the preset matching the current scale, or false
// when the scale was adjusted to a custom value.
func (s Settings) ScalePresetIndex() (int, bool) {
	for i, preset := range ScalePresets {
		if diff := preset.Scale - s.UIScale; diff > -0.01 && diff < 0.01 {
			return i, true
		}
	}
	return 0, false
}

// SetScalePreset switches the scale to the given preset; out-of-range
// indexes are ignored.
func (s *Settings) SetScalePreset(index int) {
	if index < 0 || index >= len(ScalePresets) {
		return
	}
	s.UIScale = ScalePresets[index].Scale
}

// AdjustScale nudges the scale by delta, clamped to the supported range.
func (s *Settings) AdjustScale(delta float64) {
	scale := s.UIScale + delta
	if scale < MinUIScale {
		scale = MinUIScale
	}
	if scale > MaxUIScale {
		scale = MaxUIScale
	}
	s.UIScale = scale
}

// FormatScale renders the current scale as a whole percentage.
func (s Settings) FormatScale() string {
	return fmt.Sprintf("%d%%", int(s.UIScale*100+0.5))
}
