package bootstrap

import (
	"strings"

	"github.com/cockroachdb/errors"

	"opencode-diag/internal/domain"
)

var checkCatalog = []domain.CheckOption{
	{
		ID:          domain.CheckIDCPURAM,
		Name:        "CPU & RAM",
		Description: "Processor load and memory pressure on this machine.",
	},
	{
		ID:          domain.CheckIDGPU,
		Name:        "GPU",
		Description: "Video controllers reported by the system.",
	},
	{
		ID:          domain.CheckIDInternet,
		Name:        "Internet",
		Description: "Connectivity to google.com with a Cloudflare fallback.",
	},
	{
		ID:          domain.CheckIDClaude,
		Name:        "Claude API",
		Description: "Reachability of api.anthropic.com.",
	},
	{
		ID:          domain.CheckIDOpenAI,
		Name:        "OpenAI API",
		Description: "Reachability of api.openai.com.",
	},
	{
		ID:          domain.CheckIDGoogleAI,
		Name:        "Google AI API",
		Description: "Reachability of generativelanguage.googleapis.com.",
	},
	{
		ID:          domain.CheckIDOpenCode,
		Name:        "OpenCode",
		Description: "Presence and memory footprint of the OpenCode process.",
	},
	{
		ID:          domain.CheckIDTerminals,
		Name:        "Terminals",
		Description: "Open terminal sessions and their combined memory.",
	},
}

// GetCheckOptions returns the toggleable checks with their current enabled
// state from the cached settings.
func (a *App) GetCheckOptions() []domain.CheckOption {
	options := make([]domain.CheckOption, len(checkCatalog))
	copy(options, checkCatalog)

	settings := a.currentSettings()
	for i := range options {
		options[i].Enabled = settings.CheckEnabled(options[i].ID)
	}
	return options
}

// SetCheckEnabled toggles one check and persists the updated settings.
func (a *App) SetCheckEnabled(checkID string, enabled bool) (domain.Settings, error) {
	id := strings.TrimSpace(checkID)
	if id == "" {
		return domain.Settings{}, errors.New("check id is required")
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, errors.Wrap(err, "load settings")
	}
	settings = normalizeSettings(settings)

	if !settings.SetCheckEnabled(id, enabled) {
		return domain.Settings{}, errors.Newf("unknown check id: %s", id)
	}

	if err := a.Store.Save(settings); err != nil {
		return domain.Settings{}, errors.Wrap(err, "save settings")
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}
