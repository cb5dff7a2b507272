package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"opencode-diag/internal/domain"
)

// appDirName is the per-user directory holding this app's files.
const appDirName = "opencode-diag"

// DefaultPath returns the settings location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, "settings.json")
}

// DefaultSettings returns the compiled-in configuration for first launch.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		CheckCPURAM:   true,
		CheckGPU:      false, // WMI queries misbehave on some hosts
		CheckInternet: true,
		CheckClaude:   true,
		CheckOpenCode: true,

		AutoRefresh:         false,
		RefreshIntervalSecs: 60,
		UIScale:             1.0,
		MaxHistoryEntries:   10,
	}
}
