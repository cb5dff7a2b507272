package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"opencode-diag/internal/domain"
)

// Store defines persistence operations for app settings.
type Store interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error
}

// JSONStore persists settings in a single JSON file on disk.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-backed settings store.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads settings from disk. A missing file yields the defaults; an
// unreadable or corrupt file yields the defaults alongside the error, so
// callers always receive usable settings.
func (s *JSONStore) Load() (domain.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}

		return DefaultSettings(), errors.Wrap(err, "read settings file")
	}

	var cfg domain.Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultSettings(), errors.Wrap(err, "parse settings file")
	}

	return cfg, nil
}

// Save writes settings as indented JSON and creates parent directories.
func (s *JSONStore) Save(cfg domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create settings directory")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrap(err, "write settings file")
	}

	return nil
}
