package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultAPIConfigPath is the settings file read at startup, relative to the
// working directory.
const DefaultAPIConfigPath = "api_config.json"

// APIConfig is the persisted settings record.
type APIConfig struct {
	APIKey      string  `json:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Temperature float64 `json:"temperature"`
}

// LoadAPIConfig reads path. A missing file yields the zero record and fields
// absent from the file keep their zero value.
func LoadAPIConfig(path string) (APIConfig, error) {
	var cfg APIConfig

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("settings: load api config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return APIConfig{}, fmt.Errorf("settings: parse api config: %w", err)
	}

	return cfg, nil
}

// SaveAPIConfig overwrites path with cfg.
func SaveAPIConfig(path string, cfg APIConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal api config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("settings: save api config: %w", err)
	}

	return nil
}
