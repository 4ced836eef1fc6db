package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load resolves the config: defaults, then the first config file found,
// then flags. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolvePath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolvePath prefers --config over the search locations.
func resolvePath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile returns ./config.yaml or UserConfigPath, whichever exists
// first, or "".
func findConfigFile() string {
	for _, path := range []string{"./config.yaml", UserConfigPath()} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir is the per-user directory holding config.yaml.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "BlobScene")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "BlobScene")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "blobscene")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "blobscene")
	}
}

// UserConfigPath is the config file inside ConfigDir.
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// loadFromFile overlays the YAML at path onto cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
