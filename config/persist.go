package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/batchtop/errors"
)

// SaveRefreshInterval durably records an operator-chosen refresh interval
// in the config file at path, preserving any other settings the file
// holds. The previous file content is kept as a .back sibling.
func SaveRefreshInterval(path string, seconds int) error {
	if seconds < 1 {
		return errors.Newf("refresh interval must be at least 1 second, got %d", seconds)
	}

	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	consoleSection, ok := settings["console"].(map[string]any)
	if !ok {
		consoleSection = map[string]any{}
	}
	consoleSection["refresh_interval_seconds"] = seconds
	settings["console"] = consoleSection

	return writeSettings(path, settings)
}

// readSettings loads the TOML file at path as a generic tree, or an empty
// tree when the file does not exist yet.
func readSettings(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	settings := map[string]any{}
	if err := toml.Unmarshal(content, &settings); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return settings, nil
}

// writeSettings backs up and rewrites the config file.
func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create config directory for %s", path)
	}

	if current, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".back", current, 0o644); err != nil {
			return errors.Wrap(err, "failed to back up config file")
		}
	}

	encoded, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}
