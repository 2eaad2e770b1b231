package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/batchtop/errors"
	"github.com/teranos/batchtop/internal/httpclient"
)

const configFileName = "config.toml"

var (
	mu           sync.Mutex
	globalConfig *Config
)

// Load reads the batchtop configuration: defaults, then the user config
// file if present, then BATCHTOP_* environment variables. The result is
// cached for the process lifetime; Reset clears the cache for tests.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v := newViper()
	path := UserConfigPath()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "failed to read config file %s", path)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path, bypassing
// the cache. Used by the watcher and by tests.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", path)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
}

// UserConfigPath returns the path of the user config file,
// ~/.batchtop/config.toml, or "" when the home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".batchtop", configFileName)
}

// Validate checks configuration invariants.
func Validate(cfg *Config) error {
	if _, err := httpclient.ValidateBaseURL(cfg.Server.URL); err != nil {
		return errors.Wrap(err, "server.url")
	}
	if cfg.Console.RefreshIntervalSeconds < 1 {
		return errors.Newf("console.refresh_interval_seconds must be at least 1, got %d",
			cfg.Console.RefreshIntervalSeconds)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("BATCHTOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}
