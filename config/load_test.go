package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
[server]
url = "http://batch.internal:9090"

[console]
refresh_interval_seconds = 5

[log]
json = true
`)

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "http://batch.internal:9090", cfg.Server.URL)
	assert.Equal(t, 5, cfg.Console.RefreshIntervalSeconds)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[log]
json = false
`)

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, DefaultRefreshIntervalSeconds, cfg.Console.RefreshIntervalSeconds)
}

func TestLoadFromFileMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing scheme", Config{
			Server:  ServerConfig{URL: "localhost:8080"},
			Console: ConsoleConfig{RefreshIntervalSeconds: 1},
		}},
		{"unsupported scheme", Config{
			Server:  ServerConfig{URL: "ftp://host"},
			Console: ConsoleConfig{RefreshIntervalSeconds: 1},
		}},
		{"zero interval", Config{
			Server:  ServerConfig{URL: DefaultServerURL},
			Console: ConsoleConfig{RefreshIntervalSeconds: 0},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, Validate(&tc.cfg))
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := Config{
		Server:  ServerConfig{URL: DefaultServerURL},
		Console: ConsoleConfig{RefreshIntervalSeconds: DefaultRefreshIntervalSeconds},
	}
	assert.NoError(t, Validate(&cfg))
}

func TestRefreshIntervalDuration(t *testing.T) {
	c := ConsoleConfig{RefreshIntervalSeconds: 3}
	assert.Equal(t, "3s", c.RefreshInterval().String())
}
