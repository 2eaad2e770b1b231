package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRefreshIntervalRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, SaveRefreshInterval(path, 7))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Console.RefreshIntervalSeconds)
}

func TestSaveRefreshIntervalPreservesOtherSettings(t *testing.T) {
	path := writeConfigFile(t, `
[server]
url = "http://batch.internal:9090"

[console]
refresh_interval_seconds = 1
`)

	require.NoError(t, SaveRefreshInterval(path, 30))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://batch.internal:9090", cfg.Server.URL)
	assert.Equal(t, 30, cfg.Console.RefreshIntervalSeconds)
}

func TestSaveRefreshIntervalKeepsBackup(t *testing.T) {
	path := writeConfigFile(t, `
[console]
refresh_interval_seconds = 1
`)

	require.NoError(t, SaveRefreshInterval(path, 2))

	backup, err := os.ReadFile(path + ".back")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "refresh_interval_seconds = 1")
}

func TestSaveRefreshIntervalRejectsNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	assert.Error(t, SaveRefreshInterval(path, 0))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeConfigFile(t, `
[console]
refresh_interval_seconds = 1
`)

	w, err := NewWatcher(path)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	defer w.Stop()

	reloaded := make(chan int, 1)
	w.OnReload(func(cfg *Config) error {
		select {
		case reloaded <- cfg.Console.RefreshIntervalSeconds:
		default:
		}
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte(`
[console]
refresh_interval_seconds = 9
`), 0o644))

	select {
	case seconds := <-reloaded:
		assert.Equal(t, 9, seconds)
	case <-time.After(3 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcherSuppressesOwnWrite(t *testing.T) {
	path := writeConfigFile(t, `
[console]
refresh_interval_seconds = 1
`)

	w, err := NewWatcher(path)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	defer w.Stop()

	reloads := make(chan struct{}, 8)
	w.OnReload(func(*Config) error {
		reloads <- struct{}{}
		return nil
	})
	w.Start()

	w.MarkOwnWrite()
	require.NoError(t, SaveRefreshInterval(path, 4))

	select {
	case <-reloads:
		t.Fatal("own write must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
