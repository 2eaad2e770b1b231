// Package config manages batchtop configuration: TOML files layered with
// BATCHTOP_* environment variables, persistence of operator-chosen
// settings, and hot-reload on file changes.
package config

import "time"

// Config is the batchtop configuration root.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Console ConsoleConfig `mapstructure:"console"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig locates the batch platform.
type ServerConfig struct {
	// URL is the platform base URL, e.g. "http://localhost:8080".
	URL string `mapstructure:"url"`
}

// ConsoleConfig tunes the console's polling behavior.
type ConsoleConfig struct {
	// RefreshIntervalSeconds drives the metrics timer directly; the trend
	// timer uses the same interval floored at 5 seconds.
	RefreshIntervalSeconds int `mapstructure:"refresh_interval_seconds"`
}

// LogConfig configures the observability sink.
type LogConfig struct {
	// JSON switches the logger to structured JSON output.
	JSON bool `mapstructure:"json"`
}

// RefreshInterval returns the configured refresh interval as a duration.
func (c ConsoleConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
