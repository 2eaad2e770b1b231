package config

import "github.com/spf13/viper"

// Defaults for a local platform and the original console cadence.
const (
	DefaultServerURL              = "http://localhost:8080"
	DefaultRefreshIntervalSeconds = 1
)

// SetDefaults registers configuration defaults on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("console.refresh_interval_seconds", DefaultRefreshIntervalSeconds)
	v.SetDefault("log.json", false)
}
