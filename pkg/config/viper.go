package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if configDir is non-empty), and binds environment variables with the
// AEGIS_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command layer)
//  2. Environment variables (AEGIS_UPSTREAM_API_KEY, AEGIS_GATEWAY_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: AEGIS_UPSTREAM_ENDPOINT, AEGIS_AUDIT_SQLITE_PATH, etc.
	v.SetEnvPrefix("AEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Gateway
	v.SetDefault("gateway.listen", d.Gateway.Listen)
	v.SetDefault("gateway.allowed_origins", d.Gateway.AllowedOrigins)

	// Upstream
	v.SetDefault("upstream.endpoint", d.Upstream.Endpoint)
	v.SetDefault("upstream.api_key", d.Upstream.APIKey)
	v.SetDefault("upstream.deployment", d.Upstream.Deployment)
	v.SetDefault("upstream.api_version", d.Upstream.APIVersion)
	v.SetDefault("upstream.model", d.Upstream.Model)

	// Moderation
	v.SetDefault("moderation.content_safety", d.Moderation.ContentSafety)
	v.SetDefault("moderation.threat_detection", d.Moderation.ThreatDetection)

	// Audit
	v.SetDefault("audit.sqlite_path", d.Audit.SQLitePath)
}
