package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent aegis configuration stored as config.toml.
// The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Gateway    GatewayConfig    `toml:"gateway"`
	Upstream   UpstreamConfig   `toml:"upstream"`
	Moderation ModerationConfig `toml:"moderation"`
	Audit      AuditConfig      `toml:"audit"`
}

// GatewayConfig holds HTTP server settings.
type GatewayConfig struct {
	Listen         string   `toml:"listen,omitempty"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// UpstreamConfig holds the completion provider connection settings.
// When Deployment is set the provider is addressed in Azure deployment
// style; otherwise Endpoint is treated as an OpenAI-compatible base URL.
type UpstreamConfig struct {
	Endpoint   string `toml:"endpoint,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Deployment string `toml:"deployment,omitempty"`
	APIVersion string `toml:"api_version,omitempty"`
	Model      string `toml:"model,omitempty"`
}

// ModerationConfig toggles the moderation pipeline stages.
type ModerationConfig struct {
	ContentSafety   bool `toml:"content_safety"`
	ThreatDetection bool `toml:"threat_detection"`
}

// AuditConfig holds audit log storage settings.
type AuditConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"gateway.listen": {
		get: func(c *Config) string { return c.Gateway.Listen },
		set: func(c *Config, v string) error { c.Gateway.Listen = v; return nil },
	},
	"gateway.allowed_origins": {
		get: func(c *Config) string { return strings.Join(c.Gateway.AllowedOrigins, ",") },
		set: func(c *Config, v string) error {
			var origins []string
			for _, o := range strings.Split(v, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			c.Gateway.AllowedOrigins = origins
			return nil
		},
	},
	"upstream.endpoint": {
		get: func(c *Config) string { return c.Upstream.Endpoint },
		set: func(c *Config, v string) error { c.Upstream.Endpoint = v; return nil },
	},
	"upstream.api_key": {
		get: func(c *Config) string { return c.Upstream.APIKey },
		set: func(c *Config, v string) error { c.Upstream.APIKey = v; return nil },
	},
	"upstream.deployment": {
		get: func(c *Config) string { return c.Upstream.Deployment },
		set: func(c *Config, v string) error { c.Upstream.Deployment = v; return nil },
	},
	"upstream.api_version": {
		get: func(c *Config) string { return c.Upstream.APIVersion },
		set: func(c *Config, v string) error { c.Upstream.APIVersion = v; return nil },
	},
	"upstream.model": {
		get: func(c *Config) string { return c.Upstream.Model },
		set: func(c *Config, v string) error { c.Upstream.Model = v; return nil },
	},
	"moderation.content_safety": {
		get: func(c *Config) string { return strconv.FormatBool(c.Moderation.ContentSafety) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for moderation.content_safety: %w", err)
			}
			c.Moderation.ContentSafety = b
			return nil
		},
	},
	"moderation.threat_detection": {
		get: func(c *Config) string { return strconv.FormatBool(c.Moderation.ThreatDetection) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for moderation.threat_detection: %w", err)
			}
			c.Moderation.ThreatDetection = b
			return nil
		},
	},
	"audit.sqlite_path": {
		get: func(c *Config) string { return c.Audit.SQLitePath },
		set: func(c *Config, v string) error { c.Audit.SQLitePath = v; return nil },
	},
}
