package config

const (
	defaultListen     = ":8080"
	defaultOrigin     = "http://localhost:3000"
	defaultEndpoint   = "https://your-resource.openai.azure.com"
	defaultAPIKey     = "your-api-key-here"
	defaultAPIVersion = "2024-08-01-preview"
	defaultModel      = "gpt-4"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
//
// The endpoint and api_key defaults are recognizable placeholders. The
// upstream client treats them as "not configured" and the gateway serves
// canned fallback replies until real credentials are supplied.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Gateway: GatewayConfig{
			Listen:         defaultListen,
			AllowedOrigins: []string{defaultOrigin},
		},
		Upstream: UpstreamConfig{
			Endpoint:   defaultEndpoint,
			APIKey:     defaultAPIKey,
			APIVersion: defaultAPIVersion,
			Model:      defaultModel,
		},
		Moderation: ModerationConfig{
			ContentSafety:   true,
			ThreatDetection: true,
		},
	}
}
