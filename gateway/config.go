package gateway

// Config holds the gateway server configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string

	// AllowedOrigins are the CORS origins permitted to call the gateway.
	AllowedOrigins []string

	// ContentSafety enables the content-safety analyzer by default.
	// Requests can still disable it per call.
	ContentSafety bool

	// ThreatDetection enables the threat detector by default.
	ThreatDetection bool
}
