package llm

// ErrorResponse is the generic error payload returned to HTTP clients.
// Message carries optional human-readable detail; stack traces and raw
// provider internals are never placed here.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
