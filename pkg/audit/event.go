// Package audit defines the security audit log: one append-only event per
// handled chat request, recording how the moderation pipeline resolved it.
// Events are written asynchronously by the gateway's worker pool so the
// request hot path never blocks on storage.
package audit

import "time"

// Event is a single audit log entry.
type Event struct {
	// ID is a unique event id (uuid).
	ID string `json:"id"`

	// Time is when the request finished.
	Time time.Time `json:"time"`

	// Outcome is the pipeline resolution ("completed", "safety_blocked",
	// "threat_blocked", "fallback", "upstream_error", "rejected").
	Outcome string `json:"outcome"`

	// Model is the model that served the request, when one did.
	Model string `json:"model,omitempty"`

	// Categories lists content-safety risk categories that matched.
	Categories []string `json:"categories,omitempty"`

	// Threats lists threat-detection labels that matched.
	Threats []string `json:"threats,omitempty"`

	// ErrorCategory is the content-safety classification of an upstream
	// rejection, when one applied.
	ErrorCategory string `json:"errorCategory,omitempty"`

	// DurationMs is the request handling time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}
