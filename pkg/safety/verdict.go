// Package safety implements the gateway's request-side heuristics: a keyword
// content-safety analyzer, a regex threat detector, and the canned fallback
// responder used when no upstream provider is configured.
//
// The matching here is intentionally naive keyword/regex screening meant to
// demonstrate the interception pipeline, not a production content-safety
// model. Verdicts are derived fresh per request and never persisted by this
// package.
package safety

// Severity is the coarse risk level attached to a SafetyVerdict.
type Severity string

const (
	SeverityNone   Severity = "NONE"
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// SafetyVerdict is the result of content-safety analysis over a single text.
type SafetyVerdict struct {
	// IsSafe is true iff no risk category matched.
	IsSafe bool `json:"isSafe"`

	// Categories lists the matched risk categories, in match order.
	Categories []string `json:"categories"`

	// Severity is HIGH when any category matched, NONE otherwise.
	Severity Severity `json:"severity"`
}

// ThreatVerdict is the result of threat-pattern detection over a single text.
type ThreatVerdict struct {
	// Detected is true iff at least one threat pattern matched.
	Detected bool `json:"detected"`

	// Threats lists every matched threat label, in pattern order.
	Threats []string `json:"threats"`

	// Confidence is detectionConfidence when any threat matched, 0 otherwise.
	Confidence float64 `json:"confidence"`
}
