package moderation

import (
	"fmt"

	"github.com/papercomputeco/aegis/pkg/contentsafety"
)

// ValidationError indicates a malformed inbound request (absent or empty
// messages). It is resolved before any classifier runs and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UpstreamError wraps a failed provider call after classification. When the
// failure maps to a known content-safety category, Safety carries the
// classification with its explanatory text; otherwise Safety is nil and the
// failure is a generic provider fault. Cause retains the original error for
// logs only; it is never surfaced to end callers.
type UpstreamError struct {
	Safety *contentsafety.Error
	Cause  error
}

func (e *UpstreamError) Error() string {
	if e.Safety != nil {
		return fmt.Sprintf("upstream rejected request: %s", e.Safety.Title)
	}
	return fmt.Sprintf("upstream call failed: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
