package contentsafety

import "github.com/papercomputeco/aegis/pkg/upstream"

// Details holds structured diagnostic fields extracted from a provider
// error for logging and audit. All fields are optional; absence of any
// field in the source error is tolerated.
type Details struct {
	RequestID string            `json:"requestId,omitempty"`
	Code      string            `json:"code,omitempty"`
	InnerCode string            `json:"innerCode,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// ExtractDetails pulls the diagnostic fields out of a typed provider error.
func ExtractDetails(info upstream.ErrorInfo) Details {
	return Details{
		RequestID: info.RequestID,
		Code:      info.Code,
		InnerCode: info.InnerCode,
		Headers:   info.Headers,
	}
}
