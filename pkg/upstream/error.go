package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/papercomputeco/aegis/pkg/upstream/header"
)

// ErrorInfo is the typed view of a failed provider call. It is populated
// once at the client boundary so downstream consumers (the error classifier,
// audit logging) operate on a fixed structure instead of probing an opaque
// error value. Every field except StatusCode is optional; absence means the
// provider did not report it.
type ErrorInfo struct {
	// StatusCode is the HTTP status of the failed call.
	StatusCode int `json:"statusCode"`

	// Message is the provider's error message, or the raw body when the
	// body was not a recognizable error envelope.
	Message string `json:"message"`

	// Code is the top-level provider error code (e.g. "content_filter").
	Code string `json:"code,omitempty"`

	// InnerCode is the nested error.innererror.code, when present.
	InnerCode string `json:"innerCode,omitempty"`

	// RequestID is the provider-assigned request id from response headers.
	RequestID string `json:"requestId,omitempty"`

	// Headers holds the allowlisted diagnostic response headers.
	Headers map[string]string `json:"headers,omitempty"`
}

// ProviderError is returned when the upstream call completes with a
// non-success status. It carries the raw body for diagnostics and the parsed
// ErrorInfo for classification.
type ProviderError struct {
	Info ErrorInfo

	// Body is the raw response body text, preserved for logs. It is never
	// surfaced to end callers directly.
	Body string
}

func (e *ProviderError) Error() string {
	if e.Info.Code != "" {
		return fmt.Sprintf("upstream request failed: %d %s: %s", e.Info.StatusCode, e.Info.Code, e.Info.Message)
	}
	return fmt.Sprintf("upstream request failed: %d: %s", e.Info.StatusCode, e.Info.Message)
}

// newProviderError builds a ProviderError from a failed HTTP response body
// and headers. The body is parsed as a provider error envelope on a
// best-effort basis; an unparseable body becomes the message verbatim.
func newProviderError(statusCode int, body []byte, h http.Header) *ProviderError {
	info := ErrorInfo{
		StatusCode: statusCode,
		Message:    string(body),
		RequestID:  header.RequestID(h),
		Headers:    header.Diagnostics(h),
	}

	var envelope wireError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		info.Message = envelope.Error.Message
		info.Code = envelope.Error.Code
		info.InnerCode = envelope.Error.InnerError.Code
	}

	return &ProviderError{Info: info, Body: string(body)}
}
