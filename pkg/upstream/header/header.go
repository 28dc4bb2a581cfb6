// Package header extracts diagnostic headers from upstream provider
// responses. Providers embed structured error context in response headers
// (request ids, content-filter invocation flags, rate-limit counters); the
// gateway captures an allowlisted subset for error classification and audit
// logging rather than forwarding arbitrary upstream headers to clients.
package header

import "net/http"

// RequestIDHeader carries the provider-assigned request id on both success
// and error responses.
const RequestIDHeader = "apim-request-id"

// diagnostic is the allowlist of upstream response headers worth keeping.
// Everything else is dropped.
var diagnostic = []string{
	RequestIDHeader,
	"x-ms-rai-invoked",
	"x-ms-deployment-name",
	"x-ms-region",
	"x-ratelimit-remaining-requests",
	"x-ratelimit-limit-requests",
}

// Diagnostics returns the allowlisted headers present in h, keyed by their
// canonical lower-case names. Absent headers are simply omitted; the result
// may be empty but is never nil.
func Diagnostics(h http.Header) map[string]string {
	out := make(map[string]string)
	for _, name := range diagnostic {
		if v := h.Get(name); v != "" {
			out[name] = v
		}
	}
	return out
}

// RequestID returns the provider request id, or the empty string when the
// response did not carry one.
func RequestID(h http.Header) string {
	return h.Get(RequestIDHeader)
}
