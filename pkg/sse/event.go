// Package sse provides a minimal SSE (Server-Sent Events) reader for
// consuming streaming chat completion responses from an upstream provider.
// It parses the newline-delimited "data: <payload>" framing used by
// OpenAI-compatible APIs; it intentionally does NOT provide SSE writer or
// server capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// DoneSentinel is the literal data payload that signals normal end of an
// OpenAI-compatible completion stream.
const DoneSentinel = "[DONE]"

// Event represents a single parsed SSE event, delimited by a blank line in
// the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}

// Done reports whether the event is the end-of-stream sentinel.
func (e *Event) Done() bool {
	return e.Data == DoneSentinel
}
