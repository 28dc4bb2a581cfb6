// Package llm defines the canonical chat completion types used across the
// gateway. Upstream provider responses are normalized into these shapes, and
// the fallback/demo path produces them directly, so callers always see one
// response contract regardless of where the completion came from.
package llm

// Message roles. Order in a conversation is chronological and semantically
// meaningful; the gateway never reorders messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
// Messages are immutable once constructed.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// NewAssistantMessage creates an assistant-role message with the given text.
func NewAssistantMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: text}
}
