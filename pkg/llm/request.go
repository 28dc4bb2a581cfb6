package llm

// ChatCompletionRequest is the gateway-internal chat completion request.
// Generation parameters are pointers so that "unset" is distinguishable from
// an explicit zero; the upstream client applies defaults before transmission.
type ChatCompletionRequest struct {
	// Conversation messages, oldest first. Must be non-empty for a valid
	// request; validation happens in the moderation pipeline before any
	// classifier or upstream call.
	Messages []ChatMessage `json:"messages"`

	// Generation parameters
	MaxTokens        *int     `json:"maxTokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
}

// LastUserMessage returns the content of the most recent user-role message,
// or the empty string if the conversation has none. An absent user message
// is not an error; the classifiers simply see empty input.
func (r *ChatCompletionRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}
