package llm

// ChatCompletionResponse is the canonical completion shape. Every upstream
// response (and the fallback/demo path) is coerced into this contract before
// it leaves the gateway.
type ChatCompletionResponse struct {
	// ID is the provider-assigned completion id ("demo-<ms>" in demo mode).
	ID string `json:"id"`

	// Created is the completion timestamp in unix seconds.
	Created int64 `json:"created"`

	// Model that generated the response
	Model string `json:"model"`

	// Choices in provider order. Index 0 is the primary completion.
	Choices []Choice `json:"choices"`

	// Usage is nil when the provider did not report token usage.
	Usage *Usage `json:"usage,omitempty"`
}

// Choice is a single completion alternative.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finishReason"`
}

// Usage contains token counts reported by the upstream provider.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// FirstContent returns the content of the first choice's message, or the
// empty string when the response has no choices.
func (r *ChatCompletionResponse) FirstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
