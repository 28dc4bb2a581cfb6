// Package upstream implements the chat completions client for the hosted
// LLM provider. It normalizes gateway requests into the provider's wire
// format, applies generation-parameter defaults, and coerces the provider's
// response shapes (including streamed deltas and structured errors) back
// into the canonical llm types.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/pkg/llm"
)

// Generation-parameter defaults applied when the request leaves them unset.
const (
	DefaultTemperature      = 0.7
	DefaultMaxTokens        = 800
	DefaultTopP             = 0.95
	DefaultFrequencyPenalty = 0.0
	DefaultPresencePenalty  = 0.0
)

// defaultAPIVersion is the provider API version used when none is configured.
const defaultAPIVersion = "2024-08-01-preview"

// Placeholder config values that count as "not configured". Shipping configs
// carry these so a fresh checkout runs in demo mode instead of sending
// requests with junk credentials.
const (
	placeholderEndpoint = "https://your-resource.openai.azure.com"
	placeholderAPIKey   = "your-api-key-here"
)

// Config is the upstream provider configuration. It is read-only after
// process start; the client never mutates it per request.
type Config struct {
	// Endpoint is the provider base URL.
	Endpoint string

	// APIKey authenticates requests. Sent as an "api-key" header in
	// deployment mode, or a bearer token otherwise.
	APIKey string

	// Deployment selects deployment-scoped routing
	// (<endpoint>/openai/deployments/<deployment>/chat/completions).
	// When empty the client speaks the plain OpenAI-compatible
	// <endpoint>/chat/completions route.
	Deployment string

	// APIVersion is the api-version query parameter for deployment-scoped
	// routing. Defaults to defaultAPIVersion.
	APIVersion string

	// Model is the model name sent on OpenAI-compatible requests.
	// Deployment-scoped routing encodes the model in the URL instead.
	Model string
}

// Configured reports whether the config carries real credentials. Empty or
// placeholder endpoint/key values mean the gateway should serve fallback
// responses rather than attempt an upstream call.
func (c Config) Configured() bool {
	if c.Endpoint == "" || c.Endpoint == placeholderEndpoint {
		return false
	}
	if c.APIKey == "" || c.APIKey == placeholderAPIKey {
		return false
	}
	return true
}

// Client calls the upstream chat completions API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new Client.
func New(config Config, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			// LLM requests can be slow; generation regularly takes minutes.
			Timeout: 5 * time.Minute,
		},
	}
}

// Configured reports whether the client has real credentials to call with.
func (c *Client) Configured() bool {
	return c.config.Configured()
}

// Complete sends a chat completion request and returns the normalized
// response. A non-success status yields a *ProviderError carrying the parsed
// ErrorInfo for classification.
func (c *Client) Complete(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	httpResp, err := c.send(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, newProviderError(httpResp.StatusCode, body, httpResp.Header)
	}

	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing upstream response: %w", err)
	}

	return normalizeResponse(&resp), nil
}

// Stream sends a streaming chat completion request and returns a Stream of
// text fragments. The caller must Close the stream; a stream is not
// restartable, retrying means issuing a new call.
func (c *Client) Stream(ctx context.Context, req *llm.ChatCompletionRequest) (*Stream, error) {
	httpResp, err := c.send(ctx, req, true)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		return nil, newProviderError(httpResp.StatusCode, body, httpResp.Header)
	}

	return newStream(httpResp.Body, c.logger), nil
}

// send normalizes the request onto the wire and performs the HTTP exchange.
func (c *Client) send(ctx context.Context, req *llm.ChatCompletionRequest, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(c.normalizeRequest(req, stream))
	if err != nil {
		return nil, fmt.Errorf("encoding upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.Deployment != "" {
		httpReq.Header.Set("api-key", c.config.APIKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	c.logger.Debug("forwarding request to upstream",
		zap.String("url", c.completionsURL()),
		zap.Bool("stream", stream),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	return httpResp, nil
}

// completionsURL builds the chat completions endpoint URL for the configured
// routing mode.
func (c *Client) completionsURL() string {
	endpoint := strings.TrimSuffix(c.config.Endpoint, "/")

	if c.config.Deployment != "" {
		apiVersion := c.config.APIVersion
		if apiVersion == "" {
			apiVersion = defaultAPIVersion
		}
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			endpoint, c.config.Deployment, apiVersion)
	}

	return endpoint + "/chat/completions"
}

// normalizeRequest applies generation-parameter defaults and converts the
// canonical request into the provider wire format. The mapping is total:
// every wire field is populated, from the request when set and from the
// documented defaults otherwise.
func (c *Client) normalizeRequest(req *llm.ChatCompletionRequest, stream bool) *wireRequest {
	messages := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	wire := &wireRequest{
		Messages:         messages,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
		Stream:           stream,
	}

	if c.config.Deployment == "" {
		wire.Model = c.config.Model
	}

	if req.Temperature != nil {
		wire.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		wire.MaxTokens = *req.MaxTokens
	}
	if req.TopP != nil {
		wire.TopP = *req.TopP
	}
	if req.FrequencyPenalty != nil {
		wire.FrequencyPenalty = *req.FrequencyPenalty
	}
	if req.PresencePenalty != nil {
		wire.PresencePenalty = *req.PresencePenalty
	}

	return wire
}

// normalizeResponse coerces the provider response into the canonical shape.
// Usage stays nil when the provider did not report it.
func normalizeResponse(resp *wireResponse) *llm.ChatCompletionResponse {
	choices := make([]llm.Choice, 0, len(resp.Choices))
	for _, ch := range resp.Choices {
		choices = append(choices, llm.Choice{
			Index: ch.Index,
			Message: llm.ChatMessage{
				Role:    ch.Message.Role,
				Content: ch.Message.Content,
			},
			FinishReason: ch.FinishReason,
		})
	}

	out := &llm.ChatCompletionResponse{
		ID:      resp.ID,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: choices,
	}

	if resp.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out
}
