package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aegis/pkg/llm"
	"github.com/papercomputeco/aegis/pkg/logger"
)

// capturedRequest holds what the test upstream observed.
type capturedRequest struct {
	path    string
	headers http.Header
	body    map[string]any
}

// newCapturingUpstream returns an httptest server that records the inbound
// request and replies with the given status and body.
func newCapturingUpstream(status int, respBody string, captured *capturedRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path + "?" + r.URL.RawQuery
		captured.headers = r.Header.Clone()

		raw, err := io.ReadAll(r.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(raw, &captured.body)).To(Succeed())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
}

const okResponse = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

var _ = Describe("Client", func() {
	Describe("Configured", func() {
		It("is false for placeholder values", func() {
			c := New(Config{
				Endpoint: "https://your-resource.openai.azure.com",
				APIKey:   "your-api-key-here",
			}, logger.Nop())

			Expect(c.Configured()).To(BeFalse())
		})

		It("is false for empty values", func() {
			Expect(New(Config{}, logger.Nop()).Configured()).To(BeFalse())
		})

		It("is true for real values", func() {
			c := New(Config{
				Endpoint: "https://llm.example.com",
				APIKey:   "sk-test",
			}, logger.Nop())

			Expect(c.Configured()).To(BeTrue())
		})
	})

	Describe("Complete", func() {
		var captured capturedRequest

		BeforeEach(func() {
			captured = capturedRequest{}
		})

		It("applies generation-parameter defaults when the request leaves them unset", func() {
			srv := newCapturingUpstream(http.StatusOK, okResponse, &captured)
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL, APIKey: "sk-test", Model: "gpt-4"}, logger.Nop())

			_, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(captured.body["temperature"]).To(Equal(0.7))
			Expect(captured.body["max_tokens"]).To(Equal(float64(800)))
			Expect(captured.body["top_p"]).To(Equal(0.95))
			Expect(captured.body["frequency_penalty"]).To(Equal(0.0))
			Expect(captured.body["presence_penalty"]).To(Equal(0.0))
			Expect(captured.body["model"]).To(Equal("gpt-4"))
		})

		It("honors explicit generation parameters", func() {
			srv := newCapturingUpstream(http.StatusOK, okResponse, &captured)
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL, APIKey: "sk-test"}, logger.Nop())

			temp := 0.2
			maxTokens := 64
			_, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages:    []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
				Temperature: &temp,
				MaxTokens:   &maxTokens,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(captured.body["temperature"]).To(Equal(0.2))
			Expect(captured.body["max_tokens"]).To(Equal(float64(64)))
		})

		It("sends bearer auth on the plain completions route", func() {
			srv := newCapturingUpstream(http.StatusOK, okResponse, &captured)
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL, APIKey: "sk-test"}, logger.Nop())

			_, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(captured.headers.Get("Authorization")).To(Equal("Bearer sk-test"))
			Expect(captured.path).To(HavePrefix("/chat/completions"))
		})

		It("sends api-key auth on the deployment route with an api-version", func() {
			srv := newCapturingUpstream(http.StatusOK, okResponse, &captured)
			defer srv.Close()

			c := New(Config{
				Endpoint:   srv.URL,
				APIKey:     "azure-key",
				Deployment: "gpt4-prod",
			}, logger.Nop())

			_, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(captured.headers.Get("api-key")).To(Equal("azure-key"))
			Expect(captured.headers.Get("Authorization")).To(BeEmpty())
			Expect(captured.path).To(Equal("/openai/deployments/gpt4-prod/chat/completions?api-version=2024-08-01-preview"))

			// Deployment routing encodes the model in the URL, not the body.
			Expect(captured.body).NotTo(HaveKey("model"))
		})

		It("normalizes the provider response", func() {
			srv := newCapturingUpstream(http.StatusOK, okResponse, &captured)
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL, APIKey: "sk-test"}, logger.Nop())

			resp, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.ID).To(Equal("chatcmpl-1"))
			Expect(resp.Model).To(Equal("gpt-4"))
			Expect(resp.FirstContent()).To(Equal("Hello!"))
			Expect(resp.Choices[0].FinishReason).To(Equal("stop"))
			Expect(resp.Usage).NotTo(BeNil())
			Expect(resp.Usage.TotalTokens).To(Equal(15))
		})

		It("returns a ProviderError with parsed ErrorInfo on failure", func() {
			errBody := `{"error": {"code": "content_filter", "message": "filtered due to hate", "innererror": {"code": "ResponsibleAIPolicyViolation"}}}`

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("apim-request-id", "req-123")
				w.Header().Set("x-ms-region", "eastus")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(errBody))
			}))
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL, APIKey: "sk-test"}, logger.Nop())

			_, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
			})

			var provErr *ProviderError
			Expect(err).To(BeAssignableToTypeOf(provErr))
			provErr = err.(*ProviderError)

			Expect(provErr.Info.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(provErr.Info.Code).To(Equal("content_filter"))
			Expect(provErr.Info.InnerCode).To(Equal("ResponsibleAIPolicyViolation"))
			Expect(provErr.Info.Message).To(Equal("filtered due to hate"))
			Expect(provErr.Info.RequestID).To(Equal("req-123"))
			Expect(provErr.Info.Headers).To(HaveKeyWithValue("x-ms-region", "eastus"))
		})

		It("keeps an unparseable error body as the message verbatim", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("upstream melted"))
			}))
			defer srv.Close()

			c := New(Config{Endpoint: srv.URL, APIKey: "sk-test"}, logger.Nop())

			_, err := c.Complete(context.Background(), &llm.ChatCompletionRequest{
				Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
			})

			provErr, ok := err.(*ProviderError)
			Expect(ok).To(BeTrue())
			Expect(provErr.Info.StatusCode).To(Equal(http.StatusServiceUnavailable))
			Expect(provErr.Info.Message).To(Equal("upstream melted"))
			Expect(provErr.Info.Code).To(BeEmpty())
		})
	})
})
