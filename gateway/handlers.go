package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/gateway/worker"
	"github.com/papercomputeco/aegis/pkg/audit"
	"github.com/papercomputeco/aegis/pkg/llm"
	"github.com/papercomputeco/aegis/pkg/moderation"
	"github.com/papercomputeco/aegis/pkg/safety"
	"github.com/papercomputeco/aegis/pkg/upstream"
)

// chatRequest is the inbound chat payload. The moderation toggles are
// pointers so an absent field falls back to the configured defaults.
type chatRequest struct {
	Messages              []llm.ChatMessage `json:"messages"`
	Temperature           *float64          `json:"temperature"`
	MaxTokens             *int              `json:"maxTokens"`
	TopP                  *float64          `json:"topP"`
	Stream                bool              `json:"stream"`
	EnableContentSafety   *bool             `json:"enableContentSafety"`
	EnableThreatDetection *bool             `json:"enableThreatDetection"`
}

// securityReport carries the classifier verdicts attached to a successful
// response under the "_security" key.
type securityReport struct {
	SafetyAnalysis  *safety.SafetyVerdict `json:"safetyAnalysis,omitempty"`
	ThreatDetection *safety.ThreatVerdict `json:"threatDetection,omitempty"`
}

// chatResponse is a completion response with the security report attached.
type chatResponse struct {
	*llm.ChatCompletionResponse
	Security *securityReport `json:"_security,omitempty"`
}

// streamChunk is a single SSE frame payload on the streaming relay.
type streamChunk struct {
	Content string `json:"content"`
}

// handleRoot serves the static service descriptor.
func (g *Gateway) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":        "aegis",
		"description": "AI security gateway with content moderation",
		"endpoints": fiber.Map{
			"chat":   "POST /api/chat",
			"audit":  "GET /api/audit",
			"health": "GET /health",
		},
		"features": []string{
			"content-safety-analysis",
			"threat-detection",
			"provider-error-classification",
			"audit-logging",
			"streaming",
		},
	})
}

// handleHealth serves the liveness probe.
func (g *Gateway) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleChat runs a chat request through the moderation pipeline and maps
// the outcome onto the HTTP contract. Threat-detection blocks intentionally
// return 200 with a synthesized assistant message rather than an error
// status, so chat UIs render the block notice inline as a reply.
func (g *Gateway) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	var body chatRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid JSON body"})
	}

	req := &llm.ChatCompletionRequest{
		Messages:    body.Messages,
		Temperature: body.Temperature,
		MaxTokens:   body.MaxTokens,
		TopP:        body.TopP,
	}
	opts := g.moderationOptions(&body)

	if body.Stream {
		return g.handleChatStream(c, req, opts, startTime)
	}

	result, err := g.pipeline.Handle(c.Context(), req, opts)
	if err != nil {
		return g.renderPipelineError(c, err, startTime)
	}

	switch result.Outcome {
	case moderation.OutcomeSafetyBlocked:
		g.recordAudit(&audit.Event{
			Outcome:    string(result.Outcome),
			Categories: result.Safety.Categories,
		}, startTime)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Content safety violation",
			"safetyAnalysis": result.Safety,
		})

	case moderation.OutcomeThreatBlocked:
		g.recordAudit(&audit.Event{
			Outcome: string(result.Outcome),
			Threats: result.Threats.Threats,
		}, startTime)

		return c.JSON(chatResponse{
			ChatCompletionResponse: synthesizedResponse(result.BlockedContent),
			Security: &securityReport{
				SafetyAnalysis:  result.Safety,
				ThreatDetection: result.Threats,
			},
		})

	default:
		g.recordAudit(&audit.Event{
			Outcome: string(result.Outcome),
			Model:   result.Response.Model,
		}, startTime)

		return c.JSON(chatResponse{
			ChatCompletionResponse: result.Response,
			Security: &securityReport{
				SafetyAnalysis:  result.Safety,
				ThreatDetection: result.Threats,
			},
		})
	}
}

// handleChatStream relays a moderated streaming completion as SSE frames.
// The moderation gates run before any upstream connection is opened; a
// blocked request never streams.
func (g *Gateway) handleChatStream(c *fiber.Ctx, req *llm.ChatCompletionRequest, opts moderation.Options, startTime time.Time) error {
	result, err := g.pipeline.Screen(req, opts)
	if err != nil {
		return g.renderPipelineError(c, err, startTime)
	}

	if result.Outcome == moderation.OutcomeSafetyBlocked {
		g.recordAudit(&audit.Event{
			Outcome:    string(result.Outcome),
			Categories: result.Safety.Categories,
		}, startTime)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Content safety violation",
			"safetyAnalysis": result.Safety,
		})
	}

	if result.Outcome == moderation.OutcomeThreatBlocked {
		g.recordAudit(&audit.Event{
			Outcome: string(result.Outcome),
			Threats: result.Threats.Threats,
		}, startTime)

		return c.JSON(chatResponse{
			ChatCompletionResponse: synthesizedResponse(result.BlockedContent),
			Security: &securityReport{
				SafetyAnalysis:  result.Safety,
				ThreatDetection: result.Threats,
			},
		})
	}

	if !g.client.Configured() {
		g.logger.Debug("no upstream provider configured, streaming fallback response")
		fallback := safety.FallbackReply(req.LastUserMessage())
		g.setStreamHeaders(c)

		pr, pw := io.Pipe()
		go func() {
			defer pw.Close()
			writeFrame(pw, fallback.Content)
			writeDone(pw)
			g.recordAudit(&audit.Event{Outcome: string(moderation.OutcomeFallback)}, startTime)
		}()

		c.Context().Response.SetBodyStream(pr, -1)
		return nil
	}

	// Use context.Background() instead of c.Context() because fasthttp
	// recycles its RequestCtx after the handler returns, but the relay
	// goroutine keeps reading the upstream connection afterwards.
	stream, err := g.client.Stream(context.Background(), req)
	if err != nil {
		return g.renderPipelineError(c, g.pipeline.ClassifyFailure(err), startTime)
	}

	g.setStreamHeaders(c)

	// io.Pipe gives direct backpressure: pw.Write blocks until fasthttp's
	// chunked writer consumes the frame, so fragments reach the client as
	// they arrive instead of buffering the whole completion.
	pr, pw := io.Pipe()
	go g.relayStream(stream, pw, startTime)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// relayStream pumps upstream fragments to the pipe writer as SSE frames,
// ending with the [DONE] sentinel.
func (g *Gateway) relayStream(stream *upstream.Stream, pw *io.PipeWriter, startTime time.Time) {
	defer stream.Close()
	defer pw.Close()

	for {
		fragment, err := stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				g.logger.Error("error reading upstream stream", zap.Error(err))
				g.recordAudit(&audit.Event{Outcome: "upstream_error"}, startTime)
				return
			}
			break
		}

		if err := writeFrame(pw, fragment); err != nil {
			g.logger.Error("error writing chunk to pipe", zap.Error(err))
			g.recordAudit(&audit.Event{Outcome: "upstream_error"}, startTime)
			return
		}
	}

	writeDone(pw)

	g.recordAudit(&audit.Event{Outcome: string(moderation.OutcomeCompleted)}, startTime)
	g.logger.Debug("streaming complete", zap.Duration("duration", time.Since(startTime)))
}

// handleAuditList returns recent audit events, most recent first.
func (g *Gateway) handleAuditList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	events, err := g.auditDriver.List(c.Context(), limit)
	if err != nil {
		g.logger.Error("listing audit events failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list audit events"})
	}

	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}

// moderationOptions resolves per-request toggles against the configured
// defaults.
func (g *Gateway) moderationOptions(body *chatRequest) moderation.Options {
	opts := moderation.Options{
		EnableContentSafety:   g.config.ContentSafety,
		EnableThreatDetection: g.config.ThreatDetection,
	}

	if body.EnableContentSafety != nil {
		opts.EnableContentSafety = *body.EnableContentSafety
	}
	if body.EnableThreatDetection != nil {
		opts.EnableThreatDetection = *body.EnableThreatDetection
	}

	return opts
}

// renderPipelineError maps pipeline errors onto the HTTP contract. Raw
// provider internals never reach the caller; only the classification and a
// generic message do.
func (g *Gateway) renderPipelineError(c *fiber.Ctx, err error, startTime time.Time) error {
	var valErr *moderation.ValidationError
	if errors.As(err, &valErr) {
		g.recordAudit(&audit.Event{Outcome: "rejected"}, startTime)
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: valErr.Reason})
	}

	var upErr *moderation.UpstreamError
	if errors.As(err, &upErr) {
		if upErr.Safety != nil {
			g.recordAudit(&audit.Event{
				Outcome:       "upstream_error",
				ErrorCategory: string(upErr.Safety.Category),
			}, startTime)

			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":         "Content safety violation",
				"message":       upErr.Safety.Description,
				"contentSafety": upErr.Safety,
			})
		}

		g.recordAudit(&audit.Event{Outcome: "upstream_error"}, startTime)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{
			Error:   "Upstream provider error",
			Message: "The completion request could not be served.",
		})
	}

	g.logger.Error("unexpected pipeline failure", zap.Error(err))
	g.recordAudit(&audit.Event{Outcome: "upstream_error"}, startTime)
	return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{
		Error:   "Internal server error",
		Message: "An unexpected error occurred.",
	})
}

// recordAudit fills the event envelope and enqueues it for async storage.
func (g *Gateway) recordAudit(event *audit.Event, startTime time.Time) {
	event.ID = uuid.NewString()
	event.Time = time.Now().UTC()
	event.DurationMs = time.Since(startTime).Milliseconds()

	g.workerPool.Enqueue(worker.Job{Event: event})
}

// setStreamHeaders marks the response as a server-sent event stream.
func (g *Gateway) setStreamHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
}

// synthesizedResponse wraps blocking text in the canonical completion shape.
func synthesizedResponse(content string) *llm.ChatCompletionResponse {
	now := time.Now()
	return &llm.ChatCompletionResponse{
		ID:      fmt.Sprintf("blocked-%d", now.UnixMilli()),
		Created: now.Unix(),
		Model:   "aegis-gateway",
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewAssistantMessage(content),
				FinishReason: "stop",
			},
		},
	}
}

// writeFrame writes one SSE data frame carrying a content fragment.
func writeFrame(w io.Writer, content string) error {
	payload, err := json.Marshal(streamChunk{Content: content})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// writeDone writes the terminating [DONE] sentinel frame.
func writeDone(w io.Writer) {
	fmt.Fprint(w, "data: [DONE]\n\n")
}
