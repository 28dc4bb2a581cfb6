// Package moderation implements the chat moderation pipeline: it validates
// an inbound chat request, runs the content-safety and threat-detection
// classifiers against the last user message, short-circuits with a blocking
// result when either fires, and otherwise delegates to the upstream
// completion client, attaching both verdicts to the outcome.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/pkg/contentsafety"
	"github.com/papercomputeco/aegis/pkg/llm"
	"github.com/papercomputeco/aegis/pkg/safety"
	"github.com/papercomputeco/aegis/pkg/upstream"
)

// threatBlockBanner prefixes the synthesized assistant message for
// threat-detection blocks; the matched threat labels are joined after it.
const threatBlockBanner = "🚨 **Threat Detected**: "

const threatBlockFooter = "\n\nThis request has been flagged as a potential security threat and blocked by the AI security gateway."

// demoModel is the model name reported on fallback responses.
const demoModel = "demo-mode"

// Completer is the upstream dependency of the pipeline. *upstream.Client
// satisfies it; tests substitute doubles to assert the short-circuit
// behavior never reaches the provider.
type Completer interface {
	// Configured reports whether real provider credentials are present.
	Configured() bool

	// Complete performs the chat completion call.
	Complete(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
}

// Options controls which classifiers run for a given request. Both default
// to enabled; either can be disabled independently.
type Options struct {
	EnableContentSafety   bool
	EnableThreatDetection bool
}

// DefaultOptions returns Options with both classifiers enabled.
func DefaultOptions() Options {
	return Options{
		EnableContentSafety:   true,
		EnableThreatDetection: true,
	}
}

// Outcome describes how the pipeline resolved a request.
type Outcome string

const (
	// OutcomeCompleted means the upstream provider returned a completion.
	OutcomeCompleted Outcome = "completed"

	// OutcomeSafetyBlocked means the content-safety analyzer fired and the
	// request never reached the provider.
	OutcomeSafetyBlocked Outcome = "safety_blocked"

	// OutcomeThreatBlocked means the threat detector fired and a blocking
	// assistant message was synthesized in place of a completion.
	OutcomeThreatBlocked Outcome = "threat_blocked"

	// OutcomeFallback means no provider is configured and the canned
	// fallback responder produced the reply.
	OutcomeFallback Outcome = "fallback"

	// OutcomeClean means screening passed without producing a response
	// (used by the streaming path, which completes separately).
	OutcomeClean Outcome = "clean"
)

// Result is the pipeline's resolution of a single request. Blocking is a
// normal, expected control-flow outcome here, not an error.
type Result struct {
	Outcome Outcome

	// Response is set for completed and fallback outcomes.
	Response *llm.ChatCompletionResponse

	// BlockedContent is the synthesized assistant text for threat blocks.
	BlockedContent string

	// Safety is the content-safety verdict, when that classifier ran.
	Safety *safety.SafetyVerdict

	// Threats is the threat-detection verdict, when that classifier ran.
	Threats *safety.ThreatVerdict
}

// Blocked reports whether a classifier short-circuited the request.
func (r *Result) Blocked() bool {
	return r.Outcome == OutcomeSafetyBlocked || r.Outcome == OutcomeThreatBlocked
}

// Pipeline orchestrates classification and completion for chat requests.
// It holds no per-request state; a single Pipeline serves concurrent
// requests.
type Pipeline struct {
	completer Completer
	logger    *zap.Logger
}

// New creates a new Pipeline. The completer is injected so tests can
// substitute a double and so the provider client is constructed once at
// process start.
func New(completer Completer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		completer: completer,
		logger:    logger,
	}
}

// Screen validates the request and runs the enabled classifiers, in fixed
// order: content safety first, threat detection second. Either classifier
// can independently short-circuit; the returned Result then carries the
// blocking outcome. A clean screen returns OutcomeClean with both verdicts
// populated (for enabled classifiers) and no response.
func (p *Pipeline) Screen(req *llm.ChatCompletionRequest, opts Options) (*Result, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, &ValidationError{Reason: "messages array required"}
	}

	lastUser := req.LastUserMessage()
	result := &Result{Outcome: OutcomeClean}

	if opts.EnableContentSafety {
		verdict := safety.AnalyzeContent(lastUser)
		result.Safety = &verdict

		if !verdict.IsSafe {
			p.logger.Info("request blocked by content safety",
				zap.Strings("categories", verdict.Categories),
			)
			result.Outcome = OutcomeSafetyBlocked
			return result, nil
		}
	}

	if opts.EnableThreatDetection {
		verdict := safety.DetectThreats(lastUser)
		result.Threats = &verdict

		if verdict.Detected {
			p.logger.Info("request blocked by threat detection",
				zap.Strings("threats", verdict.Threats),
				zap.Float64("confidence", verdict.Confidence),
			)
			result.Outcome = OutcomeThreatBlocked
			result.BlockedContent = threatBlockBanner + strings.Join(verdict.Threats, ", ") + threatBlockFooter
			return result, nil
		}
	}

	return result, nil
}

// Handle runs the full pipeline: screen, then complete. Classifier blocks
// return a blocked Result with a nil error. Provider failures are classified
// and returned as an *UpstreamError; raw provider internals never leak past
// it.
func (p *Pipeline) Handle(ctx context.Context, req *llm.ChatCompletionRequest, opts Options) (*Result, error) {
	result, err := p.Screen(req, opts)
	if err != nil {
		return nil, err
	}
	if result.Blocked() {
		return result, nil
	}

	if !p.completer.Configured() {
		p.logger.Debug("no upstream provider configured, serving fallback response")
		result.Outcome = OutcomeFallback
		result.Response = fallbackResponse(req.LastUserMessage())
		return result, nil
	}

	resp, err := p.completer.Complete(ctx, req)
	if err != nil {
		return nil, p.ClassifyFailure(err)
	}

	result.Outcome = OutcomeCompleted
	result.Response = resp
	return result, nil
}

// ClassifyFailure turns a provider failure into an UpstreamError, attaching
// a content-safety classification when one applies. The streaming path calls
// it directly since it bypasses Handle.
func (p *Pipeline) ClassifyFailure(err error) error {
	var provErr *upstream.ProviderError
	if errors.As(err, &provErr) {
		details := contentsafety.ExtractDetails(provErr.Info)
		p.logger.Error("upstream provider error",
			zap.Int("status", provErr.Info.StatusCode),
			zap.String("code", details.Code),
			zap.String("inner_code", details.InnerCode),
			zap.String("request_id", details.RequestID),
		)

		if safetyErr := contentsafety.Classify(provErr.Info); safetyErr != nil {
			return &UpstreamError{Safety: safetyErr, Cause: err}
		}
		return &UpstreamError{Cause: err}
	}

	p.logger.Error("upstream call failed", zap.Error(err))
	return &UpstreamError{Cause: err}
}

// fallbackResponse wraps the canned fallback reply in the canonical
// completion shape so demo mode honors the same response contract.
func fallbackResponse(userText string) *llm.ChatCompletionResponse {
	now := time.Now()
	return &llm.ChatCompletionResponse{
		ID:      fmt.Sprintf("demo-%d", now.UnixMilli()),
		Created: now.Unix(),
		Model:   demoModel,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      safety.FallbackReply(userText),
				FinishReason: "stop",
			},
		},
	}
}
