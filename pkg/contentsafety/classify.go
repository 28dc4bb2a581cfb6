package contentsafety

import (
	"strings"

	"github.com/papercomputeco/aegis/pkg/upstream"
)

// Classify maps a failed provider call to a content-safety Error, or nil
// when the failure is not content-safety related (network, auth, unrelated
// server errors) and should propagate unmodified.
//
// Checks run in a fixed order and the first match wins. Matching is
// substring containment against the lower-cased provider message plus exact
// comparison against the provider error codes.
func Classify(info upstream.ErrorInfo) *Error {
	message := strings.ToLower(info.Message)
	code := info.Code
	if code == "" {
		code = info.InnerCode
	}

	// Explicit content_filter rejections carry the harm category in the
	// message; defer to the secondary categorizer.
	if code == "content_filter" || strings.Contains(message, "content_filter") {
		return categorizeContentFilter(message)
	}

	if strings.Contains(message, "jailbreak") || strings.Contains(message, "prompt shield") {
		return &Error{
			Category:     CategoryJailbreak,
			Severity:     SeverityHigh,
			Title:        "Jailbreak Attempt Detected",
			Description:  "The provider detected an attempt to bypass AI safety guidelines",
			Explanation:  explainJailbreak,
			LearnMoreURL: jailbreakURL,
		}
	}

	if strings.Contains(message, "prompt injection") || strings.Contains(message, "indirect attack") {
		return &Error{
			Category:     CategoryPromptInjection,
			Severity:     SeverityHigh,
			Title:        "Prompt Injection Detected",
			Description:  "The provider identified a prompt injection attack pattern",
			Explanation:  explainPromptInjection,
			LearnMoreURL: jailbreakURL,
		}
	}

	if strings.Contains(message, "protected material") || strings.Contains(message, "copyright") {
		return &Error{
			Category:     CategoryProtectedMaterial,
			Severity:     SeverityMedium,
			Title:        "Protected Material Detection",
			Description:  "Request may involve copyrighted or proprietary content",
			Explanation:  explainProtectedMaterial,
			LearnMoreURL: overviewURL,
		}
	}

	if strings.Contains(message, "hate") || code == "hate_content" {
		return &Error{
			Category:     CategoryHate,
			Severity:     SeverityHigh,
			Title:        "Hate Speech Detected",
			Description:  "Content contains hateful or discriminatory language",
			Explanation:  explainHate,
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if strings.Contains(message, "sexual") || code == "sexual_content" {
		return &Error{
			Category:     CategorySexual,
			Severity:     SeverityHigh,
			Title:        "Sexual Content Detected",
			Description:  "Content contains inappropriate sexual material",
			Explanation:  explainSexual,
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if strings.Contains(message, "violence") || code == "violence_content" {
		return &Error{
			Category:     CategoryViolence,
			Severity:     SeverityHigh,
			Title:        "Violent Content Detected",
			Description:  "Content describes or promotes violence",
			Explanation:  explainViolence,
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if strings.Contains(message, "self-harm") || strings.Contains(message, "self harm") || code == "self_harm_content" {
		return &Error{
			Category:     CategorySelfHarm,
			Severity:     SeverityHigh,
			Title:        "Self-Harm Content Detected",
			Description:  "Content related to self-injury or suicide",
			Explanation:  explainSelfHarm,
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if info.StatusCode == 400 || info.StatusCode == 403 ||
		strings.Contains(message, "content policy") || strings.Contains(message, "filtered") {
		return &Error{
			Category:     CategoryUnknown,
			Severity:     SeverityMedium,
			Title:        "Content Policy Violation",
			Description:  "Request was blocked by provider content safety policies",
			Explanation:  explainUnknown,
			LearnMoreURL: overviewURL,
		}
	}

	return nil
}

// categorizeContentFilter resolves an explicit content_filter rejection into
// a harm category by inspecting the message, defaulting to unknown when no
// category keyword is present.
func categorizeContentFilter(message string) *Error {
	if strings.Contains(message, "hate") {
		return &Error{
			Category:     CategoryHate,
			Severity:     SeverityHigh,
			Title:        "Hate Speech Content Filter",
			Description:  "Content filtered due to hate speech detection",
			Explanation:  "The provider's content filter detected hate speech in the request.",
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if strings.Contains(message, "sexual") {
		return &Error{
			Category:     CategorySexual,
			Severity:     SeverityHigh,
			Title:        "Sexual Content Filter",
			Description:  "Content filtered due to sexual content detection",
			Explanation:  "The provider's content filter detected inappropriate sexual content.",
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if strings.Contains(message, "violence") {
		return &Error{
			Category:     CategoryViolence,
			Severity:     SeverityHigh,
			Title:        "Violence Content Filter",
			Description:  "Content filtered due to violent content detection",
			Explanation:  "The provider's content filter detected violent content.",
			LearnMoreURL: harmCategoriesURL,
		}
	}

	if strings.Contains(message, "self-harm") || strings.Contains(message, "self harm") {
		return &Error{
			Category:     CategorySelfHarm,
			Severity:     SeverityHigh,
			Title:        "Self-Harm Content Filter",
			Description:  "Content filtered due to self-harm content detection",
			Explanation:  "The provider's content filter detected self-harm related content.",
			LearnMoreURL: harmCategoriesURL,
		}
	}

	return &Error{
		Category:     CategoryUnknown,
		Severity:     SeverityMedium,
		Title:        "Content Filter Triggered",
		Description:  "The provider's content filter blocked this content",
		Explanation:  "The request triggered the provider's content safety filters.",
		LearnMoreURL: overviewURL,
	}
}
