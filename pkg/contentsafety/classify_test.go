package contentsafety

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aegis/pkg/upstream"
)

var _ = Describe("Classify", func() {
	Context("with explicit content_filter rejections", func() {
		It("resolves a hate keyword to the hate category at high severity", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Code:       "content_filter",
				Message:    "The response was filtered due to hate speech",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryHate))
			Expect(result.Severity).To(Equal(SeverityHigh))
		})

		It("matches content_filter from the message when no code is set", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Message:    "blocked by content_filter: sexual content",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategorySexual))
		})

		It("falls back to unknown when no harm keyword is present", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Code:       "content_filter",
				Message:    "blocked",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryUnknown))
			Expect(result.Severity).To(Equal(SeverityMedium))
		})

		It("uses the inner error code when the top-level code is absent", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				InnerCode:  "content_filter",
				Message:    "violence detected in completion",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryViolence))
		})
	})

	Context("with message keyword matches", func() {
		It("classifies jailbreak mentions", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Message:    "Jailbreak attempt blocked by prompt shield",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryJailbreak))
			Expect(result.Severity).To(Equal(SeverityHigh))
			Expect(result.LearnMoreURL).NotTo(BeEmpty())
		})

		It("classifies prompt injection mentions", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Message:    "indirect attack detected in document context",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryPromptInjection))
		})

		It("classifies protected material at medium severity", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Message:    "response contains protected material",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryProtectedMaterial))
			Expect(result.Severity).To(Equal(SeverityMedium))
		})

		It("classifies self-harm with either spelling", func() {
			dashed := Classify(upstream.ErrorInfo{StatusCode: 400, Message: "self-harm content"})
			spaced := Classify(upstream.ErrorInfo{StatusCode: 400, Message: "self harm content"})

			Expect(dashed.Category).To(Equal(CategorySelfHarm))
			Expect(spaced.Category).To(Equal(CategorySelfHarm))
		})

		It("classifies by error code alone", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 403,
				Code:       "hate_content",
				Message:    "request rejected",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryHate))
		})
	})

	Context("with generic rejections", func() {
		It("treats a bare 400 as an unknown policy violation", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 400,
				Message:    "bad request",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryUnknown))
			Expect(result.Severity).To(Equal(SeverityMedium))
		})

		It("treats a 403 as an unknown policy violation", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 403,
				Message:    "forbidden",
			})

			Expect(result).NotTo(BeNil())
			Expect(result.Category).To(Equal(CategoryUnknown))
		})
	})

	Context("with unrelated failures", func() {
		It("returns nil for an unmatched status and message", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 418,
				Message:    "short and stout",
			})

			Expect(result).To(BeNil())
		})

		It("returns nil for a plain 500", func() {
			result := Classify(upstream.ErrorInfo{
				StatusCode: 500,
				Message:    "internal server error",
			})

			Expect(result).To(BeNil())
		})
	})
})

var _ = Describe("FormatCategory", func() {
	It("maps known categories to display names", func() {
		Expect(FormatCategory(CategoryJailbreak)).To(Equal("Jailbreak Attempt"))
		Expect(FormatCategory(CategoryUnknown)).To(Equal("Policy Violation"))
	})

	It("passes unknown values through", func() {
		Expect(FormatCategory(Category("custom"))).To(Equal("custom"))
	})
})

var _ = Describe("ExtractDetails", func() {
	It("copies the diagnostic fields", func() {
		details := ExtractDetails(upstream.ErrorInfo{
			StatusCode: 400,
			Code:       "content_filter",
			InnerCode:  "ResponsibleAIPolicyViolation",
			RequestID:  "req-9",
			Headers:    map[string]string{"x-ms-region": "eastus"},
		})

		Expect(details.RequestID).To(Equal("req-9"))
		Expect(details.Code).To(Equal("content_filter"))
		Expect(details.InnerCode).To(Equal("ResponsibleAIPolicyViolation"))
		Expect(details.Headers).To(HaveKeyWithValue("x-ms-region", "eastus"))
	})
})
