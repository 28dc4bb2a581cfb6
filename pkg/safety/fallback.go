package safety

import (
	"strings"

	"github.com/papercomputeco/aegis/pkg/llm"
)

// Fallback reply templates. These are static strings: user content is never
// interpolated into them, so a crafted prompt cannot echo attacker-controlled
// text back through the synthesized reply.
const (
	fallbackSecurityAlert = `**Security Alert**

This request contains potentially sensitive information. For demonstration purposes:

**What would happen with a real backend:**
- The prompt would be scanned for sensitive data patterns
- Data loss prevention policies would be enforced
- Sensitive information would be blocked or redacted based on configured rules
- An audit log entry would be created for compliance tracking

**Recommendation:** In a production environment, this type of request would be intercepted and processed according to your organization's security policies.

*Note: This is a demo response. Connect an upstream provider to see actual AI-powered security analysis.*`

	fallbackThreatDetected = `**Threat Detected: Potential Prompt Injection**

This request has been flagged as a potential security threat.

**What would happen with a real backend:**
- The prompt structure would be analyzed for manipulation attempts
- Instruction hierarchy would be enforced to prevent override attempts
- High-risk patterns would be blocked before reaching the model
- Security teams would be alerted to the attempted breach

**Protection Mechanism:**
The AI system maintains strict separation between system instructions and user input to prevent unauthorized behavior modifications.

*Note: This is a demo response. Connect an upstream provider for production-grade threat protection.*`

	fallbackInfoDisclosure = `**Information Disclosure Prevention**

This request seeks system-level information that should be protected.

**What would happen with a real backend:**
- Output filtering would prevent disclosure of training data
- System architecture details would remain confidential
- The information disclosure attempt would be logged
- Response sanitization would ensure no sensitive system details are revealed

**Security Principle:**
AI systems should not reveal internal implementation details, training data sources, or system prompts that could be exploited.

*Note: This is a demo response. Connect an upstream provider for comprehensive information protection.*`

	fallbackDemoMode = `**Demo Mode Active**

Thank you for your message. This AI security gateway is currently running without a connected upstream provider.

**To see full functionality:**
1. Configure the upstream endpoint and API key
2. Restart the gateway
3. The system will then provide real-time AI-powered security analysis

**What you're seeing:**
This demo showcases the gateway's interception pipeline, including content safety analysis and threat detection for prompt injection and jailbreak attempts.

**Try example prompts** to see how various security threats would be detected and prevented in a production environment.

*Connect an upstream provider to experience live AI security capabilities.*`
)

// fallbackRoutes maps lower-cased keywords to the template selected when any
// of them appears in the user's text. Checked in order; first hit wins.
var fallbackRoutes = []struct {
	keywords []string
	reply    string
}{
	{[]string{"confidential", "password", "api key", "secret"}, fallbackSecurityAlert},
	{[]string{"ignore", "bypass", "jailbreak", "override"}, fallbackThreatDetected},
	{[]string{"training data", "system prompt", "architecture"}, fallbackInfoDisclosure},
}

// FallbackReply synthesizes an assistant message for demo mode, picking a
// template by the same keyword heuristics the classifiers use. Pure function
// of the input text.
func FallbackReply(userText string) llm.ChatMessage {
	lower := strings.ToLower(userText)

	for _, route := range fallbackRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(lower, kw) {
				return llm.NewAssistantMessage(route.reply)
			}
		}
	}

	return llm.NewAssistantMessage(fallbackDemoMode)
}
