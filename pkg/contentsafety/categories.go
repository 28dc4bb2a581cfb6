// Package contentsafety classifies upstream provider errors into a closed
// set of content-safety categories, each with a fixed severity and static
// explanation text. The only dynamic behavior here is category selection;
// the prose never interpolates request or error content.
package contentsafety

// Category is a content-safety classification for a provider error.
type Category string

const (
	CategoryJailbreak         Category = "jailbreak"
	CategoryPromptInjection   Category = "prompt_injection"
	CategoryProtectedMaterial Category = "protected_material"
	CategoryHate              Category = "hate"
	CategorySexual            Category = "sexual"
	CategoryViolence          Category = "violence"
	CategorySelfHarm          Category = "self_harm"
	CategoryUnknown           Category = "unknown"
)

// Severity is the fixed risk level attached to a category.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Error describes a provider rejection attributed to content safety.
// Constructed on demand from a raw provider error; never mutated after
// construction.
type Error struct {
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Explanation  string   `json:"explanation"`
	LearnMoreURL string   `json:"learnMoreUrl"`
}

// categoryNames maps categories to their display names.
var categoryNames = map[Category]string{
	CategoryJailbreak:         "Jailbreak Attempt",
	CategoryPromptInjection:   "Prompt Injection",
	CategoryProtectedMaterial: "Protected Material",
	CategoryHate:              "Hate Speech",
	CategorySexual:            "Sexual Content",
	CategoryViolence:          "Violent Content",
	CategorySelfHarm:          "Self-Harm Content",
	CategoryUnknown:           "Policy Violation",
}

// FormatCategory returns the display name for a category.
func FormatCategory(c Category) string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

const (
	harmCategoriesURL = "https://learn.microsoft.com/en-us/azure/ai-services/content-safety/concepts/harm-categories"
	jailbreakURL      = "https://learn.microsoft.com/en-us/azure/ai-services/content-safety/concepts/jailbreak-detection"
	overviewURL       = "https://learn.microsoft.com/en-us/azure/ai-services/content-safety/overview"
)

// Static explanation templates, one per category. These are educational
// prose shown to the caller alongside the classification.
const (
	explainJailbreak = `**What happened:**
The provider's prompt shields detected a jailbreak attempt - an effort to manipulate the AI system into ignoring its safety guidelines and ethical constraints.

**Jailbreak Detection covers:**
- Attempts to roleplay as an "unrestricted AI"
- Instructions to ignore previous safety guidelines
- Requests to bypass ethical constraints
- Multi-turn manipulation strategies

**Protection Mechanism:**
Prompt shields detect and block jailbreak attempts before they reach the model, with real-time monitoring of user prompts and attached documents.`

	explainPromptInjection = `**What happened:**
The provider detected a prompt injection attempt - malicious instructions embedded in user input designed to manipulate the AI's behavior.

**Types of Prompt Injection:**
- **Direct Injection**: Explicit commands in user prompts (e.g., "Ignore previous instructions")
- **Indirect Injection**: Attacks embedded in documents, emails, or retrieved content

**Without protection, prompt injection can lead to:**
- Unauthorized data access
- Manipulation of AI outputs for fraud
- Compliance violations

The provider's shields detect both direct and indirect attacks and maintain separation between system and user content.`

	explainProtectedMaterial = `**What happened:**
The provider detected potential protected material in the request, which could involve copyrighted code, proprietary information, or intellectual property.

**Protected Material Types:**
- Copyrighted source code
- Proprietary algorithms
- Licensed content and trade secrets

**Why Protection Matters:**
- Legal liability for copyright infringement
- Compliance with licensing agreements
- Corporate risk management`

	explainHate = `**What happened:**
The provider detected hate speech - content targeting individuals or groups based on protected characteristics.

**Categories of Hate Content:**
- Attacks based on race, ethnicity, or religion
- Gender-based discrimination
- Sexual orientation targeting
- Disability-based harassment

**Why This Protection Exists:**
- Legal compliance with hate speech laws
- User safety and platform integrity
- Regulatory requirements

Content is scored on a severity scale with configurable blocking thresholds.`

	explainSexual = `**What happened:**
The provider detected sexual content that violates acceptable use policies.

**Severity Classification:**
- **Low**: Mild innuendo or romantic content
- **Medium**: Suggestive content
- **High**: Explicit sexual content
- **Critical**: Illegal sexual content (immediate block and report)

The provider applies zero tolerance to child sexual abuse material, non-consensual content, and sexual exploitation, with multi-modal detection and real-time blocking.`

	explainViolence = `**What happened:**
The provider detected violent content that could be harmful or illegal.

**Types of Violence Detected:**
- Physical violence descriptions
- Weapons instructions, terrorism or extremism
- Gore and graphic injury

**Specific Concerns:**
- Instructions for creating weapons or explosives
- Terrorist tactics or planning
- Mass violence scenarios

Detection is context-aware, distinguishing fictional from real violence and assessing threat level.`

	explainSelfHarm = `**What happened:**
The provider detected content related to self-harm or suicide, which requires special handling due to its sensitive nature.

**Types of Self-Harm Content:**
- Suicide ideation or methods
- Self-injury descriptions
- Eating disorder promotion

**Crisis Resources:**
- National Suicide Prevention Lifeline: 988
- Crisis Text Line: Text HOME to 741741

Rather than simply blocking, systems detecting self-harm content should provide crisis resources and enable human intervention.`

	explainUnknown = `**What happened:**
The provider blocked this request due to a content policy violation. The specific category was not identified, but the request triggered safety filters.

**Common Reasons for Blocking:**
- Inappropriate language or topics
- Potential harmful content
- Suspicious patterns
- Rate limiting or abuse detection

**Best Practices:**
- Review and refine your prompts
- Avoid sensitive topics when possible
- Test content policies in development`
)
