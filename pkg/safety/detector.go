package safety

import "regexp"

// Threat labels reported by DetectThreats.
const (
	ThreatPromptInjection  = "Prompt Injection Attempt"
	ThreatJailbreak        = "Jailbreak Attempt"
	ThreatPromptExtraction = "System Prompt Extraction"
)

// detectionConfidence is the confidence reported whenever any threat pattern
// matches. It is a boolean-derived constant, not a probabilistic score; a
// scored model would replace it wholesale.
const detectionConfidence = 0.85

// threatPatterns is the ordered list of (pattern, label) pairs evaluated
// against raw input. Every matching pattern contributes its label, not just
// the first.
var threatPatterns = []struct {
	pattern *regexp.Regexp
	threat  string
}{
	{regexp.MustCompile(`(?i)ignore (previous|all) (instructions|prompts)`), ThreatPromptInjection},
	{regexp.MustCompile(`(?i)jailbreak`), ThreatJailbreak},
	{regexp.MustCompile(`(?i)system prompt`), ThreatPromptExtraction},
}

// DetectThreats evaluates the threat patterns against text and returns a
// ThreatVerdict. Pure function; calling it twice on the same input yields
// identical verdicts.
func DetectThreats(text string) ThreatVerdict {
	var threats []string
	for _, tp := range threatPatterns {
		if tp.pattern.MatchString(text) {
			threats = append(threats, tp.threat)
		}
	}

	confidence := 0.0
	if len(threats) > 0 {
		confidence = detectionConfidence
	}

	return ThreatVerdict{
		Detected:   len(threats) > 0,
		Threats:    threats,
		Confidence: confidence,
	}
}
