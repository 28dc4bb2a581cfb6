package safety

import "strings"

// Risk categories reported by AnalyzeContent.
const (
	CategorySecurityThreat  = "Security Threat"
	CategoryPromptInjection = "Prompt Injection"
)

// riskKeywords maps each risk category to the lower-cased substrings that
// trigger it. A category is reported once no matter how many of its keywords
// appear.
var riskKeywords = []struct {
	category string
	keywords []string
}{
	{CategorySecurityThreat, []string{"hack", "exploit"}},
	{CategoryPromptInjection, []string{"bypass", "ignore"}},
}

// AnalyzeContent scans text for risk keywords and returns a SafetyVerdict.
// Matching is case-insensitive substring containment. Pure function: no
// side effects, no I/O, deterministic for a given input.
func AnalyzeContent(text string) SafetyVerdict {
	lower := strings.ToLower(text)

	var risks []string
	for _, rk := range riskKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(lower, kw) {
				risks = append(risks, rk.category)
				break
			}
		}
	}

	severity := SeverityNone
	if len(risks) > 0 {
		severity = SeverityHigh
	}

	return SafetyVerdict{
		IsSafe:     len(risks) == 0,
		Categories: risks,
		Severity:   severity,
	}
}
