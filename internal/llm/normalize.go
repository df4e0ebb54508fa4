package llm

import "strings"

// ResponseNormalizer extracts a JSON payload from free-form model text.
// Implementations are best-effort pre-parsers, not JSON parsers; callers
// still json.Unmarshal the result and treat failures as model-output errors.
type ResponseNormalizer interface {
	Normalize(text string) string
}

// FenceBraceNormalizer is the default heuristic: strip a Markdown code
// fence (case-insensitive, optional language tag), then slice from the
// first '{' to the last '}'. Known limitations: nested fences, multiple
// top-level objects, and braces inside string literals are not handled.
type FenceBraceNormalizer struct{}

// Normalize implements ResponseNormalizer.
func (FenceBraceNormalizer) Normalize(text string) string {
	cleaned := stripCodeFence(strings.TrimSpace(text))

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last != -1 && last > first {
		return cleaned[first : last+1]
	}
	return strings.TrimSpace(cleaned)
}

// stripCodeFence removes a leading ``` fence (with optional language tag on
// the same line) and a trailing ``` fence.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := text[len("```"):]
	// Drop the language tag line, e.g. "json" or "JSON".
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if firstLine == "" || isLanguageTag(firstLine) {
			body = body[idx+1:]
		}
	} else {
		// Single-line fence like "```json" with nothing after it.
		if isLanguageTag(strings.TrimSpace(body)) {
			return ""
		}
	}

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func isLanguageTag(s string) bool {
	if len(s) == 0 || len(s) >= 20 {
		return false
	}
	return !strings.ContainsAny(s, " {}")
}
