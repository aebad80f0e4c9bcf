package ai

import (
	"strings"
)

// ExtractJSON strips markdown code fences and surrounding prose from a model
// reply, returning the JSON object it contains. Replies without a fence are
// returned trimmed.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// drop the language tag on the opening fence
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			tag := strings.TrimSpace(text[:nl])
			if tag == "" || !strings.ContainsAny(tag, "{[") {
				text = text[nl+1:]
			}
		} else {
			text = strings.TrimPrefix(text, "json")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		return strings.TrimSpace(text)
	}

	// prose around a bare object, e.g. "Here you go: {...}"
	if !strings.HasPrefix(text, "{") {
		start := strings.IndexByte(text, '{')
		end := strings.LastIndexByte(text, '}')
		if start >= 0 && end > start {
			return text[start : end+1]
		}
	}
	return text
}
