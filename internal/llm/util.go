// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// quotePairs are the wrappers models tend to echo back around rewritten text
var quotePairs = [][2]string{
	{`"`, `"`},
	{"「", "」"},
	{"“", "”"},
}

// CleanTextResponse trims whitespace, markdown code fences and a single pair of
// wrapping quotes from a plain-text model response.
func CleanTextResponse(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	for _, q := range quotePairs {
		if len(text) > len(q[0])+len(q[1]) && strings.HasPrefix(text, q[0]) && strings.HasSuffix(text, q[1]) {
			inner := text[len(q[0]) : len(text)-len(q[1])]
			// Only unwrap when the quotes enclose the whole text
			if !strings.Contains(inner, q[0]) && !strings.Contains(inner, q[1]) {
				return strings.TrimSpace(inner)
			}
		}
	}

	return text
}
