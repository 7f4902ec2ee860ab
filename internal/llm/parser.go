package llm

import "strings"

// CleanMarkdownWrapper strips markdown code fences that models wrap around
// JSON despite instructions not to. Content without fences passes through
// unchanged apart from whitespace trimming.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}

	// Drop the opening fence line (``` or ```json)
	lines = lines[1:]

	// Drop the closing fence line if present
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if trimmed == "```" {
			lines = lines[:i]
		}
		break
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ClampConfidence forces a model-reported confidence into [0, 1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
