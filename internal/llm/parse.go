package llm

import (
	"fmt"
	"strings"
)

// StripMarkdownJSON extracts a JSON object from LLM text that may be
// wrapped in markdown code fences or preceded by chatty preamble.
func StripMarkdownJSON(text string) (string, error) {
	content := strings.TrimSpace(text)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := -1
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			if i+1 < len(content) && content[i+1] == '{' {
				i++
				continue
			}
			start = i
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in text")
	}
	return content[start:], nil
}
