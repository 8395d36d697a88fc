package llm

import "strings"

// StripCodeFences removes a markdown code fence wrapped around a model reply.
func StripCodeFences(content string) string {
	out := strings.TrimSpace(content)
	if strings.HasPrefix(out, "```json") {
		out = out[len("```json"):]
	} else if strings.HasPrefix(out, "```") {
		out = out[len("```"):]
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
