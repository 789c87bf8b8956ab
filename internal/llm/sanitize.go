package llm

import "strings"

// Sanitize strips non-JSON wrapping from a raw model response: surrounding
// whitespace and markdown code fences, both language-tagged (```json) and
// bare (```). It never fails; correctness checks are left to the parser
// that follows. Sanitize is idempotent on already-clean JSON.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop a language tag such as "json" on the fence line.
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			first := strings.TrimSpace(s[:i])
			if first != "" && !strings.ContainsAny(first, "{}[]\"") {
				s = s[i+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSpace(s)
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	return s
}
