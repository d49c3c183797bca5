package util

import (
	"errors"
	"strings"
)

// ErrNoJSONObject is returned when a completion carries no {...} block.
var ErrNoJSONObject = errors.New("no JSON object found in model response")

// ExtractJSONObject pulls the outermost JSON object out of a model completion.
// Reasoning blocks (<think>...</think>) and a surrounding markdown fence are
// discarded first. Backticks inside the object are left alone.
func ExtractJSONObject(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)

	for {
		start := strings.Index(cleaned, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(cleaned[start:], "</think>")
		if end == -1 {
			break
		}
		cleaned = cleaned[:start] + cleaned[start+end+len("</think>"):]
	}

	cleaned = stripFence(strings.TrimSpace(cleaned))

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return "", ErrNoJSONObject
	}
	return cleaned[jsonStart : jsonEnd+1], nil
}

// stripFence removes an opening fence line (```json, ```) and a closing ``` when
// they wrap the whole completion.
func stripFence(s string) string {
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
