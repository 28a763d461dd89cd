package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON directly,
// from a markdown code fence, or from an embedded object span.
var ErrParseFailed = errors.New("failed to parse response")

var fencedBlock = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse unmarshals model output into T. Direct JSON is tried first, then the
// contents of a markdown code fence, then the outermost {...} span for models
// that wrap the object in prose. Returns ErrParseFailed when all three fail.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if m := fencedBlock.FindStringSubmatch(content); len(m) >= 2 {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &result); err == nil {
			return result, nil
		}
	}

	if span := objectSpan(content); span != "" {
		if err := json.Unmarshal([]byte(span), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, snippet(content, 120))
}

// objectSpan returns the substring from the first '{' through the last '}',
// or "" when no such span exists.
func objectSpan(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
