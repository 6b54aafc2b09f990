package util

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedJSON is returned when no recovery strategy yields valid JSON.
var ErrMalformedJSON = errors.New("model output is not valid JSON")

var (
	thinkTagRe    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	fencedJSONRe  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	truncatedTail = []string{"}", "]}", "}]}", `"}]}`, `"]}}`}
)

// DecodeLLMJSON decodes a JSON object produced by a language model into v.
// Models wrap, prefix or truncate their output, so the following are tried in
// order: the raw content, a ```json fenced block, the span from the first '{'
// to the last '}', the first balanced object, and finally the content with a
// closing suffix appended. It reports whether a truncation repair was needed.
func DecodeLLMJSON(content string, v any) (repaired bool, err error) {
	content = strings.TrimSpace(thinkTagRe.ReplaceAllString(content, ""))
	if content == "" {
		return false, ErrMalformedJSON
	}

	for _, candidate := range jsonCandidates(content) {
		if json.Unmarshal([]byte(candidate), v) == nil {
			return false, nil
		}
	}

	start := strings.Index(content, "{")
	if start == -1 {
		return false, ErrMalformedJSON
	}
	for _, tail := range truncatedTail {
		if json.Unmarshal([]byte(content[start:]+tail), v) == nil {
			return true, nil
		}
	}
	return false, ErrMalformedJSON
}

func jsonCandidates(content string) []string {
	candidates := []string{content}
	if m := fencedJSONRe.FindStringSubmatch(content); len(m) == 2 {
		candidates = append(candidates, m[1])
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		candidates = append(candidates, content[start:end+1])
	}
	if obj, ok := firstBalancedObject(content); ok {
		candidates = append(candidates, obj)
	}
	return candidates
}

// firstBalancedObject scans for the first complete top-level object,
// ignoring braces inside string literals.
func firstBalancedObject(input string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				return input[start : i+1], true
			}
		}
	}
	return "", false
}
