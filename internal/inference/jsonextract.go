package inference

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is the sentinel every response-parse failure wraps.
var ErrNoJSON = errors.New("inference: no parseable JSON object in response")

// ParseError reports text that could not be reduced to a JSON object. It keeps
// a snippet of the raw text so callers can report enough detail for an
// explicit retry.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return ErrNoJSON.Error()
	}
	return ErrNoJSON.Error() + ": " + e.Snippet
}

func (e *ParseError) Unwrap() error { return ErrNoJSON }

// ExtractJSONObject reduces raw model output to a single JSON object. It first
// looks for a fenced block tagged as json; failing that it parses the span
// between the first '{' and the last '}'. Malformed text is never repaired.
// The result is guaranteed to be a non-null JSON object.
func ExtractJSONObject(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &ParseError{}
	}

	if fenced, ok := fencedJSONBlock(text); ok {
		if obj, err := parseObject(fenced); err == nil {
			return obj, nil
		}
		// fall through to brace scanning against the whole text
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &ParseError{Snippet: snippet(text)}
	}
	obj, err := parseObject(text[start : end+1])
	if err != nil {
		return nil, &ParseError{Snippet: snippet(text)}
	}
	return obj, nil
}

func fencedJSONBlock(text string) (string, bool) {
	const tag = "```json"
	start := strings.Index(text, tag)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(tag):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func parseObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNoJSON
	}
	return obj, nil
}

func snippet(text string) string {
	const maxLen = 120
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > maxLen {
		return text[:maxLen]
	}
	return text
}
