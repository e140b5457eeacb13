// Package extract decodes loosely formatted model output into JSON values.
//
// Decoding runs a fixed pipeline of strategies; the first one that yields a
// value wins:
//
//  1. strip markdown code fences and parse the remainder directly
//  2. scan for the first balanced JSON object or array and parse that
//
// When nothing parses the caller gets a MalformedResponse error carrying the
// raw text.
package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"ai-workflow-be/pkg/apperror"
)

// Strategy attempts to decode text. ok is false when the strategy does not apply.
type Strategy func(text string) (value any, ok bool)

// DefaultStrategies is the pipeline used by Extract.
var DefaultStrategies = []Strategy{
	DirectStrategy,
	EmbeddedStrategy,
}

// Extract returns the first JSON value found in raw.
func Extract(raw string) (any, error) {
	return ExtractWith(raw, DefaultStrategies...)
}

// ExtractWith runs the given strategies in order over the fence-stripped text.
func ExtractWith(raw string, strategies ...Strategy) (any, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, apperror.Malformed("empty model response", raw, nil)
	}
	for _, s := range strategies {
		if v, ok := s(text); ok {
			return v, nil
		}
	}
	return nil, apperror.Malformed("model response is not valid JSON", raw, nil)
}

// ExtractText returns the parsed JSON value when the fence-stripped text is a
// JSON document, otherwise the trimmed text itself. Embedded literals are not
// searched: prose that mentions brackets stays prose.
func ExtractText(raw string) (any, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, apperror.Malformed("empty model response", raw, nil)
	}
	if v, ok := DirectStrategy(text); ok {
		return v, nil
	}
	return text, nil
}

// StripFences removes a surrounding ``` or ```json fence and trims whitespace.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// language tag, e.g. ```json
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		tag := strings.TrimSpace(text[:nl])
		if tag == "" || isLangTag(tag) {
			text = text[nl+1:]
		}
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

func isLangTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// DirectStrategy parses the whole text as JSON.
func DirectStrategy(text string) (any, bool) {
	return decode(text)
}

// EmbeddedStrategy finds the first balanced {...} or [...] literal that parses.
func EmbeddedStrategy(text string) (any, bool) {
	for start := 0; start < len(text); start++ {
		c := text[start]
		if c != '{' && c != '[' {
			continue
		}
		end := matchBracket(text, start)
		if end < 0 {
			continue
		}
		if v, ok := decode(text[start : end+1]); ok {
			return v, true
		}
	}
	return nil, false
}

// matchBracket returns the index closing the bracket at start, honouring
// string literals and escapes, or -1.
func matchBracket(text string, start int) int {
	var stack []byte
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

func decode(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" || (text[0] != '{' && text[0] != '[') {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// trailing garbage means the direct parse did not consume the payload
	if dec.More() {
		return nil, false
	}
	return v, true
}
