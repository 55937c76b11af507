// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	fencePattern         = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}

// extractJSONObject returns the first balanced {...} in text, skipping braces inside strings.
// An unterminated object returns everything from the opening brace.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
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
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}

// ParseJSONFromModel recovers a JSON object from model output.
// It strips code fences, slices out the first object, then tries a strict parse,
// a parse with trailing commas removed, and finally a repair pass.
// The boolean is false when no object could be recovered.
func ParseJSONFromModel(text string) (map[string]any, bool) {
	candidate := extractJSONObject(CleanJSONBlock(text))
	if candidate == "" {
		return nil, false
	}

	if obj, ok := decodeObject(candidate); ok {
		return obj, true
	}

	withoutCommas := trailingCommaPattern.ReplaceAllString(candidate, "$1")
	if obj, ok := decodeObject(withoutCommas); ok {
		return obj, true
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, false
	}
	return decodeObject(repaired)
}

func decodeObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
