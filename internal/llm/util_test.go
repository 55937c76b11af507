package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `  {"key": "value"}  `,
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"preamble", "Here is the JSON:\n{\"a\": 1}", `{"a": 1}`},
		{"trailing text", `{"key": "value"} let me know`, `{"key": "value"}`},
		{"nested", `x {"a": {"b": {"c": 1}}} y`, `{"a": {"b": {"c": 1}}}`},
		{"braces in strings", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"escaped quote", `{"q": "say \"}\" now"}`, `{"q": "say \"}\" now"}`},
		{"unterminated", `{"a": [1, 2`, `{"a": [1, 2`},
		{"no object", "not json", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestParseJSONFromModel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		want  any
	}{
		{"strict", `{"seniority": "mid"}`, "seniority", "mid"},
		{"fenced", "```json\n{\"score\": 70}\n```", "score", float64(70)},
		{"prose around", "Sure! {\"roles\": [\"Backend\"]} Hope this helps.", "roles", []any{"Backend"}},
		{"trailing commas", `{"roles": ["a", "b",], "x": 1,}`, "roles", []any{"a", "b"}},
		{"single quotes repaired", `{'seniority': 'senior'}`, "seniority", "senior"},
		{"unterminated repaired", `{"strengths": ["Go", "SQL"`, "strengths", []any{"Go", "SQL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := ParseJSONFromModel(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, obj[tt.key])
		})
	}
}

func TestParseJSONFromModel_Failures(t *testing.T) {
	for _, input := range []string{"", "no json here", "[1, 2, 3]", "```\n```"} {
		obj, ok := ParseJSONFromModel(input)
		assert.False(t, ok, "input %q", input)
		assert.Nil(t, obj)
	}
}

func TestParseJSONFromModel_RoundTripsNestedObjects(t *testing.T) {
	input := `{"short_term": [{"outcome": "Ship a Go service", "actions": ["Write tests", "Deploy"]}]}`

	obj, ok := ParseJSONFromModel(input)
	require.True(t, ok)

	items, ok := obj["short_term"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Ship a Go service", item["outcome"])
	assert.Equal(t, []any{"Write tests", "Deploy"}, item["actions"])
}
