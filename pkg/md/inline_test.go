package md

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boldSpan(s string) TextSpan { return TextSpan{Content: s, Annotations: Annotations{Bold: true}} }
func italicSpan(s string) TextSpan { return TextSpan{Content: s, Annotations: Annotations{Italic: true}} }
func codeSpan(s string) TextSpan { return TextSpan{Content: s, Annotations: Annotations{Code: true}} }
func linkSpan(label, url string) TextSpan {
	return TextSpan{Content: label, Link: url}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TextSpan
	}{
		{
			name:     "empty input",
			input:    "",
			expected: []TextSpan{PlainSpan("")},
		},
		{
			name:     "plain text",
			input:    "Just some words",
			expected: []TextSpan{PlainSpan("Just some words")},
		},
		{
			name:     "bold",
			input:    "**bold**",
			expected: []TextSpan{boldSpan("bold")},
		},
		{
			name:     "italic with asterisk",
			input:    "*italic*",
			expected: []TextSpan{italicSpan("italic")},
		},
		{
			name:     "italic with underscore",
			input:    "_italic_",
			expected: []TextSpan{italicSpan("italic")},
		},
		{
			name:     "inline code",
			input:    "`code`",
			expected: []TextSpan{codeSpan("code")},
		},
		{
			name:     "link",
			input:    "[this link](https://example.com)",
			expected: []TextSpan{linkSpan("this link", "https://example.com")},
		},
		{
			name:     "bold inside sentence",
			input:    "This has **bold** text",
			expected: []TextSpan{PlainSpan("This has "), boldSpan("bold"), PlainSpan(" text")},
		},
		{
			name:     "inline code inside sentence",
			input:    "Use `console.log` for debugging",
			expected: []TextSpan{PlainSpan("Use "), codeSpan("console.log"), PlainSpan(" for debugging")},
		},
		{
			name:  "every marker kind",
			input: "**a** and _b_ with `c` [d](e)",
			expected: []TextSpan{
				boldSpan("a"), PlainSpan(" and "), italicSpan("b"), PlainSpan(" with "),
				codeSpan("c"), PlainSpan(" "), linkSpan("d", "e"),
			},
		},
		{
			name:     "link label is not parsed further",
			input:    "[**x**](https://example.com)",
			expected: []TextSpan{linkSpan("**x**", "https://example.com")},
		},
		{
			name:     "lone asterisk stays literal",
			input:    "a * b",
			expected: []TextSpan{PlainSpan("a "), PlainSpan("*"), PlainSpan(" b")},
		},
		{
			name:     "mismatched italic markers",
			input:    "*a_",
			expected: []TextSpan{PlainSpan("*"), PlainSpan("a"), PlainSpan("_")},
		},
		{
			name:     "unclosed link",
			input:    "[broken](",
			expected: []TextSpan{PlainSpan("["), PlainSpan("broken](")},
		},
		{
			name:     "empty bold is literal",
			input:    "****",
			expected: []TextSpan{PlainSpan("*"), PlainSpan("*"), PlainSpan("*"), PlainSpan("*")},
		},
		{
			name:     "multibyte text",
			input:    "日本語 **太字**",
			expected: []TextSpan{PlainSpan("日本語 "), boldSpan("太字")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseInline(tt.input))
		})
	}
}

func TestParseInline_BoldIsNeverTwoItalics(t *testing.T) {
	spans := ParseInline("**bold**")
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Annotations.Bold)
	assert.False(t, spans[0].Annotations.Italic)
	assert.Equal(t, "bold", spans[0].Content)
}

func TestParseInline_NeverEmpty(t *testing.T) {
	inputs := []string{"", " ", "*", "_", "`", "[", "]", "()", "**", "``", "[](", "a", "\t"}
	for _, input := range inputs {
		spans := ParseInline(input)
		assert.NotEmpty(t, spans, "input %q", input)
	}
}

func TestParseInline_UnmatchedMarkersPreserved(t *testing.T) {
	inputs := []string{
		"a * b",
		"*mixed_*",
		"2 * 3 = 6",
		"[not a link]",
		"trailing `",
		"[label](",
		"**unclosed",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, input, joinContent(ParseInline(input)))
		})
	}
}

func TestParseInline_MatchedMarkersRemoved(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold** text", "bold text"},
		{"_it_ and *it*", "it and it"},
		{"see `x`", "see x"},
		{"[Go](https://go.dev) rocks", "Go rocks"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinContent(ParseInline(tt.input)))
		})
	}
}

func joinContent(spans []TextSpan) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Content)
	}
	return sb.String()
}
