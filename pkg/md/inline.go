package md

import (
	"regexp"
	"strings"
)

// Inline patterns, all anchored at the start of the unconsumed text.
// RE2 has no backreferences, so the two italic forms are separate patterns.
var (
	linkPattern       = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)`)
	boldPattern       = regexp.MustCompile(`^\*\*([^*]+)\*\*`)
	italicStarPattern = regexp.MustCompile(`^\*([^*_]+)\*`)
	italicUndPattern  = regexp.MustCompile(`^_([^*_]+)_`)
	codePattern       = regexp.MustCompile("^`([^`]+)`")
)

// inlineSpecialChars are the characters that may start an inline marker.
const inlineSpecialChars = "[*_`"

// ParseInline splits a line of text into styled spans.
//
// Markers are tried in a fixed order at each position: link, bold, italic,
// inline code. Anything that does not match is emitted as plain text, so the
// function never fails and always returns at least one span.
func ParseInline(text string) []TextSpan {
	var spans []TextSpan
	remaining := text

	for len(remaining) > 0 {
		if m := linkPattern.FindStringSubmatch(remaining); m != nil {
			spans = append(spans, TextSpan{Content: m[1], Link: m[2]})
			remaining = remaining[len(m[0]):]
			continue
		}

		if m := boldPattern.FindStringSubmatch(remaining); m != nil {
			spans = append(spans, TextSpan{Content: m[1], Annotations: Annotations{Bold: true}})
			remaining = remaining[len(m[0]):]
			continue
		}

		if m := matchItalic(remaining); m != nil {
			spans = append(spans, TextSpan{Content: m[1], Annotations: Annotations{Italic: true}})
			remaining = remaining[len(m[0]):]
			continue
		}

		if m := codePattern.FindStringSubmatch(remaining); m != nil {
			spans = append(spans, TextSpan{Content: m[1], Annotations: Annotations{Code: true}})
			remaining = remaining[len(m[0]):]
			continue
		}

		next := strings.IndexAny(remaining, inlineSpecialChars)
		switch {
		case next == -1:
			spans = append(spans, PlainSpan(remaining))
			remaining = ""
		case next == 0:
			// Unmatched marker: keep it as a literal character.
			spans = append(spans, PlainSpan(remaining[:1]))
			remaining = remaining[1:]
		default:
			spans = append(spans, PlainSpan(remaining[:next]))
			remaining = remaining[next:]
		}
	}

	if len(spans) == 0 {
		return []TextSpan{PlainSpan("")}
	}
	return spans
}

func matchItalic(s string) []string {
	if m := italicStarPattern.FindStringSubmatch(s); m != nil {
		return m
	}
	return italicUndPattern.FindStringSubmatch(s)
}
