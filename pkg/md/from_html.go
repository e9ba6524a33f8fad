package md

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// blankRunPattern matches three or more consecutive newlines.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// FromHTML converts an HTML fragment, such as rich clipboard content, to
// markdown. Runs of blank lines are collapsed to one.
func FromHTML(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}

	markdown = blankRunPattern.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown), nil
}
