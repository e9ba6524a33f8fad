package md

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// htmlRenderer is a goldmark instance for exporting processed summaries.
// Raw HTML is passed through so <details> sections survive.
var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// ToHTML renders markdown to an HTML fragment.
func ToHTML(markdown []byte) (string, error) {
	if len(markdown) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	if err := htmlRenderer.Convert(markdown, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// ToHTMLDocument renders markdown to a standalone HTML page with the given title.
func ToHTMLDocument(title string, markdown []byte) (string, error) {
	body, err := ToHTML(markdown)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(htmlDocumentTemplate, html.EscapeString(title), body), nil
}
