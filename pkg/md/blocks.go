// Package md converts the markdown dialect produced by the daily processor
// into typed blocks for the Notion API, and renders markdown to and from HTML.
package md

import "strings"

// Annotations holds the style flags of a text span.
type Annotations struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Code          bool `json:"code,omitempty"`
}

// IsZero reports whether no style flag is set.
func (a Annotations) IsZero() bool {
	return a == Annotations{}
}

// TextSpan is a run of literal text with optional styling and link.
type TextSpan struct {
	Content     string      `json:"content"`
	Annotations Annotations `json:"annotations"`
	Link        string      `json:"link,omitempty"` // empty means no link
}

// PlainSpan returns an unstyled span.
func PlainSpan(content string) TextSpan {
	return TextSpan{Content: content}
}

// BlockType identifies the kind of a Block.
type BlockType string

const (
	BlockHeading      BlockType = "heading"
	BlockBulletItem   BlockType = "bulleted_list_item"
	BlockNumberedItem BlockType = "numbered_list_item"
	BlockToDo         BlockType = "to_do"
	BlockQuote        BlockType = "quote"
	BlockDivider      BlockType = "divider"
	BlockCode         BlockType = "code"
	BlockToggle       BlockType = "toggle"
	BlockParagraph    BlockType = "paragraph"
)

// DefaultCodeLanguage is used when a fence has no language tag.
const DefaultCodeLanguage = "plain text"

// DefaultToggleSummary is used when a collapsible section has no summary text.
const DefaultToggleSummary = "Details"

// Block is one structural unit of a parsed document.
// Which fields are meaningful depends on Type:
//
//	heading                  Level (1-3), Spans
//	bulleted/numbered/quote  Spans
//	to_do                    Spans, Checked
//	divider                  nothing
//	code                     Language, Text
//	toggle                   Spans (summary), Children
//	paragraph                Spans
type Block struct {
	Type     BlockType  `json:"type"`
	Level    int        `json:"level,omitempty"`
	Spans    []TextSpan `json:"spans,omitempty"`
	Checked  bool       `json:"checked,omitempty"`
	Language string     `json:"language,omitempty"`
	Text     string     `json:"text,omitempty"`
	Children []Block    `json:"children,omitempty"`
}

// RichText returns the spans carried by the block. Code blocks expose their
// body as a single unstyled span; dividers have none.
func (b Block) RichText() []TextSpan {
	switch b.Type {
	case BlockDivider:
		return nil
	case BlockCode:
		return []TextSpan{PlainSpan(b.Text)}
	default:
		return b.Spans
	}
}

// PlainText concatenates the content of the block's spans, ignoring styling.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, span := range b.RichText() {
		sb.WriteString(span.Content)
	}
	return sb.String()
}
