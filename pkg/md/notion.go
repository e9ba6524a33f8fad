package md

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxRichTextLength is the longest content the Notion API accepts in a
// single rich text item.
const MaxRichTextLength = 2000

// NotionBlock is a block in the shape of the Notion "append block children"
// request.
type NotionBlock struct {
	Type     string
	RichText []*RichText
	Checked  *bool
	Language string
	Children []*NotionBlock
}

// RichText is a Notion rich text item of type "text".
type RichText struct {
	Type        string       `json:"type"`
	Text        TextContent  `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// TextContent holds the content and optional link of a rich text item.
type TextContent struct {
	Content string    `json:"content"`
	Link    *TextLink `json:"link,omitempty"`
}

// TextLink is a hyperlink target.
type TextLink struct {
	URL string `json:"url"`
}

// MarshalJSON emits {"object":"block","type":T,T:{...}}, the payload keyed by
// the block type.
func (b *NotionBlock) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{}

	if b.Type != "divider" {
		richText := b.RichText
		if richText == nil {
			richText = []*RichText{}
		}
		payload["rich_text"] = richText
	}
	if b.Checked != nil {
		payload["checked"] = *b.Checked
	}
	if b.Language != "" {
		payload["language"] = b.Language
	}
	if len(b.Children) > 0 {
		payload["children"] = b.Children
	}

	return json.Marshal(map[string]interface{}{
		"object": "block",
		"type":   b.Type,
		b.Type:   payload,
	})
}

// NewDivider returns a divider block.
func NewDivider() *NotionBlock {
	return &NotionBlock{Type: "divider"}
}

// ToNotionBlocks converts parsed blocks into Notion API blocks. Each Block
// maps to exactly one Notion block.
func ToNotionBlocks(blocks []Block) []*NotionBlock {
	result := make([]*NotionBlock, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, toNotionBlock(b))
	}
	return result
}

func toNotionBlock(b Block) *NotionBlock {
	switch b.Type {
	case BlockHeading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		if level > 3 {
			level = 3
		}
		return &NotionBlock{
			Type:     fmt.Sprintf("heading_%d", level),
			RichText: toRichText(b.Spans),
		}

	case BlockToDo:
		checked := b.Checked
		return &NotionBlock{
			Type:     "to_do",
			RichText: toRichText(b.Spans),
			Checked:  &checked,
		}

	case BlockDivider:
		return NewDivider()

	case BlockCode:
		return &NotionBlock{
			Type:     "code",
			RichText: toRichText([]TextSpan{PlainSpan(b.Text)}),
			Language: NotionLanguage(b.Language),
		}

	case BlockToggle:
		return &NotionBlock{
			Type:     "toggle",
			RichText: toRichText(b.Spans),
			Children: ToNotionBlocks(b.Children),
		}

	case BlockBulletItem, BlockNumberedItem, BlockQuote, BlockParagraph:
		return &NotionBlock{
			Type:     string(b.Type),
			RichText: toRichText(b.Spans),
		}

	default:
		return &NotionBlock{
			Type:     "paragraph",
			RichText: toRichText(b.Spans),
		}
	}
}

// toRichText converts spans to rich text items, splitting content that
// exceeds MaxRichTextLength into consecutive items with the same styling.
func toRichText(spans []TextSpan) []*RichText {
	items := make([]*RichText, 0, len(spans))
	for _, span := range spans {
		for _, chunk := range splitContent(span.Content, MaxRichTextLength) {
			item := &RichText{
				Type: "text",
				Text: TextContent{Content: chunk},
			}
			if span.Link != "" {
				item.Text.Link = &TextLink{URL: span.Link}
			}
			if !span.Annotations.IsZero() {
				annotations := span.Annotations
				item.Annotations = &annotations
			}
			items = append(items, item)
		}
	}
	return items
}

// splitContent cuts s into pieces of at most limit runes. An empty string
// yields one empty piece.
func splitContent(s string, limit int) []string {
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	var chunks []string
	for len(s) > 0 {
		end, count := 0, 0
		for end < len(s) && count < limit {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
			count++
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}

// notionLanguages lists the code block languages the Notion API accepts.
var notionLanguages = map[string]bool{
	"abap": true, "arduino": true, "bash": true, "basic": true, "c": true,
	"clojure": true, "coffeescript": true, "c++": true, "c#": true, "css": true,
	"dart": true, "diff": true, "docker": true, "elixir": true, "elm": true,
	"erlang": true, "flow": true, "fortran": true, "f#": true, "gherkin": true,
	"glsl": true, "go": true, "graphql": true, "groovy": true, "haskell": true,
	"html": true, "java": true, "javascript": true, "json": true, "julia": true,
	"kotlin": true, "latex": true, "less": true, "lisp": true, "livescript": true,
	"lua": true, "makefile": true, "markdown": true, "markup": true, "matlab": true,
	"mermaid": true, "nix": true, "objective-c": true, "ocaml": true, "pascal": true,
	"perl": true, "php": true, "plain text": true, "powershell": true, "prolog": true,
	"protobuf": true, "python": true, "r": true, "reason": true, "ruby": true,
	"rust": true, "sass": true, "scala": true, "scheme": true, "scss": true,
	"shell": true, "sql": true, "swift": true, "typescript": true, "vb.net": true,
	"verilog": true, "vhdl": true, "visual basic": true, "webassembly": true,
	"xml": true, "yaml": true, "java/c/c++/c#": true,
}

// languageAliases maps common fence tags to Notion language names.
var languageAliases = map[string]string{
	"js":         "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"rb":         "ruby",
	"sh":         "shell",
	"zsh":        "shell",
	"console":    "shell",
	"yml":        "yaml",
	"golang":     "go",
	"cpp":        "c++",
	"cs":         "c#",
	"csharp":     "c#",
	"md":         "markdown",
	"dockerfile": "docker",
	"rs":         "rust",
	"kt":         "kotlin",
	"ps1":        "powershell",
	"text":       "plain text",
	"txt":        "plain text",
	"plaintext":  "plain text",
}

// NotionLanguage normalizes a fence language tag to a language name the
// Notion API accepts. Unknown tags become "plain text".
func NotionLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[l]; ok {
		return alias
	}
	if notionLanguages[l] {
		return l
	}
	return DefaultCodeLanguage
}
