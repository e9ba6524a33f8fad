package md

import (
	"regexp"
	"strings"
)

var (
	checklistPattern = regexp.MustCompile(`^- \[([ x])\] (.+)`)
	bulletPattern    = regexp.MustCompile(`^[-*] `)
	numberedPattern  = regexp.MustCompile(`^\d+\. `)
	dividerPattern   = regexp.MustCompile(`^-{3,}$`)
)

const codeFence = "```"

// ParseBlocks converts a markdown document into an ordered list of blocks.
//
// Lines are read with a single forward cursor and dispatched on their prefix;
// the first matching rule wins. Blank lines produce no block. The function
// never fails: unterminated fences and collapsible sections consume the rest
// of the document, and anything unrecognized becomes a paragraph.
func ParseBlocks(document string) []Block {
	lines := strings.Split(document, "\n")
	blocks := []Block{}

	for i := 0; i < len(lines); {
		line := lines[i]

		switch {
		case strings.TrimSpace(line) == "":
			i++

		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, headingBlock(1, line[2:]))
			i++

		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, headingBlock(2, line[3:]))
			i++

		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, headingBlock(3, line[4:]))
			i++

		case checklistPattern.MatchString(line):
			m := checklistPattern.FindStringSubmatch(line)
			blocks = append(blocks, Block{
				Type:    BlockToDo,
				Spans:   ParseInline(m[2]),
				Checked: m[1] == "x",
			})
			i++

		case bulletPattern.MatchString(line):
			blocks = append(blocks, Block{Type: BlockBulletItem, Spans: ParseInline(line[2:])})
			i++

		case numberedPattern.MatchString(line):
			// The source number is dropped; the API numbers consecutive items itself.
			content := numberedPattern.ReplaceAllString(line, "")
			blocks = append(blocks, Block{Type: BlockNumberedItem, Spans: ParseInline(content)})
			i++

		case dividerPattern.MatchString(line):
			blocks = append(blocks, Block{Type: BlockDivider})
			i++

		case strings.HasPrefix(line, codeFence):
			block, next := parseCodeBlock(lines, i)
			blocks = append(blocks, block)
			i = next

		case strings.HasPrefix(line, "> "):
			blocks = append(blocks, Block{Type: BlockQuote, Spans: ParseInline(line[2:])})
			i++

		case isToggleStart(line):
			block, next := parseToggle(lines, i)
			blocks = append(blocks, block)
			i = next

		default:
			blocks = append(blocks, Block{Type: BlockParagraph, Spans: ParseInline(line)})
			i++
		}
	}

	return blocks
}

func headingBlock(level int, text string) Block {
	return Block{Type: BlockHeading, Level: level, Spans: ParseInline(text)}
}

// parseCodeBlock reads a fenced code block starting at lines[start] and
// returns the block and the index of the first line after it.
func parseCodeBlock(lines []string, start int) (Block, int) {
	language := strings.TrimSpace(lines[start][len(codeFence):])
	if language == "" {
		language = DefaultCodeLanguage
	}

	var body []string
	i := start + 1
	for i < len(lines) && !strings.HasPrefix(lines[i], codeFence) {
		body = append(body, lines[i])
		i++
	}

	// Skip the closing fence. Past the end means the fence was never closed.
	if i < len(lines) {
		i++
	}

	return Block{
		Type:     BlockCode,
		Language: language,
		Text:     strings.Join(body, "\n"),
	}, i
}
