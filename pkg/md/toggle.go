package md

import (
	"regexp"
	"strings"
)

var (
	detailsOpenPattern  = regexp.MustCompile(`(?i)<details(?:\s[^>]*)?>`)
	detailsClosePattern = regexp.MustCompile(`(?i)</details\s*>`)
	summaryOpenPattern  = regexp.MustCompile(`(?i)<summary(?:\s[^>]*)?>`)
	summaryClosePattern = regexp.MustCompile(`(?i)</summary\s*>`)
	// A line holding nothing but one of the four tags.
	markerLinePattern = regexp.MustCompile(`(?i)^</?(?:details|summary)(?:\s[^>]*)?>$`)
)

// toggleState is the position of the scanner within a collapsible section.
type toggleState int

const (
	toggleSeekingOpen    toggleState = iota // before <details> or <summary>
	toggleSeekingSummary                    // after <details>, a <summary> may follow
	toggleInSummary                         // between <summary> and </summary>
	toggleInBody                            // collecting content until </details>
	toggleClosed                            // </details> consumed
)

func (s toggleState) String() string {
	switch s {
	case toggleSeekingOpen:
		return "seeking-open"
	case toggleSeekingSummary:
		return "seeking-summary"
	case toggleInSummary:
		return "in-summary"
	case toggleInBody:
		return "in-body"
	case toggleClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// isToggleStart reports whether a line opens a collapsible section.
func isToggleStart(line string) bool {
	return detailsOpenPattern.MatchString(line) || summaryOpenPattern.MatchString(line)
}

// toggleScanner collects the summary and body of a <details> section.
// Each step consumes a prefix of the current line and may change state;
// a step returning false asks for the next line.
type toggleScanner struct {
	state   toggleState
	summary []string
	content []string
}

// parseToggle reads a collapsible section starting at lines[start] and
// returns the toggle block and the index of the first line after it.
// Without a closing tag the section runs to the end of the document.
func parseToggle(lines []string, start int) (Block, int) {
	s := &toggleScanner{}
	i := start
	for i < len(lines) && s.state != toggleClosed {
		s.scanLine(lines[i])
		i++
	}
	return s.block(), i
}

func (s *toggleScanner) scanLine(line string) {
	rest, more := line, true
	for more && s.state != toggleClosed {
		switch s.state {
		case toggleSeekingOpen:
			rest, more = s.seekOpen(rest)
		case toggleSeekingSummary:
			rest, more = s.seekSummary(rest)
		case toggleInSummary:
			rest, more = s.readSummary(rest)
		case toggleInBody:
			rest, more = s.readBody(rest)
		}
	}
}

// seekOpen skips to whichever comes first of <summary> or <details>.
// Text before the opening tag is not part of the section.
func (s *toggleScanner) seekOpen(rest string) (string, bool) {
	d := detailsOpenPattern.FindStringIndex(rest)
	sm := summaryOpenPattern.FindStringIndex(rest)

	if sm != nil && (d == nil || sm[0] < d[0]) {
		s.state = toggleInSummary
		return rest[sm[1]:], true
	}
	if d != nil {
		s.state = toggleSeekingSummary
		return rest[d[1]:], true
	}

	s.state = toggleInBody
	return rest, true
}

func (s *toggleScanner) seekSummary(rest string) (string, bool) {
	trimmed := strings.TrimLeft(rest, " \t")
	if trimmed == "" {
		return "", false
	}
	if loc := summaryOpenPattern.FindStringIndex(trimmed); loc != nil && loc[0] == 0 {
		s.state = toggleInSummary
		return trimmed[loc[1]:], true
	}

	s.state = toggleInBody
	return rest, true
}

// readSummary collects summary text until </summary>. A </details> seen
// first ends the whole section, so an unclosed summary cannot run past it.
func (s *toggleScanner) readSummary(rest string) (string, bool) {
	end := detailsClosePattern.FindStringIndex(rest)
	loc := summaryClosePattern.FindStringIndex(rest)
	if end != nil && (loc == nil || end[0] < loc[0]) {
		s.addSummary(rest[:end[0]])
		s.state = toggleClosed
		return "", false
	}
	if loc != nil {
		s.addSummary(rest[:loc[0]])
		s.state = toggleInBody
		return rest[loc[1]:], true
	}
	s.addSummary(rest)
	return "", false
}

func (s *toggleScanner) readBody(rest string) (string, bool) {
	if loc := detailsClosePattern.FindStringIndex(rest); loc != nil {
		s.addContent(rest[:loc[0]])
		s.state = toggleClosed
		return "", false
	}
	s.addContent(rest)
	return "", false
}

func (s *toggleScanner) addSummary(text string) {
	if t := strings.TrimSpace(text); t != "" {
		s.summary = append(s.summary, t)
	}
}

func (s *toggleScanner) addContent(text string) {
	t := strings.TrimSpace(text)
	if t == "" || markerLinePattern.MatchString(t) {
		return
	}
	s.content = append(s.content, t)
}

func (s *toggleScanner) block() Block {
	summary := strings.Join(s.summary, " ")
	if summary == "" {
		summary = DefaultToggleSummary
	}

	children := make([]Block, 0, len(s.content))
	for _, line := range s.content {
		children = append(children, Block{Type: BlockParagraph, Spans: ParseInline(line)})
	}
	if len(children) == 0 {
		children = append(children, Block{Type: BlockParagraph, Spans: ParseInline("")})
	}

	return Block{
		Type:     BlockToggle,
		Spans:    ParseInline(summary),
		Children: children,
	}
}
