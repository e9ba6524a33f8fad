package view

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// markdownWidth is the wrap width for styled markdown.
const markdownWidth = 100

// RenderMarkdown prints markdown styled for the terminal when the format is
// table and color is enabled. Otherwise the markdown is printed as-is.
func (r *Renderer) RenderMarkdown(markdown string) error {
	if r.format != FormatTable || r.noColor || color.NoColor {
		r.RenderText(markdown)
		return nil
	}

	styled, err := styleMarkdown(markdown, glamour.WithAutoStyle())
	if err != nil {
		return err
	}
	fmt.Fprint(r.writer, styled)
	return nil
}

func styleMarkdown(markdown string, style glamour.TermRendererOption) (string, error) {
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return tr.Render(markdown)
}
