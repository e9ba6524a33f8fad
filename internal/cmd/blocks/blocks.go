// Package blocks provides the blocks command.
package blocks

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/publish"
	"github.com/open-cli-collective/noca/internal/view"
	"github.com/open-cli-collective/noca/pkg/md"
)

type blocksOptions struct {
	divider bool
	parsed  bool
	output  string
	noColor bool

	stdin io.Reader
	out   io.Writer
}

// NewCmdBlocks creates the blocks command.
func NewCmdBlocks() *cobra.Command {
	opts := &blocksOptions{}

	cmd := &cobra.Command{
		Use:   "blocks [file]",
		Short: "Show the Notion blocks a markdown document converts to",
		Long: `Convert markdown to Notion blocks without sending anything.

The table output lists one row per block. With -o json the exact block
payload that 'noca push' would send is printed. Reads stdin when no file
is given.`,
		Example: `  # Preview a summary
  noca blocks ~/noca/processed/2024-01-15.md

  # Inspect the API payload
  cat notes.md | noca blocks -o json

  # Inspect the parsed block tree
  noca blocks notes.md -o json --parsed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, opts.noColor = cmdutil.OutputFlags(cmd)
			opts.out = cmd.OutOrStdout()
			if len(args) == 0 {
				opts.stdin = cmdutil.Stdin()
			}
			return runBlocks(args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.divider, "divider", false, "Prepend the divider 'noca push' adds")
	cmd.Flags().BoolVar(&opts.parsed, "parsed", false, "Print the parsed block tree instead of the API payload (json output)")

	return cmd
}

func runBlocks(args []string, opts *blocksOptions) error {
	renderer, err := cmdutil.NewRenderer(opts.output, opts.noColor, opts.out)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	markdown, err := cmdutil.ReadInput(path, opts.stdin)
	if err != nil {
		return err
	}

	parsed := md.ParseBlocks(markdown)

	if renderer.Format() == view.FormatJSON && !opts.parsed {
		if opts.divider {
			return renderer.RenderJSON(publish.Blocks(markdown))
		}
		return renderer.RenderJSON(md.ToNotionBlocks(parsed))
	}

	if opts.divider {
		parsed = append([]md.Block{{Type: md.BlockDivider}}, parsed...)
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(parsed)
	}

	if len(parsed) == 0 {
		renderer.RenderText("No blocks.")
		return nil
	}

	renderer.RenderTable([]string{"TYPE", "CONTENT"}, rows(parsed, 0))
	return nil
}

func rows(blocks []md.Block, depth int) [][]string {
	var result [][]string
	indent := strings.Repeat("  ", depth)
	for _, b := range blocks {
		result = append(result, []string{indent + typeName(b), view.Truncate(view.OneLine(b.PlainText()), 70)})
		if len(b.Children) > 0 {
			result = append(result, rows(b.Children, depth+1)...)
		}
	}
	return result
}

func typeName(b md.Block) string {
	switch b.Type {
	case md.BlockHeading:
		return fmt.Sprintf("heading_%d", b.Level)
	case md.BlockToDo:
		if b.Checked {
			return "to_do [x]"
		}
		return "to_do [ ]"
	case md.BlockCode:
		return "code (" + b.Language + ")"
	}
	return string(b.Type)
}
