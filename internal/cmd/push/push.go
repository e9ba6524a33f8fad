// Package push provides the push command.
package push

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/processor"
	"github.com/open-cli-collective/noca/internal/publish"
	"github.com/open-cli-collective/noca/internal/storage"
	"github.com/open-cli-collective/noca/internal/view"
)

type pushOptions struct {
	file    string
	output  string
	noColor bool

	stdin io.Reader
	out   io.Writer
}

type pushResult struct {
	Source string `json:"source"`
	Blocks int    `json:"blocks"`
}

// NewCmdPush creates the push command.
func NewCmdPush() *cobra.Command {
	opts := &pushOptions{}

	cmd := &cobra.Command{
		Use:   "push [date]",
		Short: "Append a summary to the Notion page",
		Long: `Append a processed summary to the configured Notion page, after a divider.

By default the summary saved by 'noca process' for the date (today when
omitted) is pushed. Use --file to push any markdown file, or --file - to
read markdown from stdin.`,
		Example: `  # Push today's summary
  noca push

  # Push a past day's summary
  noca push 2024-01-15

  # Push a hand-written file
  noca push --file notes.md`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cmdutil.CompleteDates,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, opts.noColor = cmdutil.OutputFlags(cmd)
			opts.out = cmd.OutOrStdout()
			if opts.file == "-" {
				opts.stdin = cmdutil.Stdin()
			}

			s, err := cmdutil.NewSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			pub, err := s.Publisher()
			if err != nil {
				return err
			}
			proc, err := s.Processor()
			if err != nil {
				return err
			}

			return runPush(cmd.Context(), args, opts, s.Store, proc, pub)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Markdown file to push instead of the saved summary (- for stdin)")

	return cmd
}

func runPush(ctx context.Context, args []string, opts *pushOptions, store *storage.Store, proc *processor.Processor, pub *publish.Publisher) error {
	if ctx == nil {
		ctx = context.Background()
	}

	renderer, err := cmdutil.NewRenderer(opts.output, opts.noColor, opts.out)
	if err != nil {
		return err
	}

	if opts.file != "" && len(args) > 0 {
		return errors.New("pass either a date or --file, not both")
	}

	var markdown, source string
	if opts.file != "" {
		markdown, err = cmdutil.ReadInput(opts.file, opts.stdin)
		if err != nil {
			return err
		}
		source = opts.file
		if source == "-" {
			source = "stdin"
		}
	} else {
		date, err := cmdutil.DateArg(args, store)
		if err != nil {
			return err
		}
		markdown, err = proc.LoadOutput(date)
		if err != nil {
			return err
		}
		source = proc.OutputPath(date)
	}

	n, err := pub.AppendMarkdown(ctx, markdown)
	if err != nil {
		return err
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(pushResult{Source: source, Blocks: n})
	}

	renderer.Success(fmt.Sprintf("Pushed %d blocks from %s", n, source))
	return nil
}
