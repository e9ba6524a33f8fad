// Package process provides the process command.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/processor"
	"github.com/open-cli-collective/noca/internal/publish"
	"github.com/open-cli-collective/noca/internal/view"
)

type processOptions struct {
	push    bool
	output  string
	noColor bool
	out     io.Writer
}

type processResult struct {
	*processor.Result
	Pushed int `json:"pushed,omitempty"`
}

// NewCmdProcess creates the process command.
func NewCmdProcess() *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process [date]",
		Short: "Summarize a day's captures with the AI command",
		Long: `Send a day's captures to the configured AI command and save the markdown
summary it returns to <storage>/processed/<date>.md.

The date defaults to today. With --push the summary is also appended to the
configured Notion page.`,
		Example: `  # Summarize today
  noca process

  # Summarize a past day and push it to Notion
  noca process 2024-01-15 --push`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cmdutil.CompleteDates,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, opts.noColor = cmdutil.OutputFlags(cmd)
			opts.out = cmd.OutOrStdout()

			s, err := cmdutil.NewSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			proc, err := s.Processor()
			if err != nil {
				return err
			}

			var pub *publish.Publisher
			if opts.push {
				if pub, err = s.Publisher(); err != nil {
					return err
				}
			}

			return runProcess(cmd.Context(), args, opts, proc, pub)
		},
	}

	cmd.Flags().BoolVar(&opts.push, "push", false, "Append the summary to the Notion page")

	return cmd
}

func runProcess(ctx context.Context, args []string, opts *processOptions, proc *processor.Processor, pub *publish.Publisher) error {
	if ctx == nil {
		ctx = context.Background()
	}

	renderer, err := cmdutil.NewRenderer(opts.output, opts.noColor, opts.out)
	if err != nil {
		return err
	}

	if opts.push && pub == nil {
		return errors.New("--push requires Notion to be configured (run 'noca init')")
	}

	var date string
	if len(args) > 0 {
		date = args[0]
	}

	result, err := proc.Process(ctx, date)
	if errors.Is(err, processor.ErrNoCaptures) {
		renderer.Warning(fmt.Sprintf("No captures for %s, nothing to process", displayDate(date)))
		return nil
	}
	if err != nil {
		return err
	}

	out := processResult{Result: result}
	if opts.push {
		n, err := pub.AppendMarkdown(ctx, result.Output)
		if err != nil {
			return fmt.Errorf("summary saved to %s but push failed: %w", result.Path, err)
		}
		out.Pushed = n
	}

	switch renderer.Format() {
	case view.FormatJSON:
		return renderer.RenderJSON(out)
	case view.FormatPlain:
		renderer.RenderText(result.Output)
		return nil
	}

	if err := renderer.RenderMarkdown(result.Output); err != nil {
		return err
	}
	renderer.RenderText("")
	renderer.Success(fmt.Sprintf("Summarized %d captures, saved to %s", result.Captures, result.Path))
	if opts.push {
		renderer.Success(fmt.Sprintf("Pushed %d blocks to Notion", out.Pushed))
	}
	return nil
}

func displayDate(date string) string {
	if date == "" {
		return "today"
	}
	return date
}
