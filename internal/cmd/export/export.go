// Package export provides the export command.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/config"
	"github.com/open-cli-collective/noca/internal/processor"
	"github.com/open-cli-collective/noca/internal/storage"
	"github.com/open-cli-collective/noca/internal/view"
	"github.com/open-cli-collective/noca/pkg/md"
)

type exportOptions struct {
	outPath string
	output  string
	noColor bool
	out     io.Writer
}

type exportResult struct {
	Date string `json:"date"`
	Path string `json:"path"`
}

// NewCmdExport creates the export command.
func NewCmdExport() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [date]",
		Short: "Render a summary to HTML",
		Long: `Render the summary saved by 'noca process' as a standalone HTML page.

The date defaults to today. The page is written to
<storage>/exports/<date>.html unless --out is given; --out - writes to stdout.`,
		Example: `  # Export today's summary
  noca export

  # Export a past day to a chosen file
  noca export 2024-01-15 --out ~/Desktop/summary.html`,
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

			return runExport(args, opts, s.Store, proc)
		},
	}

	cmd.Flags().StringVar(&opts.outPath, "out", "", "Output file (- for stdout)")

	return cmd
}

// exportPath returns the default location of a day's HTML export.
func exportPath(store *storage.Store, date string) string {
	return filepath.Join(store.BaseDir(), "exports", date+".html")
}

func runExport(args []string, opts *exportOptions, store *storage.Store, proc *processor.Processor) error {
	renderer, err := cmdutil.NewRenderer(opts.output, opts.noColor, opts.out)
	if err != nil {
		return err
	}

	date, err := cmdutil.DateArg(args, store)
	if err != nil {
		return err
	}

	markdown, err := proc.LoadOutput(date)
	if err != nil {
		return err
	}

	html, err := md.ToHTMLDocument("noca "+date, []byte(markdown))
	if err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	if opts.outPath == "-" {
		_, err := io.WriteString(renderer.Writer(), html)
		return err
	}

	path := opts.outPath
	if path == "" {
		path = exportPath(store, date)
	}
	path = config.ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(exportResult{Date: date, Path: path})
	}

	renderer.Success(fmt.Sprintf("Exported %s to %s", date, path))
	return nil
}
