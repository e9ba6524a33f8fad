// Package list provides the list command.
package list

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/storage"
	"github.com/open-cli-collective/noca/internal/view"
)

type listOptions struct {
	dates   bool
	output  string
	noColor bool
	out     io.Writer
}

type dateSummary struct {
	Date     string `json:"date"`
	Captures int    `json:"captures"`
	Age      string `json:"age"`
}

// NewCmdList creates the list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list [date]",
		Aliases: []string{"ls"},
		Short:   "List captures for a day",
		Long: `List the captures saved for a day. The date defaults to today and must be
given as YYYY-MM-DD.`,
		Example: `  # Today's captures
  noca list

  # Captures from a specific day
  noca list 2024-01-15

  # Days that have captures
  noca list --dates`,
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

			return runList(args, opts, s.Store)
		},
	}

	cmd.Flags().BoolVar(&opts.dates, "dates", false, "List the days that have captures")

	return cmd
}

func runList(args []string, opts *listOptions, store *storage.Store) error {
	renderer, err := cmdutil.NewRenderer(opts.output, opts.noColor, opts.out)
	if err != nil {
		return err
	}

	if opts.dates {
		return listDates(renderer, store)
	}

	date, err := cmdutil.DateArg(args, store)
	if err != nil {
		return err
	}

	captures, err := store.LoadByDate(date)
	if err != nil {
		return err
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(captures)
	}

	if len(captures) == 0 {
		renderer.RenderText(fmt.Sprintf("No captures for %s.", date))
		return nil
	}

	headers := []string{"TIME", "TYPE", "CONTENT", "NOTE"}
	var rows [][]string
	for _, c := range captures {
		rows = append(rows, []string{
			c.Time,
			string(c.Type),
			view.Truncate(view.OneLine(c.Content), 60),
			view.Truncate(view.OneLine(c.NoteText()), 40),
		})
	}

	renderer.RenderTable(headers, rows)
	return nil
}

func listDates(renderer *view.Renderer, store *storage.Store) error {
	dates, err := store.Dates()
	if err != nil {
		return err
	}

	today := store.Today()
	summaries := make([]dateSummary, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		captures, err := store.LoadByDate(dates[i])
		if err != nil {
			return err
		}
		summaries = append(summaries, dateSummary{
			Date:     dates[i],
			Captures: len(captures),
			Age:      relativeDay(dates[i], today),
		})
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(summaries)
	}

	if len(summaries) == 0 {
		renderer.RenderText("No captures yet.")
		return nil
	}

	headers := []string{"DATE", "CAPTURES", "AGE"}
	var rows [][]string
	for _, s := range summaries {
		rows = append(rows, []string{s.Date, strconv.Itoa(s.Captures), s.Age})
	}

	renderer.RenderTable(headers, rows)
	return nil
}

// relativeDay describes date relative to today, both YYYY-MM-DD. Dates are
// compared as UTC midnights so daylight saving changes never show up as hours.
func relativeDay(date, today string) string {
	if date == today {
		return "today"
	}
	d, err := time.Parse(storage.DateLayout, date)
	if err != nil {
		return ""
	}
	t, err := time.Parse(storage.DateLayout, today)
	if err != nil {
		return ""
	}
	return humanize.RelTime(d, t, "ago", "from now")
}
