// Package capture provides the capture command.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/fetch"
	"github.com/open-cli-collective/noca/internal/logger"
	"github.com/open-cli-collective/noca/internal/storage"
	"github.com/open-cli-collective/noca/internal/view"
	"github.com/open-cli-collective/noca/pkg/md"
)

type captureOptions struct {
	note       string
	html       bool
	fetchTitle bool
	output     string
	noColor    bool

	stdin      io.Reader
	out        io.Writer
	httpClient *http.Client
}

type captureResult struct {
	Date    string          `json:"date"`
	Total   int             `json:"total"`
	Capture storage.Capture `json:"capture"`
}

// NewCmdCapture creates the capture command.
func NewCmdCapture() *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture [content...]",
		Short: "Capture a note or URL",
		Long: `Append a note or URL to today's capture file.

Content is taken from the arguments, or from stdin when no arguments are
given. Content starting with http:// or https:// is stored as a URL.`,
		Example: `  # Capture a thought
  noca capture "Look into Notion toggle blocks"

  # Capture a URL with a note
  noca capture https://go.dev/blog --note "Read later"

  # Use the page title as the note
  noca capture https://go.dev/blog --fetch-title

  # Capture HTML from the clipboard as markdown
  pbpaste -Prefer html | noca capture --html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, opts.noColor = cmdutil.OutputFlags(cmd)
			opts.out = cmd.OutOrStdout()
			if len(args) == 0 {
				opts.stdin = cmdutil.Stdin()
			}

			s, err := cmdutil.NewSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return runCapture(cmd.Context(), args, opts, s.Store, s.Log)
		},
	}

	cmd.Flags().StringVarP(&opts.note, "note", "n", "", "Note to attach to the capture")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Convert HTML content to markdown before saving")
	cmd.Flags().BoolVar(&opts.fetchTitle, "fetch-title", false, "Use the page title as the note for URL captures")

	return cmd
}

func runCapture(ctx context.Context, args []string, opts *captureOptions, store *storage.Store, log *logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logger.Discard()
	}

	renderer, err := cmdutil.NewRenderer(opts.output, opts.noColor, opts.out)
	if err != nil {
		return err
	}

	content := strings.Join(args, " ")
	if len(args) == 0 {
		if opts.stdin == nil {
			return errors.New("nothing to capture: pass content as arguments or pipe it to stdin")
		}
		data, err := io.ReadAll(opts.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		content = string(data)
	}

	if opts.html {
		content, err = md.FromHTML(content)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(content) == "" {
		return errors.New("nothing to capture: content is empty")
	}

	note := opts.note
	if opts.fetchTitle && strings.TrimSpace(note) == "" && storage.DetectType(content) == storage.TypeURL {
		client := opts.httpClient
		if client == nil {
			client = fetch.NewHTTPClient()
		}
		title, err := fetch.Title(ctx, client, strings.TrimSpace(content))
		if err != nil {
			log.Warn("could not fetch title", "url", strings.TrimSpace(content), "error", err)
			if renderer.Format() != view.FormatJSON {
				renderer.Warning("Could not fetch page title, saving without a note")
			}
		}
		note = title
	}

	capture := storage.NewCapture(content, note, store.Now())
	total, err := store.Save(capture)
	if err != nil {
		return err
	}

	date := store.Today()
	log.CaptureSaved(date, string(capture.Type), total)

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(captureResult{Date: date, Total: total, Capture: capture})
	}

	renderer.Success(fmt.Sprintf("Captured %s at %s (%d today)", capture.Type, capture.Time, total))
	return nil
}
