package configcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/api"
	"github.com/open-cli-collective/noca/internal/ai"
	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/config"
	"github.com/open-cli-collective/noca/internal/publish"
)

const testTimeout = 10 * time.Second

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the AI command and Notion connection",
		Long: `Check that the configured AI command can be found and that noca can read
the configured Notion page with the current token.`,
		Example: `  # Test configuration
  noca config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := cmdutil.LoadConfig(cmdutil.ConfigPath(cmd))
			if err != nil {
				return err
			}
			return runTest(cmd.OutOrStdout(), noColor, "", cfg)
		},
	}

	return cmd
}

// runTest checks cfg, or the default configuration when none is given.
// An empty baseURL selects the public Notion API.
func runTest(w io.Writer, noColor bool, baseURL string, cfgs ...*config.Config) error {
	if noColor {
		color.NoColor = true
	}

	var cfg *config.Config
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	} else {
		var err error
		cfg, err = cmdutil.LoadConfig(config.DefaultConfigPath())
		if err != nil {
			return err
		}
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	var failed bool

	runner, err := ai.NewRunner(cfg.AI.Command, 0)
	if err == nil {
		var path string
		if path, err = runner.LookPath(); err == nil {
			_, _ = green.Fprintf(w, "✓ AI command found: %s\n", path)
		}
	}
	if err != nil {
		failed = true
		_, _ = red.Fprintln(w, "✗ AI command unavailable:", err)
	}

	if !cfg.IsNotionConfigured() {
		_, _ = red.Fprintln(w, "✗ Notion is not configured")
		fmt.Fprintln(w, "\nConfigure with: noca init")
		return errors.New("notion is not configured")
	}

	fmt.Fprintf(w, "Testing connection to Notion page %s...\n", api.NormalizePageID(cfg.Notion.PageID))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	pub := publish.New(api.NewClient(baseURL, cfg.Notion.Token), api.NormalizePageID(cfg.Notion.PageID), nil)
	title, err := pub.PageTitle(ctx)
	if err != nil {
		_, _ = red.Fprintln(w, "✗ Connection failed:", err)
		var apiErr *api.ErrorResponse
		if errors.As(err, &apiErr) && apiErr.Hint() != "" {
			fmt.Fprintf(w, "\nHint: %s\n", apiErr.Hint())
		}
		fmt.Fprintln(w, "Check your settings with: noca config show")
		fmt.Fprintln(w, "Reconfigure with: noca init")
		return fmt.Errorf("connection failed: %w", err)
	}

	_, _ = green.Fprintln(w, "✓ Authentication successful")
	_, _ = green.Fprintf(w, "✓ Page access verified: %s\n", title)

	if failed {
		return errors.New("ai command unavailable")
	}
	return nil
}
