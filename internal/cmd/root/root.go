// Package root provides the root command for the noca CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/blocks"
	"github.com/open-cli-collective/noca/internal/cmd/capture"
	"github.com/open-cli-collective/noca/internal/cmd/completion"
	"github.com/open-cli-collective/noca/internal/cmd/configcmd"
	"github.com/open-cli-collective/noca/internal/cmd/export"
	initcmd "github.com/open-cli-collective/noca/internal/cmd/init"
	"github.com/open-cli-collective/noca/internal/cmd/list"
	"github.com/open-cli-collective/noca/internal/cmd/process"
	"github.com/open-cli-collective/noca/internal/cmd/push"
	"github.com/open-cli-collective/noca/internal/version"
)

// NewCmdRoot creates the root command for noca.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noca",
		Short: "Capture notes and push daily AI summaries to Notion",
		Long: `noca collects notes and URLs throughout the day, summarizes them with an
AI command-line tool, and appends the summary to a Notion page.

A typical day:

  noca capture "Idea for the parser"
  noca capture https://go.dev/blog --fetch-title
  noca process --push

Get started by running: noca init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/noca/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	// Set version template
	cmd.SetVersionTemplate("noca version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(capture.NewCmdCapture())
	cmd.AddCommand(list.NewCmdList())
	cmd.AddCommand(process.NewCmdProcess())
	cmd.AddCommand(push.NewCmdPush())
	cmd.AddCommand(blocks.NewCmdBlocks())
	cmd.AddCommand(export.NewCmdExport())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
