// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// envVars lists the environment variables that override configuration.
var envVars = []string{
	"NOCA_NOTION_TOKEN", "NOTION_TOKEN",
	"NOCA_NOTION_PAGE_ID", "NOTION_PAGE_ID",
	"NOCA_STORAGE_PATH", "NOCA_AI_COMMAND",
}

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage noca configuration",
		Long:  `Commands for viewing, testing, and clearing noca configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}
