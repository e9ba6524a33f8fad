package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/internal/cmd/cmdutil"
	"github.com/open-cli-collective/noca/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current noca configuration with source indicators.`,
		Example: `  # Show current config
  noca config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmd.OutOrStdout(), cmdutil.ConfigPath(cmd), noColor)
		},
	}

	return cmd
}

// maskToken keeps the first and last four characters of long secrets.
func maskToken(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func runShow(w io.Writer, configPath string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, secret bool, envVars ...string) {
		_, _ = bold.Fprintf(w, "%-12s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		display := value
		if secret {
			display = maskToken(value)
		}
		fmt.Fprint(w, display)

		source := "config"
		switch {
		case fileValue == value:
		case fileValue == "":
			source = "default"
		default:
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Token", cfg.Notion.Token, fileCfg.Notion.Token, true, "NOCA_NOTION_TOKEN", "NOTION_TOKEN")
	printField("Page", cfg.Notion.PageID, fileCfg.Notion.PageID, false, "NOCA_NOTION_PAGE_ID", "NOTION_PAGE_ID")
	printField("Storage", cfg.Storage.Path, fileCfg.Storage.Path, false, "NOCA_STORAGE_PATH")
	printField("AI Command", cfg.AI.Command, fileCfg.AI.Command, false, "NOCA_AI_COMMAND")
	printField("Prompt", cfg.AI.PromptFile, fileCfg.AI.PromptFile, false)
	printField("AI Timeout", cfg.AI.Timeout, fileCfg.AI.Timeout, false)

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
