// Package init provides the init command for noca.
package init

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/api"
	"github.com/open-cli-collective/noca/internal/config"
)

const verifyTimeout = 10 * time.Second

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		token    string
		pageID   string
		storage  string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize noca configuration",
		Long: `Initialize noca with your Notion integration and local storage settings.

This command will guide you through setting up your Notion integration token,
the page summaries are appended to, and where captures are stored. The
configuration will be saved to ~/.config/noca/config.yml.

To create an integration token:
  1. Go to https://www.notion.so/my-integrations
  2. Create an internal integration with the "Insert content" capability
  3. Copy the token and share your target page with the integration`,
		Example: `  # Interactive setup
  noca init

  # Pre-populate the page
  noca init --page-id https://www.notion.so/Inbox-0123456789abcdef0123456789abcdef`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(token, pageID, storage, noVerify)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Notion integration token")
	cmd.Flags().StringVar(&pageID, "page-id", "", "Notion page ID or URL")
	cmd.Flags().StringVar(&storage, "storage", "", "Directory for captures and summaries (default: ~/noca)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip connection verification")

	return cmd
}

func runInit(prefillToken, prefillPageID, prefillStorage string, noVerify bool) error {
	configPath := config.XDGConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := prefill(prefillToken, prefillPageID, prefillStorage)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Notion Token").
				Description("Internal integration secret from notion.so/my-integrations").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Notion.Token).
				Validate(required("token is required")),

			huh.NewInput().
				Title("Notion Page").
				Description("Page ID or URL that summaries are appended to").
				Placeholder("https://www.notion.so/Inbox-0123456789abcdef0123456789abcdef").
				Value(&cfg.Notion.PageID).
				Validate(required("page is required")),

			huh.NewInput().
				Title("Storage Directory").
				Description("Where captures, summaries, and logs are kept").
				Value(&cfg.Storage.Path),

			huh.NewInput().
				Title("AI Command").
				Description("Command that reads captures on stdin and prints markdown").
				Value(&cfg.AI.Command),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Notion.PageID = api.NormalizePageID(cfg.Notion.PageID)
	cfg.ApplyDefaults()

	if err := cfg.ValidateNotion(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify connection unless skipped
	if !noVerify {
		fmt.Print("Verifying connection... ")
		title, err := verifyConnection(cfg, "")
		if err != nil {
			fmt.Println("failed!")
			return fmt.Errorf("connection verification failed: %w", err)
		}
		fmt.Printf("success! (page: %s)\n", title)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println(`  noca capture "My first note"`)
	fmt.Println("  noca process --push")

	return nil
}

// prefill starts from any existing configuration, including the older
// ~/noca/config.json, and applies flag values over it.
func prefill(token, pageID, storage string) *config.Config {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}
	if token != "" {
		cfg.Notion.Token = token
	}
	if pageID != "" {
		cfg.Notion.PageID = pageID
	}
	if storage != "" {
		cfg.Storage.Path = storage
	}
	cfg.ApplyDefaults()
	return cfg
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// verifyConnection reads the configured page and returns its title.
func verifyConnection(cfg *config.Config, baseURL string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	client := api.NewClient(baseURL, cfg.Notion.Token)
	page, err := client.GetPage(ctx, cfg.Notion.PageID)
	if err != nil {
		var apiErr *api.ErrorResponse
		if errors.As(err, &apiErr) {
			if hint := apiErr.Hint(); hint != "" {
				return "", fmt.Errorf("%w - %s", err, hint)
			}
		}
		return "", err
	}

	return page.Title(), nil
}
