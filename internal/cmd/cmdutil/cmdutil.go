// Package cmdutil holds the setup shared by noca commands: loading
// configuration, opening the day's log, and building the store, processor,
// and Notion publisher from it.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/noca/api"
	"github.com/open-cli-collective/noca/internal/ai"
	"github.com/open-cli-collective/noca/internal/config"
	"github.com/open-cli-collective/noca/internal/logger"
	"github.com/open-cli-collective/noca/internal/processor"
	"github.com/open-cli-collective/noca/internal/publish"
	"github.com/open-cli-collective/noca/internal/storage"
	"github.com/open-cli-collective/noca/internal/view"
)

// ConfigPath returns the --config flag value, or the default config path.
func ConfigPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.ExpandPath(path)
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads the config file at path, applies environment overrides,
// and validates the result.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'noca init' to configure)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'noca init' to configure)", err)
	}
	return cfg, nil
}

// OutputFlags reads the persistent --output and --no-color flags.
func OutputFlags(cmd *cobra.Command) (string, bool) {
	output, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return output, noColor
}

// NewRenderer validates format and returns a renderer writing to w.
func NewRenderer(format string, noColor bool, w io.Writer) (*view.Renderer, error) {
	if err := view.ValidateFormat(format); err != nil {
		return nil, err
	}
	r := view.NewRenderer(view.Format(format), noColor)
	if w != nil {
		r.SetWriter(w)
	}
	return r, nil
}

// LogDir returns where daily log files are kept.
func LogDir(storageDir string) string {
	return filepath.Join(storageDir, "logs")
}

// OpenLogger opens the day's log file under storageDir. With verbose set,
// debug events are logged and everything is mirrored to console.
func OpenLogger(storageDir string, now time.Time, verbose bool, console io.Writer) (*logger.Logger, func(), error) {
	level := log.InfoLevel
	var w io.Writer
	if verbose {
		level = log.DebugLevel
		w = console
	}
	return logger.OpenDaily(LogDir(storageDir), now, w, level)
}

// DateArg returns the date in args, or today's date when args is empty.
func DateArg(args []string, store *storage.Store) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return store.Today(), nil
	}
	if err := storage.ValidateDate(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

// CompleteDates completes a date argument with the days that have captures,
// newest first.
func CompleteDates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := config.LoadWithEnv(ConfigPath(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dates, err := storage.NewStore(cfg.StorageDir()).Dates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for i := len(dates) - 1; i >= 0; i-- {
		if strings.HasPrefix(dates[i], toComplete) {
			matches = append(matches, dates[i])
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// ReadInput reads the file at path, or r when path is empty or "-".
func ReadInput(path string, r io.Reader) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	if r == nil {
		return "", fmt.Errorf("no input: pass a file or pipe content to stdin")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// Stdin returns os.Stdin when it is piped, or nil when it is a terminal.
func Stdin() io.Reader {
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return os.Stdin
}

// Session is the configured state a command runs with.
type Session struct {
	Config *config.Config
	Store  *storage.Store
	Log    *logger.Logger

	closeLog func()
}

// NewSession loads configuration for cmd and opens the day's log.
func NewSession(cmd *cobra.Command) (*Session, error) {
	cfg, err := LoadConfig(ConfigPath(cmd))
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(cfg.StorageDir())

	verbose, _ := cmd.Flags().GetBool("verbose")
	l, closeLog, err := OpenLogger(cfg.StorageDir(), store.Now(), verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &Session{Config: cfg, Store: store, Log: l, closeLog: closeLog}, nil
}

// Close releases the log file.
func (s *Session) Close() {
	if s.closeLog != nil {
		s.closeLog()
	}
}

// Processor builds the AI processor from the session's configuration.
func (s *Session) Processor() (*processor.Processor, error) {
	timeout, err := s.Config.AITimeout()
	if err != nil {
		return nil, err
	}
	runner, err := ai.NewRunner(s.Config.AI.Command, timeout)
	if err != nil {
		return nil, err
	}
	return processor.New(s.Store, runner, processor.Options{
		PromptFile: s.Config.PromptPath(),
		Logger:     s.Log,
	}), nil
}

// Publisher builds a publisher for the configured Notion page.
func (s *Session) Publisher() (*publish.Publisher, error) {
	if err := s.Config.ValidateNotion(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'noca init' to configure)", err)
	}
	client := api.NewClient("", s.Config.Notion.Token)
	return publish.New(client, api.NormalizePageID(s.Config.Notion.PageID), s.Log), nil
}
