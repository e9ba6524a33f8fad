package cmdutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/noca/internal/config"
	"github.com/open-cli-collective/noca/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"NOCA_NOTION_TOKEN", "NOTION_TOKEN", "NOCA_NOTION_PAGE_ID",
		"NOTION_PAGE_ID", "NOCA_STORAGE_PATH", "NOCA_AI_COMMAND"} {
		t.Setenv(v, "")
	}
}

func newTestCmd(configPath string, verbose bool) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", configPath, "")
	cmd.Flags().String("output", "table", "")
	cmd.Flags().Bool("no-color", true, "")
	cmd.Flags().Bool("verbose", verbose, "")
	return cmd
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newTestCmd("/tmp/custom.yml", false)
	assert.Equal(t, "/tmp/custom.yml", ConfigPath(cmd))

	cmd = newTestCmd("", false)
	assert.Equal(t, config.DefaultConfigPath(), ConfigPath(cmd))
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := &config.Config{Storage: config.StorageConfig{Path: "/data/noca"}}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/noca", loaded.Storage.Path)
	assert.Equal(t, config.DefaultAICommand, loaded.AI.Command)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  timeout: soon\n"), 0600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "noca init")
}

func TestLoadConfig_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("notion: [unclosed"), 0600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestNewRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer("plain", true, &buf)
	require.NoError(t, err)
	r.RenderText("hello")
	assert.Equal(t, "hello\n", buf.String())

	_, err = NewRenderer("xml", true, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestOpenLogger(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)

	var console bytes.Buffer
	l, closeLog, err := OpenLogger(dir, now, false, &console)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("visible")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "2024-01-15.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.NotContains(t, string(data), "hidden")
	assert.Empty(t, console.String())
}

func TestOpenLogger_Verbose(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)

	var console bytes.Buffer
	l, closeLog, err := OpenLogger(dir, now, true, &console)
	require.NoError(t, err)
	l.Debug("details")
	closeLog()

	assert.Contains(t, console.String(), "details")
}

func TestDateArg(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	store.SetClock(func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local) })

	date, err := DateArg(nil, store)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", date)

	date, err = DateArg([]string{"2023-12-31"}, store)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", date)

	_, err = DateArg([]string{"31/12/2023"}, store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrInvalidDate))
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	require.NoError(t, os.WriteFile(path, []byte("# From file"), 0644))

	got, err := ReadInput(path, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "# From file", got)

	got, err = ReadInput("-", strings.NewReader("# From stdin"))
	require.NoError(t, err)
	assert.Equal(t, "# From stdin", got)

	_, err = ReadInput("", nil)
	require.Error(t, err)

	_, err = ReadInput(filepath.Join(t.TempDir(), "missing.md"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestNewSession(t *testing.T) {
	clearEnv(t)
	storageDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := &config.Config{
		Notion:  config.NotionConfig{Token: "secret_abc", PageID: "https://www.notion.so/Inbox-0123456789abcdef0123456789abcdef"},
		Storage: config.StorageConfig{Path: storageDir},
		AI:      config.AIConfig{Command: "cat", Timeout: "10s"},
	}
	require.NoError(t, cfg.Save(path))

	s, err := NewSession(newTestCmd(path, false))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, storageDir, s.Store.BaseDir())

	p, err := s.Processor()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(storageDir, "processed"), p.OutputDir())

	_, err = s.Publisher()
	require.NoError(t, err)

	entries, err := os.ReadDir(LogDir(storageDir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSession_PublisherRequiresNotion(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := &config.Config{Storage: config.StorageConfig{Path: t.TempDir()}}
	require.NoError(t, cfg.Save(path))

	s, err := NewSession(newTestCmd(path, false))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Publisher()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion.token is required")
}

func TestCompleteDates(t *testing.T) {
	clearEnv(t)
	storageDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := &config.Config{Storage: config.StorageConfig{Path: storageDir}}
	require.NoError(t, cfg.Save(path))

	store := storage.NewStore(storageDir)
	for _, day := range []int{3, 10, 21} {
		when := time.Date(2024, 1, day, 9, 0, 0, 0, time.Local)
		store.SetClock(func() time.Time { return when })
		_, err := store.Save(storage.NewCapture("note", "", when))
		require.NoError(t, err)
	}

	cmd := newTestCmd(path, false)

	dates, directive := CompleteDates(cmd, nil, "")
	assert.Equal(t, []string{"2024-01-21", "2024-01-10", "2024-01-03"}, dates)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	dates, _ = CompleteDates(cmd, nil, "2024-01-1")
	assert.Equal(t, []string{"2024-01-10"}, dates)

	dates, _ = CompleteDates(cmd, []string{"2024-01-03"}, "")
	assert.Empty(t, dates)
}
