// Package config provides configuration management for noca.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultStoragePath = "~/noca"
	DefaultAICommand   = "claude -p"
	DefaultAITimeout   = "5m"
)

// Config holds the noca configuration.
//
// The yaml tags match the keys of the older ~/noca/config.json file, so that
// file loads through the same decoder.
type Config struct {
	Notion  NotionConfig  `yaml:"notion"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai,omitempty"`
}

// NotionConfig holds the Notion integration settings.
type NotionConfig struct {
	Token  string `yaml:"token"`
	PageID string `yaml:"pageId"`
}

// StorageConfig holds where captures, processed output, and logs live.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AIConfig holds the external summarizer settings.
type AIConfig struct {
	Command    string `yaml:"command,omitempty"`
	PromptFile string `yaml:"promptFile,omitempty"`
	Timeout    string `yaml:"timeout,omitempty"`
}

// ApplyDefaults fills empty settings with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.AI.Command == "" {
		c.AI.Command = DefaultAICommand
	}
	if c.AI.Timeout == "" {
		c.AI.Timeout = DefaultAITimeout
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	if strings.TrimSpace(c.AI.Command) == "" {
		return errors.New("ai.command is required")
	}
	if _, err := c.AITimeout(); err != nil {
		return err
	}
	return nil
}

// ValidateNotion checks the settings needed to talk to Notion.
func (c *Config) ValidateNotion() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Notion.Token == "" {
		return errors.New("notion.token is required")
	}
	if c.Notion.PageID == "" {
		return errors.New("notion.pageId is required")
	}
	return nil
}

// IsNotionConfigured reports whether both the token and page id are set.
func (c *Config) IsNotionConfigured() bool {
	return c.Notion.Token != "" && c.Notion.PageID != ""
}

// StorageDir returns the storage path with ~ expanded.
func (c *Config) StorageDir() string {
	return ExpandPath(c.Storage.Path)
}

// PromptPath returns the prompt file path with ~ expanded, or "" when the
// built-in prompt should be used.
func (c *Config) PromptPath() string {
	if c.AI.PromptFile == "" {
		return ""
	}
	return ExpandPath(c.AI.PromptFile)
}

// AITimeout parses the configured AI timeout. Zero means no timeout.
func (c *Config) AITimeout() (time.Duration, error) {
	if c.AI.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.AI.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid ai.timeout %q: %w", c.AI.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid ai.timeout %q: must not be negative", c.AI.Timeout)
	}
	return d, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: NOCA_* → NOTION_* → existing config value
func (c *Config) LoadFromEnv() {
	if token := getEnvWithFallback("NOCA_NOTION_TOKEN", "NOTION_TOKEN"); token != "" {
		c.Notion.Token = token
	}
	if pageID := getEnvWithFallback("NOCA_NOTION_PAGE_ID", "NOTION_PAGE_ID"); pageID != "" {
		c.Notion.PageID = pageID
	}
	if path := os.Getenv("NOCA_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	}
	if command := os.Getenv("NOCA_AI_COMMAND"); command != "" {
		c.AI.Command = command
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// DefaultConfigPath returns the default configuration file path.
//
// When no file exists there but the older ~/noca/config.json does, that file
// is used instead.
func DefaultConfigPath() string {
	path := XDGConfigPath()
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if legacy := LegacyConfigPath(); legacy != "" {
		if _, err := os.Stat(legacy); err == nil {
			return legacy
		}
	}
	return path
}

// XDGConfigPath returns the config.yml path under XDG_CONFIG_HOME, or
// ~/.config when it is unset. New configuration is always written here.
func XDGConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "noca", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".noca", "config.yml")
	}

	return filepath.Join(home, ".config", "noca", "config.yml")
}

// LegacyConfigPath returns ~/noca/config.json, or "" if the home directory
// is unknown.
func LegacyConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "noca", "config.json")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables, and applies defaults. A missing file is not an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
