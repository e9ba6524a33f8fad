// Package processor turns a day of captures into a markdown summary using
// the external AI command.
package processor

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-cli-collective/noca/internal/logger"
	"github.com/open-cli-collective/noca/internal/storage"
)

//go:embed prompt.md
var defaultPrompt string

// ErrNoCaptures is returned by Process when the day has nothing to summarize.
var ErrNoCaptures = errors.New("no captures")

// Invoker runs the summarizer with a prompt and a stdin payload.
type Invoker interface {
	Run(ctx context.Context, prompt, stdin string) (string, error)
	Command() string
}

// Options configures a Processor.
type Options struct {
	// PromptFile replaces the built-in prompt when set.
	PromptFile string
	Logger     *logger.Logger
}

// Processor summarizes captures for a date.
type Processor struct {
	store      *storage.Store
	runner     Invoker
	promptFile string
	log        *logger.Logger
}

// Result is the outcome of processing one day.
type Result struct {
	Date     string `json:"date"`
	Captures int    `json:"captures"`
	Path     string `json:"path"`
	Output   string `json:"output"`
}

// New creates a processor reading from store and writing next to it.
func New(store *storage.Store, runner Invoker, opts Options) *Processor {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Processor{
		store:      store,
		runner:     runner,
		promptFile: opts.PromptFile,
		log:        log,
	}
}

// OutputDir returns the directory summaries are written to.
func (p *Processor) OutputDir() string {
	return filepath.Join(p.store.BaseDir(), "processed")
}

// OutputPath returns the summary file for a date.
func (p *Processor) OutputPath(date string) string {
	return filepath.Join(p.OutputDir(), date+".md")
}

// LoadCaptures returns the captures for a date.
func (p *Processor) LoadCaptures(date string) ([]storage.Capture, error) {
	return p.store.LoadByDate(date)
}

// LoadPrompt returns the prompt template.
func (p *Processor) LoadPrompt() (string, error) {
	if p.promptFile == "" {
		return defaultPrompt, nil
	}
	data, err := os.ReadFile(p.promptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}
	return string(data), nil
}

// BuildPrompt appends the date and the captures as indented JSON to the
// prompt template.
func (p *Processor) BuildPrompt(captures []storage.Capture, date string) (string, error) {
	template, err := p.LoadPrompt()
	if err != nil {
		return "", err
	}

	payload, err := storage.Encode(captures)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(template, "\n"))
	sb.WriteString("\n\nDate: ")
	sb.WriteString(date)
	sb.WriteString("\n\nCaptures:\n")
	sb.Write(payload)
	return sb.String(), nil
}

// Process summarizes the captures of date, today when date is empty, writes
// the summary to OutputPath and returns it. A day without captures returns
// an error wrapping ErrNoCaptures.
func (p *Processor) Process(ctx context.Context, date string) (*Result, error) {
	if date == "" {
		date = p.store.Today()
	}

	captures, err := p.LoadCaptures(date)
	if err != nil {
		return nil, err
	}
	if len(captures) == 0 {
		p.log.Info("no captures found", "date", date)
		return nil, fmt.Errorf("%w for %s", ErrNoCaptures, date)
	}
	p.log.ProcessStarted(date, len(captures))

	prompt, err := p.BuildPrompt(captures, date)
	if err != nil {
		return nil, err
	}
	payload, err := storage.Encode(captures)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	output, err := p.runner.Run(ctx, prompt, string(payload))
	if err != nil {
		p.log.ProcessFailed(date, err)
		return nil, err
	}
	p.log.AIInvoked(p.runner.Command(), time.Since(start), len(output))

	path := p.OutputPath(date)
	if err := os.MkdirAll(p.OutputDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	p.log.ProcessSaved(date, path)

	return &Result{
		Date:     date,
		Captures: len(captures),
		Path:     path,
		Output:   output,
	}, nil
}

// LoadOutput reads the saved summary for a date.
func (p *Processor) LoadOutput(date string) (string, error) {
	if err := storage.ValidateDate(date); err != nil {
		return "", err
	}
	data, err := os.ReadFile(p.OutputPath(date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("no summary for %s (run 'noca process %s' first)", date, date)
		}
		return "", fmt.Errorf("failed to read summary: %w", err)
	}
	return string(data), nil
}
