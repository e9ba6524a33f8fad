// Package logger wraps charmbracelet/log with noca's daily log files and
// domain events.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// FilePath returns the log file for the day of now: <dir>/<YYYY-MM-DD>.log.
func FilePath(dir string, now time.Time) string {
	return filepath.Join(dir, now.Format("2006-01-02")+".log")
}

// OpenDaily creates a logger that appends to the day's file under dir and,
// when console is non-nil, also writes to console. The returned cleanup
// closes the file.
func OpenDaily(dir string, now time.Time, console io.Writer, level log.Level) (*Logger, func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(FilePath(dir, now), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = f
	if console != nil {
		w = io.MultiWriter(f, console)
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(w, level), cleanup, nil
}

// CaptureSaved logs a capture appended to a day's file
func (l *Logger) CaptureSaved(date, kind string, count int) {
	l.Info("capture saved",
		"date", date,
		"type", kind,
		"total", count)
}

// ProcessStarted logs the start of processing a day
func (l *Logger) ProcessStarted(date string, captures int) {
	l.Info("processing captures",
		"date", date,
		"captures", captures)
}

// AIInvoked logs a finished call to the summarizer
func (l *Logger) AIInvoked(command string, duration time.Duration, outputBytes int) {
	l.Debug("ai command finished",
		"command", command,
		"duration", duration.Round(time.Millisecond),
		"output_bytes", outputBytes)
}

// ProcessSaved logs the summary written for a day
func (l *Logger) ProcessSaved(date, path string) {
	l.Info("summary saved",
		"date", date,
		"path", path)
}

// ProcessFailed logs a failed processing run
func (l *Logger) ProcessFailed(date string, err error) {
	l.Error("processing failed",
		"date", date,
		"error", err)
}

// BlocksPushed logs blocks appended to a page
func (l *Logger) BlocksPushed(pageID string, blocks int) {
	l.Info("blocks pushed",
		"page", pageID,
		"blocks", blocks)
}

// PushFailed logs a failed append
func (l *Logger) PushFailed(pageID string, appended int, err error) {
	l.Error("push failed",
		"page", pageID,
		"appended", appended,
		"error", err)
}
