package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePath(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)
	assert.Equal(t, filepath.Join("/logs", "2024-03-01.log"), FilePath("/logs", now))
}

func TestOpenDaily_WritesFileAndConsole(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

	var console bytes.Buffer
	l, cleanup, err := OpenDaily(dir, now, &console, log.InfoLevel)
	require.NoError(t, err)

	l.CaptureSaved("2024-03-01", "url", 3)
	cleanup()

	data, err := os.ReadFile(FilePath(dir, now))
	require.NoError(t, err)
	assert.Contains(t, string(data), "capture saved")
	assert.Contains(t, string(data), "type=url")
	assert.Contains(t, string(data), "total=3")
	assert.Equal(t, string(data), console.String())
}

func TestOpenDaily_Appends(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	for i := 0; i < 2; i++ {
		l, cleanup, err := OpenDaily(dir, now, nil, log.InfoLevel)
		require.NoError(t, err)
		l.BlocksPushed("page-1", i+1)
		cleanup()
	}

	data, err := os.ReadFile(FilePath(dir, now))
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("blocks pushed")))
}

func TestOpenDaily_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, _, err := OpenDaily(filepath.Join(file, "logs"), time.Now(), nil, log.InfoLevel)
	require.Error(t, err)
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.AIInvoked("claude -p", 1500*time.Millisecond, 42)
	assert.Empty(t, buf.String(), "debug events are hidden at info level")

	l = NewWithLevel(&buf, log.DebugLevel)
	l.AIInvoked("claude -p", 1500*time.Millisecond, 42)
	assert.Contains(t, buf.String(), "ai command finished")
	assert.Contains(t, buf.String(), "output_bytes=42")
}

func TestLogger_Events(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.ProcessStarted("2024-03-01", 4)
	l.ProcessSaved("2024-03-01", "/tmp/processed/2024-03-01.md")
	l.ProcessFailed("2024-03-02", errors.New("boom"))
	l.PushFailed("page-1", 100, errors.New("rate limited"))

	out := buf.String()
	assert.Contains(t, out, "processing captures")
	assert.Contains(t, out, "captures=4")
	assert.Contains(t, out, "summary saved")
	assert.Contains(t, out, "processing failed")
	assert.Contains(t, out, "push failed")
	assert.Contains(t, out, "appended=100")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	require.NotNil(t, l)
	l.CaptureSaved("2024-03-01", "text", 1)
}
