// Package storage keeps captures in one JSON file per calendar day.
//
// Files live at <base>/captures/<YYYY-MM-DD>.json and hold a JSON array of
// captures indented with two spaces. Other tools write the same files, so
// the layout is fixed.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DateLayout is the layout of capture file names and date arguments.
const DateLayout = "2006-01-02"

// TimeLayout is the layout of Capture.Time.
const TimeLayout = "15:04:05"

// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date")

// CaptureType classifies capture content.
type CaptureType string

const (
	TypeURL  CaptureType = "url"
	TypeText CaptureType = "text"
)

// Capture is a single captured note or URL.
type Capture struct {
	Content string      `json:"content"`
	Type    CaptureType `json:"type"`
	Note    *string     `json:"note"`
	Time    string      `json:"time"`
}

// NoteText returns the note, or "" when there is none.
func (c Capture) NoteText() string {
	if c.Note == nil {
		return ""
	}
	return *c.Note
}

// NewCapture builds a capture taken at now. Content and note are trimmed; a
// blank note is stored as null.
func NewCapture(content, note string, now time.Time) Capture {
	content = strings.TrimSpace(content)
	c := Capture{
		Content: content,
		Type:    DetectType(content),
		Time:    now.Format(TimeLayout),
	}
	if n := strings.TrimSpace(note); n != "" {
		c.Note = &n
	}
	return c
}

// DetectType reports TypeURL for content starting with http:// or https://
// after trimming, TypeText otherwise.
func DetectType(content string) CaptureType {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return TypeURL
	}
	return TypeText
}

// ValidateDate checks that date is a real calendar day in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, date)
	}
	return nil
}

// Store reads and writes capture files under a base directory.
type Store struct {
	baseDir string
	now     func() time.Time
	mu      sync.Mutex
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// SetClock replaces the clock used for "today" and capture times.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// BaseDir returns the storage root.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Dir returns the captures directory.
func (s *Store) Dir() string {
	return filepath.Join(s.baseDir, "captures")
}

// Now returns the current time from the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Today returns the current local date as YYYY-MM-DD.
func (s *Store) Today() string {
	return s.now().Format(DateLayout)
}

// Path returns the file for a date.
func (s *Store) Path(date string) string {
	return filepath.Join(s.Dir(), date+".json")
}

// Save appends a capture to today's file and returns the number of captures
// the file now holds.
func (s *Store) Save(c Capture) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := s.Today()
	captures, err := s.LoadByDate(date)
	if err != nil {
		return 0, err
	}
	captures = append(captures, c)

	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		return 0, fmt.Errorf("failed to create captures directory: %w", err)
	}

	data, err := Encode(captures)
	if err != nil {
		return 0, err
	}

	if err := writeFileAtomic(s.Path(date), data); err != nil {
		return 0, fmt.Errorf("failed to write captures: %w", err)
	}

	return len(captures), nil
}

// LoadByDate returns the captures for a date in the order they were saved.
// A day without a file has no captures.
func (s *Store) LoadByDate(date string) ([]Capture, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Capture{}, nil
		}
		return nil, fmt.Errorf("failed to read captures: %w", err)
	}

	captures := []Capture{}
	if len(bytes.TrimSpace(data)) == 0 {
		return captures, nil
	}
	if err := json.Unmarshal(data, &captures); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(s.Path(date)), err)
	}

	return captures, nil
}

// LoadToday returns today's captures.
func (s *Store) LoadToday() ([]Capture, error) {
	return s.LoadByDate(s.Today())
}

// Dates returns the dates that have a capture file, oldest first.
func (s *Store) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}

	dates := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		date := strings.TrimSuffix(e.Name(), ".json")
		if ValidateDate(date) != nil {
			continue
		}
		dates = append(dates, date)
	}

	sort.Strings(dates)
	return dates, nil
}

// Encode renders captures the way capture files store them: a two-space
// indented array with HTML characters left unescaped.
func Encode(captures []Capture) ([]byte, error) {
	if captures == nil {
		captures = []Capture{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(captures); err != nil {
		return nil, fmt.Errorf("failed to encode captures: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".captures-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
