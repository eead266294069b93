// Package dailynote manages the per-date note documents in the workspace.
package dailynote

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/starford/munin/internal/storage"
)

// DefaultListLimit bounds List when the caller does not supply a limit.
const DefaultListLimit = 10

// noteNameRe matches exactly the file names the store owns; anything else
// in the notes directory is ignored.
var noteNameRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

// Store provides read, append, and enumeration over daily note documents.
// One document exists per calendar date; absence of the file means the
// note does not exist.
type Store struct {
	store storage.Provider
	dir   string // note directory, relative to the workspace root
}

// New creates a Store over the given notes directory.
func New(store storage.Provider, dir string) *Store {
	return &Store{store: store, dir: dir}
}

// ReadResult is the outcome of reading a daily note. Content is nil when
// the note does not exist.
type ReadResult struct {
	Exists  bool    `json:"exists"`
	Date    string  `json:"date"`
	Content *string `json:"content"`
}

// AppendResult acknowledges a successful append to a daily note.
type AppendResult struct {
	Success   bool   `json:"success"`
	Date      string `json:"date"`
	Entry     string `json:"entry"`
	Timestamp string `json:"timestamp"`
}

// ListResult holds the most recent note date keys, newest first.
type ListResult struct {
	Notes []string `json:"notes"`
	Count int      `json:"count"`
	Error string   `json:"error,omitempty"`
}

// DateKey returns the UTC calendar date shifted by offsetDays, formatted
// as YYYY-MM-DD.
func DateKey(offsetDays int) string {
	return time.Now().UTC().AddDate(0, 0, offsetDays).Format("2006-01-02")
}

// Resolve returns date unchanged, or today's key when date is empty.
func Resolve(date string) string {
	if date == "" {
		return DateKey(0)
	}
	return date
}

// Path returns the storage path of the note for date.
func (s *Store) Path(date string) string {
	return filepath.Join(s.dir, date+".md")
}

// Read returns the note for date, defaulting to today. Any read failure
// degrades to absence.
func (s *Store) Read(date string) ReadResult {
	date = Resolve(date)
	content, exists := s.RawContent(date)
	if !exists {
		return ReadResult{Exists: false, Date: date, Content: nil}
	}
	return ReadResult{Exists: true, Date: date, Content: &content}
}

// Append adds a timestamped bullet entry to the note for date, creating
// the document if necessary.
func (s *Store) Append(entry, date string) (AppendResult, error) {
	date = Resolve(date)
	ts := time.Now().UTC().Format(time.RFC3339)

	content, _ := s.RawContent(date)
	content += fmt.Sprintf("- **%s**: %s\n", ts, entry)
	if err := s.WriteRaw(date, content); err != nil {
		return AppendResult{}, err
	}
	return AppendResult{
		Success:   true,
		Date:      date,
		Entry:     entry,
		Timestamp: ts,
	}, nil
}

// List enumerates existing note date keys, lexicographically descending.
// The zero-padded date format makes string order chronological, so the
// newest note comes first. A directory read failure yields an empty list
// with the error message attached rather than propagating.
func (s *Store) List(limit int) ListResult {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	names, err := s.store.ListDir(s.dir)
	if err != nil {
		return ListResult{Notes: []string{}, Count: 0, Error: err.Error()}
	}

	var dates []string
	for _, name := range names {
		if noteNameRe.MatchString(name) {
			dates = append(dates, strings.TrimSuffix(name, ".md"))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > limit {
		dates = dates[:limit]
	}
	if dates == nil {
		dates = []string{}
	}
	return ListResult{Notes: dates, Count: len(dates)}
}

// RawContent returns the note text for date and whether the note exists.
// Used by callers that rewrite the document, such as the TODO engine.
func (s *Store) RawContent(date string) (string, bool) {
	data, err := s.store.Read(s.Path(date))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// WriteRaw replaces the note document for date with content.
func (s *Store) WriteRaw(date, content string) error {
	return s.store.Write(s.Path(date), []byte(content))
}
