// Package memorylog manages the single append-only long-term memory document.
package memorylog

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/munin/internal/storage"
)

// DefaultCategory is used when an entry is appended without a category.
const DefaultCategory = "General"

// searchCap is the maximum number of lines returned by Search.
const searchCap = 20

// Log provides read, append, and search over the memory document.
// Every operation re-reads from storage; nothing is cached between calls.
type Log struct {
	store storage.Provider
	path  string // memory file path, relative to the workspace root
}

// New creates a Log stored at path within the given provider.
func New(store storage.Provider, path string) *Log {
	return &Log{store: store, path: path}
}

// AppendResult acknowledges a successful append, echoing the entry and
// the timestamp that was written.
type AppendResult struct {
	Success   bool   `json:"success"`
	Entry     string `json:"entry"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
}

// SearchResult holds matching memory lines for a query. Count reflects
// the full number of matches even when Results is capped.
type SearchResult struct {
	Query   string   `json:"query"`
	Count   int      `json:"count"`
	Results []string `json:"results"`
}

// Read returns the memory document content, or the empty string when the
// file is absent or unreadable.
func (l *Log) Read() string {
	data, err := l.store.Read(l.path)
	if err != nil {
		return ""
	}
	return string(data)
}

// Append adds entry under a new category heading with a UTC timestamp.
// The document is append-only: existing content is never rewritten.
func (l *Log) Append(entry, category string) (AppendResult, error) {
	if category == "" {
		category = DefaultCategory
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	section := fmt.Sprintf("\n## %s\n- **%s**: %s\n", category, ts, entry)

	content := l.Read() + section
	if err := l.store.Write(l.path, []byte(content)); err != nil {
		return AppendResult{}, err
	}
	return AppendResult{
		Success:   true,
		Entry:     entry,
		Category:  category,
		Timestamp: ts,
	}, nil
}

// Search returns the memory lines containing query, case-insensitively.
// Lines are trimmed, blank lines are skipped, and Results is capped at
// the first 20 matches while Count reports the total. The caller is
// responsible for rejecting an empty query before storage is touched.
func (l *Log) Search(query string) SearchResult {
	needle := strings.ToLower(query)

	var matches []string
	for _, line := range strings.Split(l.Read(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Contains(strings.ToLower(trimmed), needle) {
			matches = append(matches, trimmed)
		}
	}

	results := matches
	if len(results) > searchCap {
		results = results[:searchCap]
	}
	if results == nil {
		results = []string{}
	}
	return SearchResult{
		Query:   query,
		Count:   len(matches),
		Results: results,
	}
}
