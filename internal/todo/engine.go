// Package todo parses and mutates the TODO marker lines inside daily notes.
package todo

import (
	"strings"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/dailynote"
)

// Heading is the literal section heading that groups TODO lines in a note.
const Heading = "## TODOs"

// MatchFunc decides whether a pending TODO line satisfies a completion
// query. The default is a substring match, which is deliberately loose:
// the first pending line containing the query wins, even when several
// todos share a prefix.
type MatchFunc func(text, query string) bool

// Engine reads and rewrites TODO marker lines in daily note documents.
// It holds no state between calls; every operation re-reads the note.
type Engine struct {
	notes   *dailynote.Store
	pending string // pending marker token, e.g. "[ ]"
	done    string // done marker token, e.g. "[x]"
	match   MatchFunc
}

// New creates an Engine with substring completion matching.
func New(notes *dailynote.Store, pending, done string) *Engine {
	return NewWithMatch(notes, pending, done, strings.Contains)
}

// NewWithMatch creates an Engine with a custom completion matcher.
func NewWithMatch(notes *dailynote.Store, pending, done string, match MatchFunc) *Engine {
	return &Engine{notes: notes, pending: pending, done: done, match: match}
}

// Item is a single TODO line parsed out of a daily note.
type Item struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
	Line int    `json:"line"` // zero-based index within the note's line split
}

// ListResult holds the TODO items of one daily note.
type ListResult struct {
	Todos []Item `json:"todos"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AddResult acknowledges a successfully added TODO.
type AddResult struct {
	Success bool   `json:"success"`
	Date    string `json:"date"`
	Todo    string `json:"todo"`
}

// CompleteResult acknowledges a completed TODO.
type CompleteResult struct {
	Success   bool   `json:"success"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
}

// List parses the TODO lines out of the note for date. An absent note
// yields an empty list, not an error.
func (e *Engine) List(date string) ListResult {
	date = dailynote.Resolve(date)
	content, exists := e.notes.RawContent(date)
	if !exists {
		return ListResult{Todos: []Item{}, Date: date, Count: 0}
	}

	todos := []Item{}
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, e.pendingPrefix()):
			todos = append(todos, Item{
				Text: strings.TrimSpace(strings.TrimPrefix(trimmed, e.pendingPrefix())),
				Done: false,
				Line: i,
			})
		case strings.HasPrefix(trimmed, e.donePrefix()):
			todos = append(todos, Item{
				Text: strings.TrimSpace(strings.TrimPrefix(trimmed, e.donePrefix())),
				Done: true,
				Line: i,
			})
		}
	}
	return ListResult{Todos: todos, Date: date, Count: len(todos)}
}

// Add appends a pending TODO line to the note for date, inserting the
// TODOs heading first if the note does not contain one yet.
func (e *Engine) Add(text, date string) (AddResult, error) {
	date = dailynote.Resolve(date)
	content, _ := e.notes.RawContent(date)
	if !strings.Contains(content, Heading) {
		content += "\n" + Heading + "\n"
	}
	content += e.pendingPrefix() + text + "\n"
	if err := e.notes.WriteRaw(date, content); err != nil {
		return AddResult{}, err
	}
	return AddResult{Success: true, Date: date, Todo: text}, nil
}

// Complete flips the first pending TODO matching text to done, rewriting
// only the marker token of that line. It returns apperr.ErrNoteNotFound
// when the note is absent and apperr.ErrTodoNotFound when no pending line
// matches; in both cases the note is not written.
func (e *Engine) Complete(text, date string) (CompleteResult, error) {
	date = dailynote.Resolve(date)
	content, exists := e.notes.RawContent(date)
	if !exists {
		return CompleteResult{}, apperr.ErrNoteNotFound
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, e.pendingPrefix()) {
			continue
		}
		if !e.match(trimmed, text) {
			continue
		}
		lines[i] = strings.Replace(line, e.pending, e.done, 1)
		if err := e.notes.WriteRaw(date, strings.Join(lines, "\n")); err != nil {
			return CompleteResult{}, err
		}
		return CompleteResult{Success: true, Todo: text, Completed: true}, nil
	}
	return CompleteResult{}, apperr.ErrTodoNotFound
}

// PendingCount returns the number of open TODOs in the note for date.
func (e *Engine) PendingCount(date string) int {
	n := 0
	for _, item := range e.List(date).Todos {
		if !item.Done {
			n++
		}
	}
	return n
}

func (e *Engine) pendingPrefix() string { return e.pending + " " }
func (e *Engine) donePrefix() string    { return e.done + " " }
