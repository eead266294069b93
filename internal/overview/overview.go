// Package overview composes the workspace context summary handed to agents.
package overview

import (
	"github.com/starford/munin/internal/dailynote"
	"github.com/starford/munin/internal/todo"
)

// recentNoteCount is how many recent note keys the summary includes.
const recentNoteCount = 5

// Summary is the derived, non-persisted snapshot of the workspace state.
type Summary struct {
	Date            string   `json:"date"`
	TodayExists     bool     `json:"todayExists"`
	YesterdayExists bool     `json:"yesterdayExists"`
	PendingTodos    int      `json:"pendingTodos"`
	RecentNotes     []string `json:"recentNotes"`
	Workspace       string   `json:"workspace"`
}

// Service builds context summaries from the note store and TODO engine.
type Service struct {
	notes     *dailynote.Store
	todos     *todo.Engine
	workspace string // configured workspace root, echoed for agent context
}

// NewService creates an overview service.
func NewService(notes *dailynote.Store, todos *todo.Engine, workspace string) *Service {
	return &Service{notes: notes, todos: todos, workspace: workspace}
}

// Get composes today's and yesterday's note state, the pending TODO count
// for today, and the most recent note keys. Read-only; its collaborators
// never fail, so neither does it.
func (s *Service) Get() Summary {
	today := dailynote.DateKey(0)
	yesterday := dailynote.DateKey(-1)

	return Summary{
		Date:            today,
		TodayExists:     s.notes.Read(today).Exists,
		YesterdayExists: s.notes.Read(yesterday).Exists,
		PendingTodos:    s.todos.PendingCount(today),
		RecentNotes:     s.notes.List(recentNoteCount).Notes,
		Workspace:       s.workspace,
	}
}
