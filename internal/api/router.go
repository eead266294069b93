package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(h *Handler, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	// Long-term memory.
	r.Get("/memory", h.GetMemory)
	r.Post("/memory", h.AddMemory)
	r.Get("/memory/search", h.SearchMemory)

	// Daily notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.AddNote)
	r.Get("/notes/{date}", h.GetNote)

	// TODOs.
	r.Get("/todos", h.GetTodos)
	r.Post("/todos", h.AddTodo)
	r.Post("/todos/complete", h.CompleteTodo)

	// Context summary.
	r.Get("/context", h.GetContext)

	// Workspace change events.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
