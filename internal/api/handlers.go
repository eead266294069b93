// Package api implements the Munin HTTP inspection API using chi.
//
// It mirrors the MCP tool surface for browsers and local dashboards. The
// API is unauthenticated and intended for loopback use only.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/dailynote"
	"github.com/starford/munin/internal/memorylog"
	"github.com/starford/munin/internal/overview"
	"github.com/starford/munin/internal/todo"
)

// Handler holds API route handlers.
type Handler struct {
	memory   *memorylog.Log
	notes    *dailynote.Store
	todos    *todo.Engine
	overview *overview.Service
}

// NewHandler creates a new Handler.
func NewHandler(memory *memorylog.Log, notes *dailynote.Store, todos *todo.Engine, ov *overview.Service) *Handler {
	return &Handler{memory: memory, notes: notes, todos: todos, overview: ov}
}

// GetMemory handles GET /memory.
func (h *Handler) GetMemory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"content": h.memory.Read()})
}

// AddMemory handles POST /memory.
func (h *Handler) AddMemory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Entry    string `json:"entry"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Entry == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("entry is required"))
		return
	}
	res, err := h.memory.Append(req.Entry, req.Category)
	if err != nil {
		slog.Error("add memory failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// SearchMemory handles GET /memory/search.
func (h *Handler) SearchMemory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.memory.Search(query))
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, h.notes.List(limit))
}

// GetNote handles GET /notes/{date}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	res := h.notes.Read(date)
	if !res.Exists {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AddNote handles POST /notes.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Entry string `json:"entry"`
		Date  string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Entry == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("entry is required"))
		return
	}
	res, err := h.notes.Append(req.Entry, req.Date)
	if err != nil {
		slog.Error("add note failed", slog.String("date", req.Date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetTodos handles GET /todos.
func (h *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	writeJSON(w, http.StatusOK, h.todos.List(date))
}

// AddTodo handles POST /todos.
func (h *Handler) AddTodo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Todo string `json:"todo"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Todo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("todo is required"))
		return
	}
	res, err := h.todos.Add(req.Todo, req.Date)
	if err != nil {
		slog.Error("add todo failed", slog.String("date", req.Date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// CompleteTodo handles POST /todos/complete.
func (h *Handler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Todo string `json:"todo"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Todo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("todo is required"))
		return
	}
	res, err := h.todos.Complete(req.Todo, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNoteNotFound), errors.Is(err, apperr.ErrTodoNotFound):
			writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
		default:
			slog.Error("complete todo failed", slog.String("date", req.Date), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetContext handles GET /context.
func (h *Handler) GetContext(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.overview.Get())
}
