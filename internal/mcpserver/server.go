// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Munin workspace tools for LLM integration via stdio
// transport. One request is processed at a time; every tool re-reads the
// workspace files, so concurrent external edits are always reflected.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/munin/internal/dailynote"
	"github.com/starford/munin/internal/memorylog"
	"github.com/starford/munin/internal/overview"
	"github.com/starford/munin/internal/todo"
)

// Server wraps the MCP server with Munin workspace tools.
type Server struct {
	mcp      *server.MCPServer
	memory   *memorylog.Log
	notes    *dailynote.Store
	todos    *todo.Engine
	overview *overview.Service
}

// New creates a new MCP server with all Munin tools registered.
func New(memory *memorylog.Log, notes *dailynote.Store, todos *todo.Engine, ov *overview.Service) *Server {
	s := &Server{memory: memory, notes: notes, todos: todos, overview: ov}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("get_memory",
		mcp.WithDescription("Read the full long-term memory document."),
	), s.getMemory)

	s.mcp.AddTool(mcp.NewTool("add_memory",
		mcp.WithDescription("Append an entry to long-term memory under a category heading."),
		mcp.WithString("entry", mcp.Required(), mcp.Description("Text of the memory entry")),
		mcp.WithString("category", mcp.Description("Category heading (default: General)")),
	), s.addMemory)

	s.mcp.AddTool(mcp.NewTool("search_memory",
		mcp.WithDescription("Search long-term memory for lines containing a query, case-insensitively."),
		mcp.WithString("query", mcp.Description("Substring to search for")),
	), s.searchMemory)

	s.mcp.AddTool(mcp.NewTool("get_daily_note",
		mcp.WithDescription("Read the daily note for a date."),
		mcp.WithString("date", mcp.Description("Date key YYYY-MM-DD (default: today)")),
	), s.getDailyNote)

	s.mcp.AddTool(mcp.NewTool("add_daily_note",
		mcp.WithDescription("Append a timestamped entry to the daily note for a date."),
		mcp.WithString("entry", mcp.Required(), mcp.Description("Text of the note entry")),
		mcp.WithString("date", mcp.Description("Date key YYYY-MM-DD (default: today)")),
	), s.addDailyNote)

	s.mcp.AddTool(mcp.NewTool("list_daily_notes",
		mcp.WithDescription("List existing daily note dates, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of dates to return (default: 10)")),
	), s.listDailyNotes)

	s.mcp.AddTool(mcp.NewTool("get_todos",
		mcp.WithDescription("List the TODO items of the daily note for a date."),
		mcp.WithString("date", mcp.Description("Date key YYYY-MM-DD (default: today)")),
	), s.getTodos)

	s.mcp.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a pending TODO to the daily note for a date."),
		mcp.WithString("todo", mcp.Required(), mcp.Description("Text of the TODO item")),
		mcp.WithString("date", mcp.Description("Date key YYYY-MM-DD (default: today)")),
	), s.addTodo)

	s.mcp.AddTool(mcp.NewTool("complete_todo",
		mcp.WithDescription("Mark the first pending TODO whose text contains the given text as done."),
		mcp.WithString("todo", mcp.Required(), mcp.Description("Text (or substring) of the TODO to complete")),
		mcp.WithString("date", mcp.Description("Date key YYYY-MM-DD (default: today)")),
	), s.completeTodo)

	s.mcp.AddTool(mcp.NewTool("get_context",
		mcp.WithDescription("Get a workspace summary: today's and yesterday's note state, pending TODO count, and recent notes."),
	), s.getContext)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// jsonResult marshals v as pretty-printed JSON in a text content block.
// Every tool except get_memory responds this way.
func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

// failure is the structured failure object returned by write paths and
// lookup misses, distinguishing "operation failed" from transport errors.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func failureResult(err error) *mcp.CallToolResult {
	return jsonResult(failure{Success: false, Error: err.Error()})
}

func (s *Server) getMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.memory.Read()), nil
}

func (s *Server) addMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category := req.GetString("category", "")

	res, err := s.memory.Append(entry, category)
	if err != nil {
		return failureResult(err), nil
	}
	return jsonResult(res), nil
}

// noQueryResponse is the fixed payload for an empty search query; storage
// is never touched in that case.
type noQueryResponse struct {
	Results []string `json:"results"`
	Message string   `json:"message"`
}

func (s *Server) searchMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return jsonResult(noQueryResponse{Results: []string{}, Message: "No query provided"}), nil
	}
	return jsonResult(s.memory.Search(query)), nil
}

func (s *Server) getDailyNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "")
	return jsonResult(s.notes.Read(date)), nil
}

func (s *Server) addDailyNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date := req.GetString("date", "")

	res, err := s.notes.Append(entry, date)
	if err != nil {
		return failureResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) listDailyNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", dailynote.DefaultListLimit)
	return jsonResult(s.notes.List(limit)), nil
}

func (s *Server) getTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "")
	return jsonResult(s.todos.List(date)), nil
}

func (s *Server) addTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("todo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date := req.GetString("date", "")

	res, err := s.todos.Add(text, date)
	if err != nil {
		return failureResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) completeTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("todo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date := req.GetString("date", "")

	res, err := s.todos.Complete(text, date)
	if err != nil {
		return failureResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) getContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.overview.Get()), nil
}
