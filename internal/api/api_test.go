package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/munin/internal/dailynote"
	"github.com/starford/munin/internal/memorylog"
	"github.com/starford/munin/internal/overview"
	"github.com/starford/munin/internal/storage"
	"github.com/starford/munin/internal/todo"
)

// testEnv sets up a temp workspace and the API router for testing.
func testEnv(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	memory := memorylog.New(store, "memory.md")
	notes := dailynote.New(store, "daily")
	todos := todo.New(notes, "[ ]", "[x]")
	ov := overview.NewService(notes, todos, "/ws")

	h := NewHandler(memory, notes, todos, ov)
	return NewRouter(h, nil)
}

func postJSON(t *testing.T, router http.Handler, path string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestMemoryRoundTrip(t *testing.T) {
	router := testEnv(t)

	w := postJSON(t, router, "/memory", map[string]string{"entry": "likes Go", "category": "Facts"})
	if w.Code != http.StatusCreated {
		t.Fatalf("post status = %d, body = %s", w.Code, w.Body.String())
	}

	w2, res := getJSON(t, router, "/memory")
	if w2.Code != http.StatusOK {
		t.Fatalf("get status = %d", w2.Code)
	}
	content, _ := res["content"].(string)
	if content == "" || !bytes.Contains([]byte(content), []byte("likes Go")) {
		t.Errorf("content = %q", content)
	}
}

func TestMemoryEntryRequired(t *testing.T) {
	router := testEnv(t)
	w := postJSON(t, router, "/memory", map[string]string{"category": "Facts"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchMemory(t *testing.T) {
	router := testEnv(t)
	postJSON(t, router, "/memory", map[string]string{"entry": "deploy notes here"})

	w, res := getJSON(t, router, "/memory/search?q=deploy")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if res["count"] != float64(1) {
		t.Errorf("count = %v", res["count"])
	}
}

func TestSearchMemoryRequiresQuery(t *testing.T) {
	router := testEnv(t)
	w, _ := getJSON(t, router, "/memory/search")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetNoteMissing(t *testing.T) {
	router := testEnv(t)
	w, _ := getJSON(t, router, "/notes/2024-01-01")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestNoteRoundTrip(t *testing.T) {
	router := testEnv(t)

	w := postJSON(t, router, "/notes", map[string]string{"entry": "standup notes", "date": "2024-01-01"})
	if w.Code != http.StatusCreated {
		t.Fatalf("post status = %d", w.Code)
	}

	w2, res := getJSON(t, router, "/notes/2024-01-01")
	if w2.Code != http.StatusOK {
		t.Fatalf("get status = %d", w2.Code)
	}
	if res["exists"] != true {
		t.Errorf("exists = %v", res["exists"])
	}

	w3, list := getJSON(t, router, "/notes")
	if w3.Code != http.StatusOK {
		t.Fatalf("list status = %d", w3.Code)
	}
	notes, _ := list["notes"].([]interface{})
	if len(notes) != 1 || notes[0] != "2024-01-01" {
		t.Errorf("notes = %v", notes)
	}
}

func TestTodoLifecycle(t *testing.T) {
	router := testEnv(t)
	const date = "2024-01-01"

	if w := postJSON(t, router, "/todos", map[string]string{"todo": "ship it", "date": date}); w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}

	_, res := getJSON(t, router, "/todos?date="+date)
	todos, _ := res["todos"].([]interface{})
	if len(todos) != 1 {
		t.Fatalf("todos = %v", todos)
	}

	if w := postJSON(t, router, "/todos/complete", map[string]string{"todo": "ship it", "date": date}); w.Code != http.StatusOK {
		t.Fatalf("complete status = %d", w.Code)
	}

	// Completing again: the only match is already done.
	w := postJSON(t, router, "/todos/complete", map[string]string{"todo": "ship it", "date": date})
	if w.Code != http.StatusNotFound {
		t.Errorf("second complete status = %d, want 404", w.Code)
	}
}

func TestCompleteTodoAbsentNote(t *testing.T) {
	router := testEnv(t)
	w := postJSON(t, router, "/todos/complete", map[string]string{"todo": "x", "date": "1999-01-01"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetContext(t *testing.T) {
	router := testEnv(t)
	postJSON(t, router, "/todos", map[string]string{"todo": "open item"})

	w, res := getJSON(t, router, "/context")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if res["pendingTodos"] != float64(1) {
		t.Errorf("pendingTodos = %v", res["pendingTodos"])
	}
	if res["workspace"] != "/ws" {
		t.Errorf("workspace = %v", res["workspace"])
	}
}
