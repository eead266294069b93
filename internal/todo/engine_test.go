package todo

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/dailynote"
	"github.com/starford/munin/internal/storage"
)

const testDate = "2024-01-01"

func testEngine(t *testing.T) (*Engine, *dailynote.Store) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	notes := dailynote.New(store, "daily")
	return New(notes, "[ ]", "[x]"), notes
}

func TestListAbsentNote(t *testing.T) {
	e, _ := testEngine(t)
	res := e.List(testDate)
	if res.Count != 0 || len(res.Todos) != 0 {
		t.Errorf("res = %+v, want empty list", res)
	}
	if res.Todos == nil {
		t.Error("Todos should be an empty slice, not nil")
	}
}

func TestAddThenList(t *testing.T) {
	e, _ := testEngine(t)

	res, err := e.Add("write tests", testDate)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !res.Success || res.Todo != "write tests" || res.Date != testDate {
		t.Errorf("result = %+v", res)
	}

	list := e.List(testDate)
	if list.Count != 1 {
		t.Fatalf("Count = %d, want 1", list.Count)
	}
	item := list.Todos[0]
	if item.Text != "write tests" || item.Done {
		t.Errorf("item = %+v", item)
	}
}

func TestAddInsertsHeadingOnce(t *testing.T) {
	e, notes := testEngine(t)
	_, _ = e.Add("one", testDate)
	_, _ = e.Add("two", testDate)

	content, _ := notes.RawContent(testDate)
	if n := strings.Count(content, Heading); n != 1 {
		t.Errorf("heading count = %d, want 1:\n%s", n, content)
	}
}

func TestAddAfterNoteEntries(t *testing.T) {
	e, notes := testEngine(t)
	_, _ = notes.Append("morning standup", testDate)
	_, _ = e.Add("review PR", testDate)

	content, _ := notes.RawContent(testDate)
	if !strings.Contains(content, "morning standup") {
		t.Error("existing entries lost")
	}
	if !strings.Contains(content, Heading) {
		t.Error("heading missing")
	}
}

func TestListLineIndexes(t *testing.T) {
	e, notes := testEngine(t)
	if err := notes.WriteRaw(testDate, "intro\n[ ] first\ntext\n[x] second\n"); err != nil {
		t.Fatal(err)
	}

	list := e.List(testDate)
	if list.Count != 2 {
		t.Fatalf("Count = %d, want 2", list.Count)
	}
	if list.Todos[0].Line != 1 || list.Todos[0].Done {
		t.Errorf("first = %+v", list.Todos[0])
	}
	if list.Todos[1].Line != 3 || !list.Todos[1].Done {
		t.Errorf("second = %+v", list.Todos[1])
	}
}

func TestCompleteFlipsFirstMatchOnly(t *testing.T) {
	e, _ := testEngine(t)
	_, _ = e.Add("deploy service", testDate)
	_, _ = e.Add("deploy docs", testDate)

	res, err := e.Complete("deploy", testDate)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !res.Success || !res.Completed {
		t.Errorf("result = %+v", res)
	}

	list := e.List(testDate)
	if !list.Todos[0].Done {
		t.Error("first match should be done")
	}
	if list.Todos[1].Done {
		t.Error("second todo should stay pending")
	}
}

func TestCompleteReplacesOnlyMarker(t *testing.T) {
	e, notes := testEngine(t)
	if err := notes.WriteRaw(testDate, "## TODOs\n  [ ] indented task\n"); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Complete("indented", testDate); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	content, _ := notes.RawContent(testDate)
	if !strings.Contains(content, "  [x] indented task") {
		t.Errorf("line rewritten beyond the marker:\n%s", content)
	}
}

func TestCompleteTwiceFails(t *testing.T) {
	e, _ := testEngine(t)
	_, _ = e.Add("one-shot", testDate)

	if _, err := e.Complete("one-shot", testDate); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	_, err := e.Complete("one-shot", testDate)
	if !errors.Is(err, apperr.ErrTodoNotFound) {
		t.Errorf("err = %v, want ErrTodoNotFound", err)
	}
}

func TestCompleteNoMatchLeavesNoteUntouched(t *testing.T) {
	e, notes := testEngine(t)
	_, _ = e.Add("real task", testDate)
	before, _ := notes.RawContent(testDate)

	_, err := e.Complete("imaginary", testDate)
	if !errors.Is(err, apperr.ErrTodoNotFound) {
		t.Fatalf("err = %v, want ErrTodoNotFound", err)
	}
	after, _ := notes.RawContent(testDate)
	if after != before {
		t.Error("note was rewritten despite no match")
	}
}

func TestCompleteAbsentNote(t *testing.T) {
	e, notes := testEngine(t)
	_, err := e.Complete("anything", testDate)
	if !errors.Is(err, apperr.ErrNoteNotFound) {
		t.Errorf("err = %v, want ErrNoteNotFound", err)
	}
	if _, exists := notes.RawContent(testDate); exists {
		t.Error("note should not have been created")
	}
}

func TestPendingCount(t *testing.T) {
	e, _ := testEngine(t)
	_, _ = e.Add("a", testDate)
	_, _ = e.Add("b", testDate)
	_, _ = e.Add("c", testDate)
	_, _ = e.Complete("b", testDate)

	if n := e.PendingCount(testDate); n != 2 {
		t.Errorf("PendingCount = %d, want 2", n)
	}
}

func TestCustomMatcherExactEquality(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	notes := dailynote.New(store, "daily")
	exact := func(line, query string) bool {
		return strings.TrimSpace(strings.TrimPrefix(line, "[ ] ")) == query
	}
	e := NewWithMatch(notes, "[ ]", "[x]", exact)

	_, _ = e.Add("deploy service", testDate)
	if _, err := e.Complete("deploy", testDate); !errors.Is(err, apperr.ErrTodoNotFound) {
		t.Errorf("substring should not match with exact matcher, err = %v", err)
	}
	if _, err := e.Complete("deploy service", testDate); err != nil {
		t.Errorf("exact text should match: %v", err)
	}
}
