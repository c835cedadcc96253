package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tabbybot/tabby/internal/task"
)

func TestLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "tabby_data.txt")
	tasks, err := New(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks: got %d, want 0", len(tasks))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("data file not created: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("new data file size: got %d, want 0", info.Size())
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabby_data.txt")
	content := "[T][X] buy milk\n[D][ ] pay bill (by: Dec 02 2019, 6:00 pm)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := New(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(tasks))
	}
	if tasks[0].Description() != "buy milk" || !tasks[0].IsDone() {
		t.Errorf("first: got %v", tasks[0])
	}
	d, ok := tasks[1].(*task.Deadline)
	if !ok {
		t.Fatalf("second: got %T, want *task.Deadline", tasks[1])
	}
	if d.IsDone() {
		t.Error("second should not be done")
	}
	want := time.Date(2019, 12, 2, 18, 0, 0, 0, time.Local)
	if !d.By.Equal(want) {
		t.Errorf("second by: got %v, want %v", d.By, want)
	}
}

func TestLoadSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabby_data.txt")
	content := "[T][ ] one\n\n   \ngarbage\n[D][ ] no trailer\n[T][X] two\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	tasks, err := New(path, WithLogger(logger)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var got []string
	for _, tk := range tasks {
		got = append(got, tk.String())
	}
	want := []string{"[T][ ] one", "[T][X] two"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("tasks: got %v, want %v", got, want)
	}

	out := buf.String()
	if strings.Count(out, "skipping malformed line") != 2 {
		t.Errorf("expected two warnings, got:\n%s", out)
	}
	if !strings.Contains(out, "line=4") || !strings.Contains(out, "line=5") {
		t.Errorf("warnings should carry line numbers, got:\n%s", out)
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tabby_data.txt")
	f := New(path)

	by := time.Date(2019, 12, 2, 18, 0, 0, 0, time.Local)
	todo, _ := task.NewToDo("walk the dog")
	deadline, _ := task.NewDeadline("submit report", by)
	deadline.MarkDone()
	event, _ := task.NewEvent("project meet", by, by.Add(2*time.Hour))
	tasks := []task.Task{todo, deadline, event}

	if err := f.Save(tasks); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var want strings.Builder
	for _, tk := range tasks {
		want.WriteString(tk.String() + LineSeparator)
	}
	if string(data) != want.String() {
		t.Errorf("file:\ngot  %q\nwant %q", data, want.String())
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range tasks {
		if !task.Equal(loaded[i], tasks[i]) {
			t.Errorf("task %d: got %v, want %v", i, loaded[i], tasks[i])
		}
	}
}

func TestSaveTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabby_data.txt")
	f := New(path)
	a, _ := task.NewToDo("a")
	b, _ := task.NewToDo("b")
	if err := f.Save([]task.Task{a, b}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save([]task.Task{b}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[T][ ] b"+LineSeparator {
		t.Errorf("file after second save: got %q", data)
	}
	if err := f.Save(nil); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if len(data) != 0 {
		t.Errorf("file after empty save: got %q", data)
	}
}

func TestStorageErrors(t *testing.T) {
	// A directory where the data file should be makes every read and
	// write fail.
	path := filepath.Join(t.TempDir(), "tabby_data.txt")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	f := New(path)

	_, err := f.Load()
	assertStorageError(t, "Load", err, path)

	todo, _ := task.NewToDo("x")
	err = f.Save([]task.Task{todo})
	assertStorageError(t, "Save", err, path)
}

func assertStorageError(t *testing.T, op string, err error, path string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error", op)
	}
	if !errors.Is(err, ErrStorage) {
		t.Errorf("%s: %v does not match ErrStorage", op, err)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("%s: %T is not *Error", op, err)
	}
	if se.Path != path {
		t.Errorf("%s: path got %q, want %q", op, se.Path, path)
	}
}

func TestScan(t *testing.T) {
	report, err := Scan(strings.NewReader("[T][ ] a\n[Q][ ] b\n[E][X] c (from: Dec 02 2019, 6:00 pm to: Dec 01 2019, 6:00 pm)\n"))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(report.Tasks) != 2 {
		t.Errorf("tasks: got %d, want 2", len(report.Tasks))
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Line != 2 || report.Skipped[0].Text != "[Q][ ] b" {
		t.Errorf("skipped: got %+v", report.Skipped)
	}
}
