package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tabbybot/tabby/internal/bot"
	"github.com/tabbybot/tabby/internal/storage"
)

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabby_data.txt")
	return &Runner{Open: func() *bot.Bot { return bot.New(storage.New(path)) }}
}

func TestLoadAll(t *testing.T) {
	scenarios, err := LoadAll([]string{"testdata"})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("scenarios: got %d, want 2", len(scenarios))
	}
	// Sorted by file name.
	if scenarios[0].Name != "errors" || scenarios[1].Name != "persistence" {
		t.Errorf("order: got %q, %q", scenarios[0].Name, scenarios[1].Name)
	}
	if !scenarios[1].Conversations[1].NewSession {
		t.Error("new_session not decoded")
	}
	if got := scenarios[0].Conversations[0].Expect[1].ContainsAny; len(got) != 2 {
		t.Errorf("contains_any: got %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("name: empty\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("conversations: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{empty, broken, filepath.Join(dir, "missing.yaml")} {
		if _, err := Load(p); err == nil {
			t.Errorf("Load(%s): expected error", filepath.Base(p))
		}
	}
}

func TestLoadDefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-check.yml")
	data := "conversations:\n  - messages: [list]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "quick-check" {
		t.Errorf("Name: got %q, want %q", s.Name, "quick-check")
	}
}

func TestFilter(t *testing.T) {
	all := []*Scenario{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	tests := []struct {
		only string
		want int
	}{
		{"", 3},
		{"a", 1},
		{"a, c", 2},
		{"zzz", 0},
	}
	for _, tt := range tests {
		if got := Filter(all, tt.only); len(got) != tt.want {
			t.Errorf("Filter(%q): got %d, want %d", tt.only, len(got), tt.want)
		}
	}
}

func TestExpectCheck(t *testing.T) {
	reply := "Got it. I've added this task:\n [T][ ] Walk dog"
	tests := []struct {
		name   string
		expect Expect
		fails  int
	}{
		{"contains ignores case", Expect{Contains: "walk DOG"}, 0},
		{"missing", Expect{Contains: "cat"}, 1},
		{"any", Expect{ContainsAny: []string{"cat", "dog"}}, 0},
		{"none of any", Expect{ContainsAny: []string{"cat", "fish"}}, 1},
		{"not contains", Expect{NotContains: "deleted"}, 0},
		{"not contains hit", Expect{NotContains: "added"}, 1},
		{"all fail", Expect{Contains: "x", ContainsAny: []string{"y"}, NotContains: "got"}, 3},
		{"empty", Expect{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expect.Check(reply); len(got) != tt.fails {
				t.Errorf("Check: got %v, want %d failures", got, tt.fails)
			}
		})
	}
}

func TestRunTestdata(t *testing.T) {
	scenarios, err := LoadAll([]string{"testdata"})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			res := fileRunner(t).Run(s)
			if !res.Passed() {
				var buf bytes.Buffer
				WriteSummary(&buf, []Result{res})
				t.Errorf("scenario failed:\n%s", buf.String())
			}
		})
	}
}

func TestRunNewSessionReopens(t *testing.T) {
	opened := 0
	path := filepath.Join(t.TempDir(), "tabby_data.txt")
	r := &Runner{Open: func() *bot.Bot {
		opened++
		return bot.New(storage.New(path))
	}}
	s := &Scenario{Name: "reopen", Conversations: []Conversation{
		{Name: "first", NewSession: true, Messages: []string{"todo a"}},
		{Name: "second", Messages: []string{"todo b"}},
		{Name: "third", NewSession: true, Messages: []string{"list"},
			Expect: []Expect{{Contains: "2. [T][ ] b"}}},
	}}

	res := r.Run(s)
	if opened != 2 {
		t.Errorf("opened: got %d, want 2", opened)
	}
	if !res.Passed() {
		t.Errorf("result: %+v", res)
	}
}

func TestRunStopsAtBye(t *testing.T) {
	s := &Scenario{Name: "bye", Conversations: []Conversation{
		{Messages: []string{"bye", "list"}, Expect: []Expect{{Contains: "Hope to see you"}}},
	}}
	res := fileRunner(t).Run(s)
	if !res.Passed() {
		t.Errorf("last reply: got %q", res.Conversations[0].LastReply)
	}
	if res.Conversations[0].Name != "conversation 1" {
		t.Errorf("default name: got %q", res.Conversations[0].Name)
	}
}

func TestWriteSummary(t *testing.T) {
	results := []Result{
		{Scenario: "good", Conversations: []ConversationResult{{Name: "c"}}},
		{Scenario: "bad", Conversations: []ConversationResult{
			{Name: "c", LastReply: "nope", Failures: []string{`expected to contain "yes"`}},
		}},
	}
	var buf bytes.Buffer
	if failed := WriteSummary(&buf, results); failed != 1 {
		t.Errorf("failed: got %d, want 1", failed)
	}
	out := buf.String()
	for _, want := range []string{"✓ good", "✗ bad", `c: expected to contain "yes"`, "Passed: 1, Failed: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
