// Package scenario replays scripted conversations against a bot and checks
// the replies.
//
// A scenario is a YAML file:
//
//	name: mark-and-reload
//	description: marking survives a restart
//	conversations:
//	  - name: add
//	    messages: ["todo walk dog", "mark 1"]
//	    expect:
//	      - contains: "[T][X] walk dog"
//	  - name: reload
//	    new_session: true
//	    messages: ["list"]
//	    expect:
//	      - contains: "1. [T][X] walk dog"
//
// Expectations are checked against the last reply of each conversation and
// match case-insensitively.
package scenario

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/tabbybot/tabby/internal/bot"
	"github.com/tabbybot/tabby/internal/utils"
)

// Scenario is a named list of conversations.
type Scenario struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	Conversations []Conversation `yaml:"conversations"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Conversation is a sequence of messages sent to one bot.
type Conversation struct {
	Name       string   `yaml:"name"`
	NewSession bool     `yaml:"new_session"` // reopen the bot from its data file first
	Messages   []string `yaml:"messages"`
	Expect     []Expect `yaml:"expect"`
}

// Expect is one check on a reply. Empty fields are skipped.
type Expect struct {
	Contains    string   `yaml:"contains"`
	ContainsAny []string `yaml:"contains_any"`
	NotContains string   `yaml:"not_contains"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(s.Conversations) == 0 {
		return nil, fmt.Errorf("scenario %s has no conversations", s.Name)
	}
	s.Path = path
	return &s, nil
}

// LoadAll loads every path. A directory contributes its *.yaml and *.yml
// files in name order.
func LoadAll(paths []string) ([]*Scenario, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading scenario: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(p, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	scenarios := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := Load(f)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Filter keeps the scenarios named in the comma-separated list only.
// An empty list keeps everything.
func Filter(scenarios []*Scenario, only string) []*Scenario {
	names := utils.SplitAndTrim(only, ",")
	if len(names) == 0 {
		return scenarios
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var out []*Scenario
	for _, s := range scenarios {
		if keep[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

// Check returns one message per failed expectation.
func (e Expect) Check(reply string) []string {
	lower := strings.ToLower(reply)
	var failures []string
	if e.Contains != "" && !strings.Contains(lower, strings.ToLower(e.Contains)) {
		failures = append(failures, fmt.Sprintf("expected to contain %q", e.Contains))
	}
	if len(e.ContainsAny) > 0 {
		found := false
		for _, s := range e.ContainsAny {
			if strings.Contains(lower, strings.ToLower(s)) {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, fmt.Sprintf("expected to contain one of %q", e.ContainsAny))
		}
	}
	if e.NotContains != "" && strings.Contains(lower, strings.ToLower(e.NotContains)) {
		failures = append(failures, fmt.Sprintf("expected not to contain %q", e.NotContains))
	}
	return failures
}

// ConversationResult is the outcome of one conversation.
type ConversationResult struct {
	Name      string
	LastReply string
	Failures  []string
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario      string
	Conversations []ConversationResult
}

// Passed reports whether every expectation held.
func (r Result) Passed() bool {
	for _, c := range r.Conversations {
		if len(c.Failures) > 0 {
			return false
		}
	}
	return true
}

// Runner replays scenarios. Open must return a bot over the same data file
// each time it is called.
type Runner struct {
	Open   func() *bot.Bot
	Logger *log.Logger
}

// Run replays s. The bot is opened once up front and again before every
// conversation marked new_session.
func (r *Runner) Run(s *Scenario) Result {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("scenario", s.Name)

	res := Result{Scenario: s.Name}
	b := r.Open()
	for i, conv := range s.Conversations {
		name := conv.Name
		if name == "" {
			name = fmt.Sprintf("conversation %d", i+1)
		}
		if conv.NewSession && i > 0 {
			logger.Debug("reopening bot", "conversation", name)
			b = r.Open()
		}

		cr := ConversationResult{Name: name}
		for _, msg := range conv.Messages {
			reply, bye := b.Respond(msg)
			logger.Debug("exchange", "input", msg, "reply", reply)
			cr.LastReply = reply
			if bye {
				break
			}
		}
		for _, exp := range conv.Expect {
			cr.Failures = append(cr.Failures, exp.Check(cr.LastReply)...)
		}
		if len(cr.Failures) > 0 {
			logger.Warn("expectations failed", "conversation", name, "failures", len(cr.Failures))
		}
		res.Conversations = append(res.Conversations, cr)
	}
	return res
}

// WriteSummary prints a pass/fail line per scenario, the failed checks and
// the totals. It returns the number of failed scenarios.
func WriteSummary(w io.Writer, results []Result) int {
	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed() {
			fmt.Fprintf(w, "  ✓ %s\n", r.Scenario)
			passed++
			continue
		}
		fmt.Fprintf(w, "  ✗ %s\n", r.Scenario)
		failed++
		for _, c := range r.Conversations {
			for _, f := range c.Failures {
				fmt.Fprintf(w, "      %s: %s\n", c.Name, f)
			}
			if len(c.Failures) > 0 {
				fmt.Fprintf(w, "      last reply: %q\n", c.LastReply)
			}
		}
	}
	fmt.Fprintf(w, "\nPassed: %d, Failed: %d\n", passed, failed)
	return failed
}
