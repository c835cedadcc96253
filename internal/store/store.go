// Package store holds the in-memory task list and writes it through to a
// backend after every change.
//
// A Store is not safe for concurrent use; hosts serialise calls.
package store

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tabbybot/tabby/internal/task"
)

// InvalidTaskNumber is the reply for an index outside the list.
const InvalidTaskNumber = "Invalid task number."

// Backend persists the whole task list.
type Backend interface {
	Load() ([]task.Task, error)
	Save(tasks []task.Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation traces.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the ordered task list.
type Store struct {
	backend Backend
	tasks   []task.Task
	logger  *log.Logger
}

// Open loads the list from backend. On a load error the returned store is
// still usable and starts empty.
func Open(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := backend.Load()
	if err != nil {
		return s, err
	}
	s.tasks = tasks
	s.logger.Debug("task list loaded", "tasks", len(tasks))
	return s, nil
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Tasks returns a copy of the list.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Add appends t and saves.
func (s *Store) Add(t task.Task) (string, error) {
	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", "kind", t.Kind().Name(), "tasks", len(s.tasks))
	return s.changed("added", t), s.save()
}

// Delete removes the task at i and saves.
func (s *Store) Delete(i int) (string, error) {
	if !s.inRange(i) {
		return InvalidTaskNumber, nil
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task deleted", "index", i+1, "tasks", len(s.tasks))
	return s.changed("deleted", t), s.save()
}

// Mark sets the done flag of the task at i and saves.
func (s *Store) Mark(i int) (string, error) {
	if !s.inRange(i) {
		return InvalidTaskNumber, nil
	}
	t := s.tasks[i]
	t.MarkDone()
	s.logger.Debug("task marked", "index", i+1)
	return "Nice! I've marked this task as done:\n " + t.String(), s.save()
}

// Unmark clears the done flag of the task at i and saves.
func (s *Store) Unmark(i int) (string, error) {
	if !s.inRange(i) {
		return InvalidTaskNumber, nil
	}
	t := s.tasks[i]
	t.MarkNotDone()
	s.logger.Debug("task unmarked", "index", i+1)
	return "OK, I've marked this task as not done yet:\n " + t.String(), s.save()
}

// Replace swaps in tasks, or appends them when add is true, and saves once.
func (s *Store) Replace(tasks []task.Task, add bool) error {
	if add {
		s.tasks = append(s.tasks, tasks...)
	} else {
		s.tasks = append([]task.Task(nil), tasks...)
	}
	s.logger.Debug("task list replaced", "append", add, "tasks", len(s.tasks))
	return s.save()
}

// List enumerates every task.
func (s *Store) List() string {
	if len(s.tasks) == 0 {
		return "No tasks in your list!"
	}
	return enumerate("Here are the tasks in your list:", s.tasks)
}

// Find enumerates the tasks whose rendered line contains keyword,
// numbered by match order.
func (s *Store) Find(keyword string) string {
	var matches []task.Task
	for _, t := range s.tasks {
		if strings.Contains(t.String(), keyword) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return "No matching tasks found!"
	}
	return enumerate("Here are the matching tasks in your list:", matches)
}

// Remind enumerates deadlines and events that are not done.
func (s *Store) Remind() string {
	var pending []task.Task
	for _, t := range s.tasks {
		if t.Kind() != task.KindToDo && !t.IsDone() {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return "No matching tasks found!"
	}
	return enumerate("Here are your upcoming tasks:", pending)
}

func (s *Store) inRange(i int) bool {
	return i >= 0 && i < len(s.tasks)
}

func (s *Store) save() error {
	if err := s.backend.Save(s.tasks); err != nil {
		s.logger.Error("save failed", "err", err)
		return err
	}
	return nil
}

func (s *Store) changed(verb string, t task.Task) string {
	return fmt.Sprintf("Got it. I've %s this task:\n %s\nNow you have %s in the list", verb, t, Count(len(s.tasks)))
}

// Count renders n with the right plural: "1 task", "0 tasks", "2 tasks".
func Count(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func enumerate(heading string, tasks []task.Task) string {
	var b strings.Builder
	b.WriteString(heading)
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, t)
	}
	return b.String()
}
