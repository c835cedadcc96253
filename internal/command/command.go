// Package command turns user input lines into typed commands and runs them
// against a task store.
package command

import (
	"time"

	"github.com/tabbybot/tabby/internal/store"
	"github.com/tabbybot/tabby/internal/task"
)

// Farewell is the reply to bye.
const Farewell = "Bye. Hope to see you again soon!"

// Command is one parsed user request. Execute returns the reply; a non-nil
// error means the reply was produced but persisting the change failed.
type Command interface {
	Execute(s *store.Store) (string, error)
}

// List shows every task.
type List struct{}

func (List) Execute(s *store.Store) (string, error) { return s.List(), nil }

// Remind shows deadlines and events that are not done yet.
type Remind struct{}

func (Remind) Execute(s *store.Store) (string, error) { return s.Remind(), nil }

// Find shows tasks whose rendered line contains Keyword.
type Find struct {
	Keyword string
}

func (c Find) Execute(s *store.Store) (string, error) { return s.Find(c.Keyword), nil }

// AddToDo adds a to-do.
type AddToDo struct {
	Description string
}

func (c AddToDo) Execute(s *store.Store) (string, error) {
	t, err := task.NewToDo(c.Description)
	if err != nil {
		return "", inputError(ErrInvalidTodo)
	}
	return s.Add(t)
}

// AddDeadline adds a deadline.
type AddDeadline struct {
	Description string
	By          time.Time
}

func (c AddDeadline) Execute(s *store.Store) (string, error) {
	t, err := task.NewDeadline(c.Description, c.By)
	if err != nil {
		return "", inputError(ErrInvalidDeadlineInput)
	}
	return s.Add(t)
}

// AddEvent adds an event.
type AddEvent struct {
	Description string
	From, To    time.Time
}

func (c AddEvent) Execute(s *store.Store) (string, error) {
	t, err := task.NewEvent(c.Description, c.From, c.To)
	if err != nil {
		return "", inputError(ErrInvalidEventInput)
	}
	return s.Add(t)
}

// Mark marks the task at the 0-based Index as done.
type Mark struct {
	Index int
}

func (c Mark) Execute(s *store.Store) (string, error) { return s.Mark(c.Index) }

// Unmark clears the done flag of the task at the 0-based Index.
type Unmark struct {
	Index int
}

func (c Unmark) Execute(s *store.Store) (string, error) { return s.Unmark(c.Index) }

// Delete removes the task at the 0-based Index.
type Delete struct {
	Index int
}

func (c Delete) Execute(s *store.Store) (string, error) { return s.Delete(c.Index) }

// Bye ends the conversation. It leaves the store untouched.
type Bye struct{}

func (Bye) Execute(*store.Store) (string, error) { return Farewell, nil }
