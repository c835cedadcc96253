// Package task defines the three task variants tabby tracks.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tabbybot/tabby/internal/datetime"
)

// Kind identifies a task variant. Its string form is the one-letter tag
// used in rendered task lines.
type Kind byte

const (
	KindToDo     Kind = 'T'
	KindDeadline Kind = 'D'
	KindEvent    Kind = 'E'
)

// String returns the one-letter type tag.
func (k Kind) String() string {
	return string(rune(k))
}

// Name returns the lowercase command word for the kind.
func (k Kind) Name() string {
	switch k {
	case KindToDo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// ParseKind maps a one-letter tag back to a Kind.
func ParseKind(tag string) (Kind, bool) {
	switch tag {
	case "T":
		return KindToDo, true
	case "D":
		return KindDeadline, true
	case "E":
		return KindEvent, true
	}
	return 0, false
}

var (
	// ErrEmptyDescription is returned when a description is blank after trimming.
	ErrEmptyDescription = errors.New("task description is empty")
	// ErrMultilineDescription is returned when a description spans lines.
	ErrMultilineDescription = errors.New("task description contains a line break")
)

// Task is implemented by *ToDo, *Deadline and *Event.
type Task interface {
	Kind() Kind
	Description() string
	IsDone() bool
	MarkDone()
	MarkNotDone()
	// String renders the canonical one-line form, e.g. "[T][X] walk the dog".
	String() string
}

// header holds the state shared by every variant.
type header struct {
	description string
	done        bool
}

func newHeader(description string) (header, error) {
	d := strings.TrimSpace(description)
	if d == "" {
		return header{}, ErrEmptyDescription
	}
	if strings.ContainsAny(d, "\r\n") {
		return header{}, ErrMultilineDescription
	}
	return header{description: d}, nil
}

func (h *header) Description() string { return h.description }
func (h *header) IsDone() bool        { return h.done }
func (h *header) MarkDone()           { h.done = true }
func (h *header) MarkNotDone()        { h.done = false }

func (h *header) prefix(k Kind) string {
	icon := " "
	if h.done {
		icon = "X"
	}
	return fmt.Sprintf("[%s][%s] %s", k, icon, h.description)
}

// ToDo is a task with no date attached.
type ToDo struct {
	header
}

// NewToDo returns a not-done to-do.
func NewToDo(description string) (*ToDo, error) {
	h, err := newHeader(description)
	if err != nil {
		return nil, err
	}
	return &ToDo{header: h}, nil
}

func (t *ToDo) Kind() Kind { return KindToDo }

func (t *ToDo) String() string {
	return t.prefix(KindToDo)
}

// Deadline is a task due at a single instant.
type Deadline struct {
	header
	By time.Time
}

// NewDeadline returns a not-done deadline.
func NewDeadline(description string, by time.Time) (*Deadline, error) {
	h, err := newHeader(description)
	if err != nil {
		return nil, err
	}
	return &Deadline{header: h, By: by}, nil
}

func (d *Deadline) Kind() Kind { return KindDeadline }

func (d *Deadline) String() string {
	return fmt.Sprintf("%s (by: %s)", d.prefix(KindDeadline), datetime.Format(d.By))
}

// Event is a task spanning From to To. The two instants are not ordered.
type Event struct {
	header
	From time.Time
	To   time.Time
}

// NewEvent returns a not-done event.
func NewEvent(description string, from, to time.Time) (*Event, error) {
	h, err := newHeader(description)
	if err != nil {
		return nil, err
	}
	return &Event{header: h, From: from, To: to}, nil
}

func (e *Event) Kind() Kind { return KindEvent }

func (e *Event) String() string {
	return fmt.Sprintf("%s (from: %s to: %s)", e.prefix(KindEvent), datetime.Format(e.From), datetime.Format(e.To))
}

// Equal reports whether a and b are the same variant with the same fields.
func Equal(a, b Task) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Description() != b.Description() || a.IsDone() != b.IsDone() {
		return false
	}
	switch av := a.(type) {
	case *Deadline:
		bv, ok := b.(*Deadline)
		return ok && av.By.Equal(bv.By)
	case *Event:
		bv, ok := b.(*Event)
		return ok && av.From.Equal(bv.From) && av.To.Equal(bv.To)
	}
	return true
}
