// Package codec converts tasks to and from data-file lines.
//
// A line is the task's rendered form:
//
//	[T][ ] walk the dog
//	[D][X] submit report (by: Dec 02 2019, 6:00 pm)
//	[E][ ] project meet (from: Dec 02 2019, 6:00 pm to: Dec 02 2019, 8:00 pm)
package codec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tabbybot/tabby/internal/datetime"
	"github.com/tabbybot/tabby/internal/task"
)

var (
	headerPattern   = regexp.MustCompile(`^\[(T|D|E)\]\[(X| )\]\s*(.*)$`)
	// The trailer is the last parenthesised group, so descriptions may
	// contain their own "(by: ...)" text.
	deadlinePattern = regexp.MustCompile(`^(.+)\s*\(by:\s*([^()]*)\)$`)
	eventPattern    = regexp.MustCompile(`^(.+)\s*\(from:\s*([^()]*?)\s*to:\s*([^()]*)\)$`)
)

// ErrMalformedLine is wrapped by every Decode failure.
var ErrMalformedLine = errors.New("malformed task line")

// Encode returns the data-file line for t, without a line separator.
func Encode(t task.Task) string {
	return t.String()
}

// Decode parses one data-file line.
func Decode(line string) (task.Task, error) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, fmt.Errorf("%w: unrecognised header", ErrMalformedLine)
	}
	kind, _ := task.ParseKind(m[1])
	done := m[2] == "X"
	body := m[3]

	t, err := decodeBody(kind, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	if done {
		t.MarkDone()
	}
	return t, nil
}

func decodeBody(kind task.Kind, body string) (task.Task, error) {
	switch kind {
	case task.KindDeadline:
		m := deadlinePattern.FindStringSubmatch(body)
		if m == nil {
			return nil, errors.New("missing (by: ...) trailer")
		}
		by, err := datetime.ParseDisplay(m[2])
		if err != nil {
			return nil, err
		}
		return task.NewDeadline(m[1], by)
	case task.KindEvent:
		m := eventPattern.FindStringSubmatch(body)
		if m == nil {
			return nil, errors.New("missing (from: ... to: ...) trailer")
		}
		from, err := datetime.ParseDisplay(m[2])
		if err != nil {
			return nil, err
		}
		to, err := datetime.ParseDisplay(m[3])
		if err != nil {
			return nil, err
		}
		return task.NewEvent(m[1], from, to)
	default:
		return task.NewToDo(body)
	}
}
