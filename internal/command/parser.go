package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tabbybot/tabby/internal/datetime"
)

var (
	deadlinePattern = regexp.MustCompile(`^(.+?)\s*/by\s*(.+)$`)
	eventPattern    = regexp.MustCompile(`^(.+?)\s*/from\s*(.+?)\s*/to\s*(.+)$`)
)

// Verbs lists the recognised command words in help order.
var Verbs = []string{"list", "reminder", "find", "todo", "deadline", "event", "mark", "unmark", "delete", "bye"}

// Parse maps one input line to a Command. Failures are *InputError values.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, inputError(ErrInvalidCommand)
	}

	verb, body := splitVerb(trimmed)
	switch strings.ToLower(verb) {
	case "list":
		if body != "" {
			return nil, inputError(ErrInvalidCommand)
		}
		return List{}, nil
	case "reminder":
		if body != "" {
			return nil, inputError(ErrInvalidCommand)
		}
		return Remind{}, nil
	case "bye":
		if body != "" {
			return nil, inputError(ErrInvalidCommand)
		}
		return Bye{}, nil
	case "find":
		if body == "" {
			return nil, inputError(ErrIncompleteCommand)
		}
		return Find{Keyword: body}, nil
	case "todo":
		if body == "" {
			return nil, inputError(ErrIncompleteCommand)
		}
		return AddToDo{Description: body}, nil
	case "deadline":
		if body == "" {
			return nil, inputError(ErrIncompleteCommand)
		}
		return parseDeadline(body)
	case "event":
		if body == "" {
			return nil, inputError(ErrIncompleteCommand)
		}
		return parseEvent(body)
	case "mark":
		i, err := parseIndex(body)
		if err != nil {
			return nil, err
		}
		return Mark{Index: i}, nil
	case "unmark":
		i, err := parseIndex(body)
		if err != nil {
			return nil, err
		}
		return Unmark{Index: i}, nil
	case "delete":
		i, err := parseIndex(body)
		if err != nil {
			return nil, err
		}
		return Delete{Index: i}, nil
	}
	return nil, inputError(ErrInvalidCommand)
}

// splitVerb splits off the first whitespace-delimited token. The body keeps
// its inner whitespace.
func splitVerb(s string) (verb, body string) {
	i := strings.IndexFunc(s, isSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

func parseIndex(body string) (int, error) {
	if body == "" || strings.IndexFunc(body, notDigit) >= 0 {
		return 0, inputError(ErrInvalidTaskNumber)
	}
	n, err := strconv.Atoi(body)
	if err != nil || n < 1 {
		return 0, inputError(ErrInvalidTaskNumber)
	}
	return n - 1, nil
}

func parseDeadline(body string) (Command, error) {
	m := deadlinePattern.FindStringSubmatch(body)
	if m == nil {
		return nil, inputError(ErrInvalidDeadlineInput)
	}
	desc := strings.TrimSpace(m[1])
	if desc == "" || strings.TrimSpace(m[2]) == "" {
		return nil, inputError(ErrInvalidDeadlineInput)
	}
	by, err := datetime.ParseUser(m[2])
	if err != nil {
		return nil, inputError(ErrInvalidDeadlineInput)
	}
	return AddDeadline{Description: desc, By: by}, nil
}

func parseEvent(body string) (Command, error) {
	m := eventPattern.FindStringSubmatch(body)
	if m == nil {
		return nil, inputError(ErrInvalidEventInput)
	}
	desc := strings.TrimSpace(m[1])
	if desc == "" {
		return nil, inputError(ErrInvalidEventInput)
	}
	from, err := datetime.ParseUser(m[2])
	if err != nil {
		return nil, inputError(ErrInvalidEventInput)
	}
	to, err := datetime.ParseUser(m[3])
	if err != nil {
		return nil, inputError(ErrInvalidEventInput)
	}
	return AddEvent{Description: desc, From: from, To: to}, nil
}
