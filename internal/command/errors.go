package command

import (
	"errors"

	"github.com/tabbybot/tabby/internal/datetime"
)

// Kinds of input error. Match them with errors.Is.
var (
	ErrInvalidCommand       = errors.New("invalid command")
	ErrIncompleteCommand    = errors.New("incomplete command")
	ErrInvalidTaskNumber    = errors.New("invalid task number")
	ErrInvalidTodo          = errors.New("invalid todo")
	ErrInvalidDeadlineInput = errors.New("invalid deadline input")
	ErrInvalidEventInput    = errors.New("invalid event input")
)

// InputError is a user input the parser could not turn into a command.
// Error returns the message shown to the user.
type InputError struct {
	Kind error
	Msg  string
}

func (e *InputError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *InputError) Unwrap() error { return e.Kind }

var messages = map[error]string{
	ErrInvalidCommand: "Invalid Command. Here are the valid commands: " +
		"list, reminder, find, todo, deadline, event, mark, unmark, delete, bye",
	ErrIncompleteCommand: "Incomplete Command. Here are the valid commands & the respective formats:\n" +
		"  - Find: find <keyword>\n" +
		"  - Deadline: deadline <description> /by <" + datetime.InputHint + ">\n" +
		"  - Event: event <description> /from <" + datetime.InputHint + "> /to <" + datetime.InputHint + ">\n" +
		"  - Todo: todo <description>",
	ErrInvalidTaskNumber: "Invalid Task Number. Please use 'list' to retrieve existing tasks. " +
		"To mark, unmark or delete a task please use: mark/unmark/delete <task number>",
	ErrInvalidTodo:          "Invalid command format. Expected: todo <description>",
	ErrInvalidDeadlineInput: "Invalid deadline format. Use: deadline <description> /by <" + datetime.InputHint + ">",
	ErrInvalidEventInput: "Invalid event format. Use: event <description> /from <" + datetime.InputHint +
		"> /to <" + datetime.InputHint + ">",
}

func inputError(kind error) error {
	return &InputError{Kind: kind, Msg: messages[kind]}
}

// IsInputError reports whether err came from parsing user input.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
