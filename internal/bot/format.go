package bot

import "fmt"

// Formatter decorates replies before they reach a host surface. Both
// methods are pure.
type Formatter interface {
	Display(msg string) string
	Error(msg string) string
}

// Plain returns messages unchanged.
type Plain struct{}

func (Plain) Display(msg string) string { return msg }
func (Plain) Error(msg string) string   { return msg }

// Tabby adds the cat face to errors.
type Tabby struct{}

func (Tabby) Display(msg string) string { return msg }

func (Tabby) Error(msg string) string {
	return fmt.Sprintf("= >_< = Error!\n %s", msg)
}

// Greeting is shown when a session starts.
const Greeting = "= ^o^ = Meow!\n  I'm Tabby.\n How may I assist you?"
