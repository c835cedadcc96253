// Package bot maps one line of user input to one reply.
package bot

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tabbybot/tabby/internal/command"
	"github.com/tabbybot/tabby/internal/store"
)

// Reply is the outcome of one input line.
type Reply struct {
	Text string
	// Bye is set when the host should end the session.
	Bye bool
	// Err is the input or save error behind the reply, if any.
	Err error
}

// Option configures a Bot.
type Option func(*Bot)

// WithFormatter sets the reply decorations. The default is Tabby.
func WithFormatter(f Formatter) Option {
	return func(b *Bot) {
		if f != nil {
			b.format = f
		}
	}
}

// WithLogger sets the logger for the bot and its store.
func WithLogger(logger *log.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Bot owns a task store and answers user input.
type Bot struct {
	store   *store.Store
	format  Formatter
	logger  *log.Logger
	loadErr error
}

// New opens a bot over backend. A load failure does not stop the bot; it
// starts with an empty list and reports the failure in Greeting.
func New(backend store.Backend, opts ...Option) *Bot {
	b := &Bot{
		format: Tabby{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.store, b.loadErr = store.Open(backend, store.WithLogger(b.logger))
	if b.loadErr != nil {
		b.logger.Error("could not load tasks", "err", b.loadErr)
	}
	return b
}

// Store returns the bot's task store.
func (b *Bot) Store() *store.Store { return b.store }

// LoadErr returns the error from the initial load, if any.
func (b *Bot) LoadErr() error { return b.loadErr }

// Greeting returns the opening message, followed by the load error when the
// data file could not be read.
func (b *Bot) Greeting() string {
	msg := b.format.Display(Greeting)
	if b.loadErr != nil {
		msg += "\n" + b.format.Error(b.loadErr.Error())
	}
	return msg
}

// Respond returns the reply to line and whether the session is over.
func (b *Bot) Respond(line string) (string, bool) {
	r := b.Handle(line)
	return r.Text, r.Bye
}

// Handle answers one input line.
func (b *Bot) Handle(line string) Reply {
	if strings.EqualFold(strings.TrimSpace(line), "bye") {
		return Reply{Text: b.format.Display(command.Farewell), Bye: true}
	}

	cmd, err := command.Parse(line)
	if err != nil {
		b.logger.Debug("rejected input", "input", line, "err", err)
		return Reply{Text: b.format.Error(err.Error()), Err: err}
	}

	text, err := cmd.Execute(b.store)
	switch {
	case err == nil:
		return Reply{Text: b.format.Display(text)}
	case command.IsInputError(err):
		return Reply{Text: b.format.Error(err.Error()), Err: err}
	}

	// The change is kept in memory; only persisting it failed.
	msg := b.format.Error("Your tasks could not be saved: " + err.Error())
	if text != "" {
		msg = b.format.Display(text) + "\n" + msg
	}
	return Reply{Text: msg, Err: err}
}
