// Package ui provides the chat surfaces: a plain line REPL and a terminal UI.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tabbybot/tabby/internal/bot"
)

// Recorder receives every exchange, e.g. a transcript file.
type Recorder interface {
	Record(input, reply string, bye bool) error
}

// Option configures a chat surface.
type Option func(*session)

// WithRecorder records each exchange.
func WithRecorder(r Recorder) Option {
	return func(s *session) {
		s.recorder = r
	}
}

// WithLogger sets the logger for recorder failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// session is the state shared by both surfaces.
type session struct {
	bot      *bot.Bot
	recorder Recorder
	logger   *log.Logger
}

func newSession(b *bot.Bot, opts []Option) *session {
	s := &session{bot: b, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// exchange answers one line and records it.
func (s *session) exchange(line string) bot.Reply {
	r := s.bot.Handle(line)
	if s.recorder != nil {
		if err := s.recorder.Record(line, r.Text, r.Bye); err != nil {
			s.logger.Warn("could not record exchange", "err", err)
		}
	}
	return r
}

// RunREPL prints the greeting, then answers each line read from in until
// bye, end of input or ctx is done.
func RunREPL(ctx context.Context, b *bot.Bot, in io.Reader, out io.Writer, opts ...Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newSession(b, opts)
	if _, err := fmt.Fprintln(out, b.Greeting()); err != nil {
		return err
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			r := s.exchange(line)
			if _, err := fmt.Fprintln(out, r.Text); err != nil {
				return err
			}
			if r.Bye {
				return nil
			}
		}
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
