// Package storage keeps the task list in a plain-text data file, one
// encoded task per line.
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/tabbybot/tabby/internal/codec"
	"github.com/tabbybot/tabby/internal/task"
)

// ErrStorage is matched by every *Error.
var ErrStorage = errors.New("storage error")

// Error is an I/O failure on the data file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrStorage, e.Err} }

// LineSeparator ends every line written to the data file.
var LineSeparator = lineSeparator()

func lineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Option configures a File.
type Option func(*File)

// WithLogger sets the logger that reports skipped lines and I/O failures.
func WithLogger(logger *log.Logger) Option {
	return func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// File is a data file on disk. It holds no open handle between calls.
type File struct {
	path   string
	lock   *flock.Flock
	logger *log.Logger
}

// New returns storage backed by the file at path.
func New(path string, opts ...Option) *File {
	f := &File{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the data file path.
func (f *File) Path() string { return f.path }

// Load reads every decodable task in file order. A missing directory or
// file is created empty. Blank and malformed lines are skipped.
func (f *File) Load() ([]task.Task, error) {
	if err := f.ensure(); err != nil {
		return nil, f.fail("create", err)
	}
	if err := f.lock.Lock(); err != nil {
		return nil, f.fail("lock", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, f.fail("read", err)
	}

	report, err := Scan(bytes.NewReader(data))
	if err != nil {
		return nil, f.fail("read", err)
	}
	for _, s := range report.Skipped {
		f.logger.Warn("skipping malformed line", "path", f.path, "line", s.Line, "err", s.Err)
	}
	f.logger.Debug("loaded data file", "path", f.path, "tasks", len(report.Tasks))
	return report.Tasks, nil
}

// Save truncates the file and writes tasks, one per line.
func (f *File) Save(tasks []task.Task) error {
	if err := f.ensure(); err != nil {
		return f.fail("create", err)
	}
	if err := f.lock.Lock(); err != nil {
		return f.fail("lock", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(codec.Encode(t))
		b.WriteString(LineSeparator)
	}
	if err := os.WriteFile(f.path, []byte(b.String()), 0o644); err != nil {
		return f.fail("write", err)
	}
	return nil
}

func (f *File) ensure() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return file.Close()
}

func (f *File) fail(op string, err error) error {
	e := &Error{Op: op, Path: f.path, Err: err}
	f.logger.Error("data file failure", "op", op, "path", f.path, "err", err)
	return e
}

// SkippedLine is a data-file line that did not decode.
type SkippedLine struct {
	Line int
	Text string
	Err  error
}

// Report is the outcome of scanning a data file.
type Report struct {
	Tasks   []task.Task
	Skipped []SkippedLine
}

// Scan decodes r line by line. Line numbers are 1-based and count blank
// lines. Only read failures are returned as errors.
func Scan(r io.Reader) (Report, error) {
	var report Report
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := codec.Decode(line)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedLine{Line: n, Text: line, Err: err})
			continue
		}
		report.Tasks = append(report.Tasks, t)
	}
	return report, sc.Err()
}
