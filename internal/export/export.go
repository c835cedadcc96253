// Package export writes and reads task-list snapshots.
//
// A snapshot is a self-describing copy of the list that other tools can
// consume. It can be written as JSON, YAML or TOML. Only JSON snapshots can
// be imported; they are checked against an embedded JSON Schema first.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/tabbybot/tabby/internal/task"
	"github.com/tabbybot/tabby/internal/utils"
)

// SchemaVersion is the snapshot format version written by Build.
const SchemaVersion = 1

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

const schemaURL = "https://tabbybot.github.io/tabby/snapshot.schema.json"

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON Schema that imported snapshots must satisfy.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// Snapshot is the exported form of a task list.
type Snapshot struct {
	SchemaVersion int    `json:"schema_version" yaml:"schema_version" toml:"schema_version"`
	ExportedAt    string `json:"exported_at,omitempty" yaml:"exported_at,omitempty" toml:"exported_at,omitempty"`
	Tasks         []Task `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// Task is one exported task. Times are RFC 3339.
type Task struct {
	Type        string `json:"type" yaml:"type" toml:"type"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Done        bool   `json:"done" yaml:"done" toml:"done"`
	By          string `json:"by,omitempty" yaml:"by,omitempty" toml:"by,omitempty"`
	From        string `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty"`
	To          string `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
}

// ValidationError is a snapshot problem at a path such as tasks[2].by.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrInvalidSnapshot is matched by every error from Validate and Decode that
// is caused by the snapshot content.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// InvalidError collects the validation errors of one snapshot.
type InvalidError struct {
	Errors []error
}

func (e *InvalidError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
}

func (e *InvalidError) Unwrap() error { return ErrInvalidSnapshot }

// Build converts tasks into a snapshot stamped with now.
func Build(tasks []task.Task, now time.Time) Snapshot {
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		ExportedAt:    now.Format(time.RFC3339),
		Tasks:         make([]Task, 0, len(tasks)),
	}
	for _, t := range tasks {
		out := Task{
			Type:        t.Kind().Name(),
			Description: t.Description(),
			Done:        t.IsDone(),
		}
		switch v := t.(type) {
		case *task.Deadline:
			out.By = stamp(v.By)
		case *task.Event:
			out.From = stamp(v.From)
			out.To = stamp(v.To)
		}
		snap.Tasks = append(snap.Tasks, out)
	}
	return snap
}

func stamp(t time.Time) string {
	return t.In(time.Local).Format(time.RFC3339)
}

// ParseFormat normalizes a format name. The empty string means JSON.
func ParseFormat(s string) (string, error) {
	switch f := utils.Normalize(s); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json, yaml or toml)", s)
	}
}

// Write encodes snap to w in format.
func Write(w io.Writer, snap Snapshot, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(snap)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(&buf).Encode(snap)
	}
	if err != nil {
		return fmt.Errorf("encoding %s snapshot: %w", f, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteFile writes snap to path, or to stdout when path is "" or "-".
func WriteFile(path string, snap Snapshot, format string) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, snap, format)
	}
	var buf bytes.Buffer
	if err := Write(&buf, snap, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("loading snapshot schema: %w", err)
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling snapshot schema: %w", err)
	}
	return s, nil
})

// Validate checks raw JSON against the snapshot schema. A content problem
// is returned as *InvalidError.
func Validate(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return &InvalidError{Errors: []error{&ValidationError{Err: fmt.Errorf("not JSON: %w", err)}}}
	}

	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	invalid := &InvalidError{}
	collectSchemaErrors(invalid, ve)
	return invalid
}

func collectSchemaErrors(invalid *InvalidError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		invalid.Errors = append(invalid.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(invalid, cause)
	}
}

// Decode validates and parses a JSON snapshot.
func Decode(data []byte) (Snapshot, error) {
	if err := Validate(data); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap, nil
}

// ReadFile reads and decodes the JSON snapshot at path.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return Decode(data)
}

// ToTasks converts the snapshot back into tasks. Times are moved to the
// local zone and truncated to the minute, the precision of the data file.
func (s Snapshot) ToTasks() ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(s.Tasks))
	var problems []error
	for i, in := range s.Tasks {
		t, err := in.toTask()
		if err != nil {
			problems = append(problems, &ValidationError{Path: fmt.Sprintf("tasks[%d]", i), Err: err})
			continue
		}
		tasks = append(tasks, t)
	}
	if len(problems) > 0 {
		return nil, &InvalidError{Errors: problems}
	}
	return tasks, nil
}

func (in Task) toTask() (task.Task, error) {
	var (
		t   task.Task
		err error
	)
	switch utils.Normalize(in.Type) {
	case "todo":
		t, err = task.NewToDo(in.Description)
	case "deadline":
		var by time.Time
		if by, err = parseStamp("by", in.By); err != nil {
			return nil, err
		}
		t, err = task.NewDeadline(in.Description, by)
	case "event":
		var from, to time.Time
		if from, err = parseStamp("from", in.From); err != nil {
			return nil, err
		}
		if to, err = parseStamp("to", in.To); err != nil {
			return nil, err
		}
		t, err = task.NewEvent(in.Description, from, to)
	default:
		return nil, fmt.Errorf("unknown task type %q", in.Type)
	}
	if err != nil {
		return nil, err
	}
	if in.Done {
		t.MarkDone()
	}
	return t, nil
}

func parseStamp(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t.In(time.Local).Truncate(time.Minute), nil
}
