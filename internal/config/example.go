package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteExample when the target exists.
var ErrConfigExists = errors.New("config file already exists")

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Tabby configuration file
# Values can be overridden by TABBY_* environment variables or CLI flags

# Directory holding the task file (relative to the working directory)
data_dir = "./data"

# Task file name inside data_dir
data_file = "tabby_data.txt"

# Transcript directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tabby/logs"

# Record every exchange as JSONL under log_dir
transcript = false

# Console logging on stderr: debug, info, warn, error
log_level = "warn"

# text, json or logfmt
log_format = "text"
log_timestamps = false

# Chat surface: line or tui
ui = "line"

# Decorate error replies with the cat face
decorate = true
`
}

// WriteExample writes ExampleConfig to path, creating parent directories.
// An existing file is kept unless force is set.
func WriteExample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(ExampleConfig()), 0o644)
}
