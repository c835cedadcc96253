// Package datadir holds the names and layout of tabby's files on disk.
package datadir

import "path/filepath"

const (
	// Dir is the default data directory, relative to the working directory.
	Dir = "data"

	// DefaultFile is the task file name inside the data directory.
	DefaultFile = "tabby_data.txt"

	// UserDir is the per-user state directory under the home directory.
	UserDir = ".tabby"

	// ConfigFile is the config file name.
	ConfigFile = "tabby.toml"

	// LogsDir is the transcript directory name inside UserDir.
	LogsDir = "logs"
)

// DataPath returns the task file path inside dir. Empty values fall back to
// the defaults.
func DataPath(dir, file string) string {
	if dir == "" {
		dir = Dir
	}
	if file == "" {
		file = DefaultFile
	}
	return filepath.Join(dir, file)
}

// ConfigPath returns the config file path inside dir.
func ConfigPath(dir string) string {
	if dir == "." || dir == "" {
		return ConfigFile
	}
	return filepath.Join(dir, ConfigFile)
}

// UserPath returns UserDir joined under home.
func UserPath(home string, elem ...string) string {
	return filepath.Join(append([]string{home, UserDir}, elem...)...)
}
