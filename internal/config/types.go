package config

import (
	"fmt"

	"github.com/tabbybot/tabby/internal/datadir"
	"github.com/tabbybot/tabby/internal/utils"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	DefaultDataDir   = "./" + datadir.Dir
	DefaultDataFile  = datadir.DefaultFile
	DefaultLogDir    = "~/" + datadir.UserDir + "/" + datadir.LogsDir
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultUI        = UILine
	DefaultDecorate  = true
)

// Host surfaces.
const (
	UILine = "line"
	UITUI  = "tui"
)

// Config holds the full configuration for tabby.
type Config struct {
	// Task storage
	DataDir  string `toml:"data_dir"`
	DataFile string `toml:"data_file"`

	// Transcripts
	LogDir     string `toml:"log_dir"`
	Transcript bool   `toml:"transcript"`

	// Console logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Chat surface
	UI       string `toml:"ui"`
	Decorate bool   `toml:"decorate"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// DataPath returns the task file path.
func (c *Config) DataPath() string {
	return datadir.DataPath(c.DataDir, c.DataFile)
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch utils.Normalize(c.UI) {
	case UILine, UITUI:
	default:
		return fmt.Errorf("ui must be %q or %q, got %q", UILine, UITUI, c.UI)
	}
	switch utils.Normalize(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch utils.Normalize(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if c.DataFile == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	return nil
}
