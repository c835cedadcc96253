package config

import (
	"flag"
)

// flagToSource maps flag names to config field names.
var flagToSource = map[string]string{
	"data-dir":       "data_dir",
	"data-file":      "data_file",
	"log-dir":        "log_dir",
	"transcript":     "transcript",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"ui":             "ui",
	"decorate":       "decorate",
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsWithSources(cfg, fs, args, nil)
}

// parseFlagsWithSources registers the config flags on fs, parses args and
// records every flag the user set. Defaults are the values already in cfg,
// so unset flags leave cfg unchanged.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tabby", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task file")
	fs.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "Task file name inside the data directory")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Transcript directory")
	fs.BoolVar(&cfg.Transcript, "transcript", cfg.Transcript, "Record each exchange as JSONL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "Chat surface (line, tui)")
	fs.BoolVar(&cfg.Decorate, "decorate", cfg.Decorate, "Decorate error replies")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToSource[f.Name]; ok {
			setSource(sources, field, SourceFlag)
		}
	})
	return nil
}
