package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvWithSources(cfg, nil)
}

// loadFromEnvWithSources loads environment variables and updates source
// tracking when sources is non-nil.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	str := func(key, field string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
			setSource(sources, field, SourceEnv)
		}
	}
	boolean := func(key, field string, target *bool) {
		if v := os.Getenv(key); v != "" {
			*target = boolFromString(v)
			setSource(sources, field, SourceEnv)
		}
	}

	str("TABBY_DATA_DIR", "data_dir", &cfg.DataDir)
	str("TABBY_DATA_FILE", "data_file", &cfg.DataFile)
	str("TABBY_LOG_DIR", "log_dir", &cfg.LogDir)
	boolean("TABBY_TRANSCRIPT", "transcript", &cfg.Transcript)
	str("TABBY_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("TABBY_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("TABBY_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	str("TABBY_UI", "ui", &cfg.UI)
	boolean("TABBY_DECORATE", "decorate", &cfg.Decorate)
}

// setSource records where field came from. A nil map disables tracking.
func setSource(sources map[string]ConfigSource, field string, source ConfigSource) {
	if sources != nil {
		sources[field] = source
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
