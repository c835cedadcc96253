// Package config tests configuration loading.
package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points the user config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"TABBY_DATA_DIR", "TABBY_DATA_FILE", "TABBY_LOG_DIR", "TABBY_TRANSCRIPT",
		"TABBY_LOG_LEVEL", "TABBY_LOG_FORMAT", "TABBY_LOG_TIMESTAMPS", "TABBY_UI", "TABBY_DECORATE",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.DataFile != "tabby_data.txt" {
		t.Errorf("DataFile: got %q, want tabby_data.txt", cfg.DataFile)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if cfg.UI != UILine {
		t.Errorf("UI: got %q, want %q", cfg.UI, UILine)
	}
	if !cfg.Decorate {
		t.Error("Decorate: got false, want true")
	}
	if cfg.Transcript {
		t.Error("Transcript: got true, want false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TABBY_DATA_DIR", "/srv/tabby")
	t.Setenv("TABBY_TRANSCRIPT", "yes")
	t.Setenv("TABBY_DECORATE", "0")
	t.Setenv("TABBY_UI", "tui")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.DataDir != "/srv/tabby" {
		t.Errorf("DataDir: got %q, want /srv/tabby", cfg.DataDir)
	}
	if !cfg.Transcript {
		t.Error("Transcript: got false, want true")
	}
	if cfg.Decorate {
		t.Error("Decorate: got true, want false")
	}
	if cfg.UI != "tui" {
		t.Errorf("UI: got %q, want tui", cfg.UI)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tabby.toml")

	content := []byte(`data_dir = "/var/lib/tabby"
log_level = "debug"
decorate = false
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFileWithSources(cfg, configFile, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.DataDir != "/var/lib/tabby" {
		t.Errorf("DataDir: got %q, want /var/lib/tabby", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.Decorate {
		t.Error("Decorate: got true, want false")
	}
	if cfg.DataFile != DefaultDataFile {
		t.Errorf("DataFile should keep its default, got %q", cfg.DataFile)
	}
	if sources["decorate"] != SourceProjFile || sources["data_dir"] != SourceProjFile {
		t.Errorf("sources: got %v", sources)
	}
	if _, ok := sources["data_file"]; ok {
		t.Error("data_file is not in the file and should not be tracked")
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "tabby.toml")
	if err := os.WriteFile(configFile, []byte("data_dri = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestExampleConfigParses(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example config has unknown keys: %v", md.Undecoded())
	}
	want := &Config{}
	setDefaults(want)
	if *cfg != *want {
		t.Errorf("example config differs from defaults:\ngot  %+v\nwant %+v", cfg, want)
	}
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tabby.toml")
	if err := WriteExample(path, false); err != nil {
		t.Fatalf("WriteExample: %v", err)
	}
	if err := WriteExample(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second WriteExample: got %v, want ErrConfigExists", err)
	}
	if err := WriteExample(path, true); err != nil {
		t.Errorf("forced WriteExample: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	t.Setenv("TABBY_TEST_DIR", "/opt/tabby")
	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TABBY_TEST_DIR/logs", "/opt/tabby/logs"},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, struct{ input, want string }{`~\test`, filepath.Join(home, "test")})
	} else {
		tests = append(tests, struct{ input, want string }{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPercentVars(t *testing.T) {
	t.Setenv("TABBY_PCT", "C:\\Users\\me")
	tests := []struct {
		input string
		want  string
	}{
		{`%TABBY_PCT%\logs`, `C:\Users\me\logs`},
		{`%TABBY_MISSING%\logs`, `%TABBY_MISSING%\logs`},
		{`100%`, `100%`},
		{`a%%b`, `a%%b`},
	}
	for _, tt := range tests {
		if got := expandPercentVars(tt.input); got != tt.want {
			t.Errorf("expandPercentVars(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--data-dir", "/tmp/tabby",
		"--ui", "tui",
		"--decorate=false",
		"extra", "words",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.DataDir != "/tmp/tabby" {
		t.Errorf("DataDir: got %q, want /tmp/tabby", cfg.DataDir)
	}
	if cfg.UI != "tui" {
		t.Errorf("UI: got %q, want tui", cfg.UI)
	}
	if cfg.Decorate {
		t.Error("Decorate: got true, want false")
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel changed without a flag: %q", cfg.LogLevel)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "extra" {
		t.Errorf("Args: got %v", got)
	}
}

func TestLoadWithSources(t *testing.T) {
	home := isolate(t)
	userDir := filepath.Join(home, ".tabby")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(userDir, "tabby.toml")
	if err := os.WriteFile(userFile, []byte("log_level = \"info\"\ndata_file = \"mine.txt\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABBY_LOG_LEVEL", "error")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-data-dir", "/tmp/tabby-data"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.LogLevel != "error" || cws.Sources["log_level"] != SourceEnv {
		t.Errorf("log_level: got %q from %s", cfg.LogLevel, cws.Sources["log_level"])
	}
	if cfg.DataFile != "mine.txt" || cws.Sources["data_file"] != SourceUserFile {
		t.Errorf("data_file: got %q from %s", cfg.DataFile, cws.Sources["data_file"])
	}
	if cfg.DataDir != "/tmp/tabby-data" || cws.Sources["data_dir"] != SourceFlag {
		t.Errorf("data_dir: got %q from %s", cfg.DataDir, cws.Sources["data_dir"])
	}
	if cws.Sources["ui"] != SourceDefault {
		t.Errorf("ui source: got %s", cws.Sources["ui"])
	}
	if cws.GetConfigFile() != userFile {
		t.Errorf("GetConfigFile: got %q, want %q", cws.GetConfigFile(), userFile)
	}
	if cfg.DataPath() != filepath.Join("/tmp/tabby-data", "mine.txt") {
		t.Errorf("DataPath: got %q", cfg.DataPath())
	}
	if cfg.LogDir != filepath.Join(home, ".tabby", "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
}

func TestLoadResolvesRelativeDataDir(t *testing.T) {
	isolate(t)
	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wd, _ := os.Getwd()
	if cfg.DataDir != filepath.Join(wd, "data") {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, filepath.Join(wd, "data"))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"tui", func(c *Config) { c.UI = "TUI" }, false},
		{"bad ui", func(c *Config) { c.UI = "web" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty file", func(c *Config) { c.DataFile = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
