// Package cmd implements the CLI command structure for tabby.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tabbybot/tabby/internal/bot"
	"github.com/tabbybot/tabby/internal/config"
	"github.com/tabbybot/tabby/internal/logging"
	"github.com/tabbybot/tabby/internal/storage"
	"github.com/tabbybot/tabby/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrInputRejected is returned by one-shot commands whose input was answered
// with an error reply. The reply has already been printed.
var ErrInputRejected = errors.New("input rejected")

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tabby CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tabby", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	a := newApp(cws)

	// No subcommand means chat.
	subcommand := "chat"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "chat":
		return chatCommand(ctx, a, remainingArgs)
	case "tui":
		return tuiCommand(ctx, a, remainingArgs)
	case "do":
		return doCommand(a, remainingArgs)
	case "ls":
		return lsCommand(a, remainingArgs)
	case "export":
		return exportCommand(a, remainingArgs)
	case "import":
		return importCommand(a, remainingArgs)
	case "doctor":
		return doctorCommand(a, remainingArgs)
	case "replay":
		return replayCommand(ctx, a, remainingArgs)
	case "tail":
		return tailCommand(ctx, a, remainingArgs)
	case "init":
		return initCommand(a.cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources map[string]config.ConfigSource
	files   []string
	logger  *log.Logger
}

func newApp(cws *config.ConfigWithSources) *app {
	cfg := cws.Config
	return &app{
		cfg:     cfg,
		sources: cws.Sources,
		files:   cws.Files,
		logger:  logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps),
	}
}

// dataFile returns the data file at path, or at the configured path when
// path is empty.
func (a *app) dataFile(path string) *storage.File {
	if path == "" {
		path = a.cfg.DataPath()
	}
	return storage.New(path, storage.WithLogger(a.logger))
}

// newBot opens a bot over file with the configured decorations.
func (a *app) newBot(file *storage.File) *bot.Bot {
	opts := []bot.Option{bot.WithLogger(a.logger)}
	if !a.cfg.Decorate {
		opts = append(opts, bot.WithFormatter(bot.Plain{}))
	}
	return bot.New(file, opts...)
}

// openStore loads the configured data file for non-interactive commands,
// which fail instead of starting empty.
func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.dataFile(""), store.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return st, nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "tabby version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tabby - a task list you talk to")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tabby [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  chat               Chat in the terminal (default command)")
	fmt.Fprintln(w, "  tui                Chat in a full-screen window")
	fmt.Fprintln(w, "  do <words...>      Send one message and print the reply")
	fmt.Fprintln(w, "  ls                 Print the task list")
	fmt.Fprintln(w, "  export             Write a JSON, YAML or TOML snapshot")
	fmt.Fprintln(w, "  import <file>      Load tasks from a JSON snapshot")
	fmt.Fprintln(w, "  doctor             Check config, data file and log directory")
	fmt.Fprintln(w, "  replay <file...>   Run YAML conversation scenarios")
	fmt.Fprintln(w, "  tail               Print the latest transcript")
	fmt.Fprintln(w, "  init               Write an example tabby.toml")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chat Options:")
	fmt.Fprintln(w, "  -ui string")
	fmt.Fprintln(w, "        Chat surface (line|tui)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -remind")
	fmt.Fprintln(w, "        Only show deadlines and events that are not done")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        json, yaml or toml (default \"json\")")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output file (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Import Options:")
	fmt.Fprintln(w, "  -append")
	fmt.Fprintln(w, "        Add to the current list instead of replacing it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options:")
	fmt.Fprintln(w, "  -snapshot string")
	fmt.Fprintln(w, "        Also validate this JSON snapshot")
	fmt.Fprintln(w, "  -v    Show skipped data-file lines")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replay Options:")
	fmt.Fprintln(w, "  -keep")
	fmt.Fprintln(w, "        Use the configured data file instead of a temporary one")
	fmt.Fprintln(w, "  -only string")
	fmt.Fprintln(w, "        Comma-separated scenario names to run")
	fmt.Fprintln(w, "  -j int")
	fmt.Fprintln(w, "        Scenarios to run at once (default 4, 1 with -keep)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the transcript (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List recorded sessions")
}
