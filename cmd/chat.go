package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/tabbybot/tabby/internal/command"
	"github.com/tabbybot/tabby/internal/config"
	"github.com/tabbybot/tabby/internal/logging"
	"github.com/tabbybot/tabby/internal/ui"
	"github.com/tabbybot/tabby/internal/utils"
)

// chatCommand runs an interactive session on the configured surface.
func chatCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("tabby chat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	uiMode := fs.String("ui", a.cfg.UI, "Chat surface (line|tui)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return chat(ctx, a, utils.Normalize(*uiMode))
}

// tuiCommand is chat -ui tui.
func tuiCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("tabby tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return chat(ctx, a, config.UITUI)
}

func chat(ctx context.Context, a *app, mode string) error {
	if mode != config.UILine && mode != config.UITUI {
		return fmt.Errorf("unknown ui %q (expected %s or %s)", mode, config.UILine, config.UITUI)
	}

	b := a.newBot(a.dataFile(""))
	opts := []ui.Option{ui.WithLogger(a.logger)}
	if a.cfg.Transcript {
		tr, err := logging.NewTranscript(a.cfg.LogDir, a.cfg.DataDir)
		if err != nil {
			a.logger.Warn("transcript disabled", "err", err)
		} else {
			defer tr.Close()
			a.logger.Info("recording transcript", "path", tr.LogPath, "session", tr.Session)
			opts = append(opts, ui.WithRecorder(tr))
		}
	}

	if mode == config.UITUI {
		return ui.RunTUI(ctx, b, opts...)
	}
	return ui.RunREPL(ctx, b, stdin, stdout, opts...)
}

// doCommand answers a single message given on the command line.
func doCommand(a *app, args []string) error {
	line := strings.TrimSpace(strings.Join(args, " "))
	if line == "" {
		return fmt.Errorf("do: missing message (try: tabby do list)")
	}

	b := a.newBot(a.dataFile(""))
	if err := b.LoadErr(); err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	r := b.Handle(line)
	fmt.Fprintln(stdout, r.Text)
	switch {
	case r.Err == nil:
		return nil
	case command.IsInputError(r.Err):
		return ErrInputRejected
	default:
		return r.Err
	}
}

// lsCommand prints the list for scripts.
func lsCommand(a *app, args []string) error {
	fs := flag.NewFlagSet("tabby ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	remind := fs.Bool("remind", false, "Only show deadlines and events that are not done")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st, err := a.openStore()
	if err != nil {
		return err
	}
	if *remind {
		fmt.Fprintln(stdout, st.Remind())
		return nil
	}
	fmt.Fprintln(stdout, st.List())
	return nil
}
