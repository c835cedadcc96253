package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/tabbybot/tabby/internal/config"
	"github.com/tabbybot/tabby/internal/datadir"
	"github.com/tabbybot/tabby/internal/logging"
)

// tailCommand prints the latest transcript or lists recorded sessions.
func tailCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("tabby tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the transcript (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the transcript (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List recorded sessions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil {
			fmt.Fprintln(stdout, "No transcripts found.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(stdout, "%s  %s  %d bytes\n", r.RunID, r.ModTime.Format("2006-01-02 15:04:05"), r.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest transcript: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No transcripts found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// initCommand writes an example config file.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tabby init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	user := fs.Bool("user", false, "Write the user config file instead of ./tabby.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := datadir.ConfigPath(cfg.WorkDir)
	if *user {
		p, err := config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		path = p
	}

	if err := config.WriteExample(path, *force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(stdout, "Skipping %s (exists, use -force to overwrite)\n", path)
			return nil
		}
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
