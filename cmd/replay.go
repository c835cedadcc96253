package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tabbybot/tabby/internal/bot"
	"github.com/tabbybot/tabby/internal/datadir"
	"github.com/tabbybot/tabby/internal/scenario"
)

// replayCommand runs YAML conversation scenarios against a bot.
func replayCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("tabby replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	keep := fs.Bool("keep", false, "Use the configured data file instead of a temporary one")
	only := fs.String("only", "", "Comma-separated scenario names to run")
	jobs := fs.Int("j", 4, "Scenarios to run at once (1 with -keep)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("replay: expected scenario files or directories")
	}

	scenarios, err := scenario.LoadAll(fs.Args())
	if err != nil {
		return err
	}
	scenarios = scenario.Filter(scenarios, *only)
	if len(scenarios) == 0 {
		fmt.Fprintln(stdout, "No scenarios to run.")
		return nil
	}

	workers := *jobs
	if *keep {
		workers = 1
	}
	pool := &scenario.Pool{
		Workers: workers,
		Prepare: func(s *scenario.Scenario) (*scenario.Runner, func(), error) {
			return replayRunner(a, s, *keep)
		},
	}
	results, err := pool.Run(ctx, scenarios)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "=== Summary ===")
	if failed := scenario.WriteSummary(stdout, results); failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}

// replayRunner returns a runner on a fresh data file, or on the configured
// one with keep.
func replayRunner(a *app, s *scenario.Scenario, keep bool) (*scenario.Runner, func(), error) {
	path := a.cfg.DataPath()
	var cleanup func()
	if !keep {
		dir, err := os.MkdirTemp("", "tabby-replay-")
		if err != nil {
			return nil, nil, fmt.Errorf("creating scenario data dir: %w", err)
		}
		cleanup = func() { os.RemoveAll(dir) }
		path = datadir.DataPath(filepath.Join(dir, datadir.Dir), a.cfg.DataFile)
	}

	a.logger.Debug("replaying scenario", "scenario", s.Name, "data", path)
	r := &scenario.Runner{
		Open:   func() *bot.Bot { return a.newBot(a.dataFile(path)) },
		Logger: a.logger,
	}
	return r, cleanup, nil
}
