package cmd

import (
	"flag"
	"fmt"
	"time"

	"github.com/tabbybot/tabby/internal/export"
	"github.com/tabbybot/tabby/internal/store"
)

// exportCommand writes a snapshot of the list.
func exportCommand(a *app, args []string) error {
	fs := flag.NewFlagSet("tabby export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", export.FormatJSON, "json, yaml or toml")
	out := fs.String("o", "-", "Output file (- for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if _, err := export.ParseFormat(*format); err != nil {
		return err
	}

	st, err := a.openStore()
	if err != nil {
		return err
	}
	snap := export.Build(st.Tasks(), time.Now())
	if *out == "-" {
		return export.Write(stdout, snap, *format)
	}
	if err := export.WriteFile(*out, snap, *format); err != nil {
		return err
	}
	a.logger.Info("exported tasks", "path", *out, "tasks", len(snap.Tasks))
	return nil
}

// importCommand loads a JSON snapshot into the data file.
func importCommand(a *app, args []string) error {
	fs := flag.NewFlagSet("tabby import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	appendTasks := fs.Bool("append", false, "Add to the current list instead of replacing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import: expected one snapshot file, got %d arguments", fs.NArg())
	}

	snap, err := export.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	tasks, err := snap.ToTasks()
	if err != nil {
		return err
	}

	st, err := a.openStore()
	if err != nil {
		return err
	}
	if err := st.Replace(tasks, *appendTasks); err != nil {
		return fmt.Errorf("saving imported tasks: %w", err)
	}
	fmt.Fprintf(stdout, "Imported %s. Now you have %s in the list\n", store.Count(len(tasks)), store.Count(st.Len()))
	return nil
}
