package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/tabbybot/tabby/internal/export"
	"github.com/tabbybot/tabby/internal/storage"
)

// doctorCommand checks config, the data file and the log directory.
func doctorCommand(a *app, args []string) error {
	flags := flag.NewFlagSet("tabby doctor", flag.ContinueOnError)
	flags.SetOutput(stderr)
	snapshot := flags.String("snapshot", "", "Also validate this JSON snapshot")
	verbose := flags.Bool("v", false, "Verbose output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	w := stdout
	fmt.Fprintln(w, "Tabby Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if len(a.files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (defaults, environment and flags)")
	}
	for _, f := range a.files {
		fmt.Fprintf(w, "  ✅ Read %s\n", f)
	}
	if *verbose {
		keys := make([]string, 0, len(a.sources))
		for k := range a.sources {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "     %s: %s\n", k, a.sources[k])
		}
	}
	fmt.Fprintln(w)

	// Data directory
	fmt.Fprintf(w, "Data directory: %s\n", a.cfg.DataDir)
	if info, err := os.Stat(a.cfg.DataDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Data file
	dataPath := a.cfg.DataPath()
	fmt.Fprintf(w, "Data file: %s\n", dataPath)
	if !checkDataFile(dataPath, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Log directory
	fmt.Fprintf(w, "Log directory: %s\n", a.cfg.LogDir)
	if _, err := os.Stat(a.cfg.LogDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if a.cfg.Transcript {
				fmt.Fprintln(w, "  ⚠️  Not found (will be created on first chat)")
			} else {
				fmt.Fprintln(w, "  ⚠️  Not found (transcripts are off)")
			}
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if *snapshot != "" {
		fmt.Fprintf(w, "Snapshot: %s\n", *snapshot)
		if !checkSnapshot(*snapshot) {
			allOK = false
		}
		fmt.Fprintln(w)
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkDataFile reads path without creating it and reports what decodes.
func checkDataFile(path string, verbose bool) bool {
	w := stdout
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil && info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	report, err := storage.Scan(file)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ %d tasks\n", len(report.Tasks))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "  ⚠️  %d malformed lines will be skipped\n", len(report.Skipped))
		if verbose {
			for _, s := range report.Skipped {
				fmt.Fprintf(w, "     line %d: %q\n", s.Line, s.Text)
			}
		}
	}
	return true
}

func checkSnapshot(path string) bool {
	w := stdout
	snap, err := export.ReadFile(path)
	if err != nil {
		var invalid *export.InvalidError
		if errors.As(err, &invalid) {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range invalid.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			return false
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if _, err := snap.ToTasks(); err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", len(snap.Tasks))
	return true
}
