// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nullus/todo/internal/config"
	"github.com/nullus/todo/internal/logging"
	"github.com/nullus/todo/internal/render"
	"github.com/nullus/todo/internal/store"
	"github.com/nullus/todo/internal/task"
	"github.com/nullus/todo/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// modeFlags groups the mutually exclusive command flags; exactly one
// may be set per invocation, and none at all means a plain listing.
type modeFlags struct {
	list     bool
	add      bool
	pin      bool
	done     bool
	schedule bool
	deadline bool
	prune    bool
	dump     bool
	tui      bool
}

func (m modeFlags) count() int {
	n := 0
	for _, set := range []bool{m.list, m.add, m.pin, m.done, m.schedule, m.deadline, m.prune, m.dump, m.tui} {
		if set {
			n++
		}
	}
	return n
}

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}

	var modes modeFlags
	fs.BoolVar(&modes.list, "l", false, "List active tasks matching a regex; all if omitted")
	fs.BoolVar(&modes.list, "list", false, "List active tasks matching a regex; all if omitted")
	fs.BoolVar(&modes.add, "a", false, "Add task(s)")
	fs.BoolVar(&modes.add, "add", false, "Add task(s)")
	fs.BoolVar(&modes.pin, "p", false, "Toggle pin on task(s)")
	fs.BoolVar(&modes.pin, "pin", false, "Toggle pin on task(s)")
	fs.BoolVar(&modes.done, "d", false, "Toggle done on task(s)")
	fs.BoolVar(&modes.done, "done", false, "Toggle done on task(s)")
	fs.BoolVar(&modes.schedule, "s", false, "Schedule task(s) to a DATE (YYYY-MM-DD)")
	fs.BoolVar(&modes.schedule, "schedule", false, "Schedule task(s) to a DATE (YYYY-MM-DD)")
	fs.BoolVar(&modes.deadline, "deadline", false, "Give task(s) a deadline DATE (YYYY-MM-DD)")
	fs.BoolVar(&modes.prune, "prune", false, "Hide done task(s) and reassign task ids")
	fs.BoolVar(&modes.dump, "dump", false, "Show the full collection, hidden tasks included")
	fs.BoolVar(&modes.tui, "tui", false, "Browse tasks interactively")

	file := fs.String("file", "", "Tasks file (overrides config)")
	plain := fs.Bool("plain", false, "Disable table styling")
	verbose := fs.Bool("verbose", false, "Debug logging")
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		fmt.Printf("todo %s %s/%s\n", Version, runtime.GOOS, runtime.GOARCH)
		return nil
	}

	if n := modes.count(); n > 1 {
		return fmt.Errorf("flags -l, -a, -p, -d, -s, --deadline, --prune, --dump, and --tui are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *file != "" {
		cfg.TasksFile = *file
	}
	if *plain {
		cfg.Plain = true
	}

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	if *verbose {
		opts.Level = log.DebugLevel
	}
	logger := logging.New(os.Stderr, opts)
	logger.Debug("using tasks file", "path", cfg.TasksFile)

	st := task.NewStore(store.NewCSV(cfg.TasksFile))
	table := render.Table{Plain: cfg.Plain}
	operands := fs.Args()

	switch {
	case modes.add:
		if len(operands) == 0 {
			return fmt.Errorf("-a requires at least one task description")
		}
		for _, desc := range operands {
			if err := st.Add(desc); err != nil {
				return err
			}
			logger.Debug("added task", "desc", desc)
		}
		return nil

	case modes.pin:
		ids, err := parseIDs(operands, "-p")
		if err != nil {
			return err
		}
		return st.TogglePin(ids)

	case modes.done:
		ids, err := parseIDs(operands, "-d")
		if err != nil {
			return err
		}
		return st.ToggleDone(ids)

	case modes.schedule:
		date, ids, err := parseDateAndIDs(operands, "-s")
		if err != nil {
			return err
		}
		return st.Schedule(date, ids)

	case modes.deadline:
		date, ids, err := parseDateAndIDs(operands, "--deadline")
		if err != nil {
			return err
		}
		return st.SetDeadline(date, ids)

	case modes.prune:
		if len(operands) > 0 {
			return fmt.Errorf("unexpected arguments: %v", operands)
		}
		return st.Prune()

	case modes.dump:
		if len(operands) > 0 {
			return fmt.Errorf("unexpected arguments: %v", operands)
		}
		l, err := st.Dump()
		if err != nil {
			return err
		}
		table.Dump(os.Stdout, l)
		return nil

	case modes.tui:
		if len(operands) > 0 {
			return fmt.Errorf("unexpected arguments: %v", operands)
		}
		return ui.Run(ctx, st)

	case modes.list:
		pattern := ""
		if len(operands) > 0 {
			pattern = operands[0]
			if len(operands) > 1 {
				return fmt.Errorf("unexpected arguments: %v", operands[1:])
			}
		}
		return listTasks(st, table, pattern)

	default:
		if len(operands) > 0 {
			return fmt.Errorf("unexpected arguments: %v", operands)
		}
		return listTasks(st, table, "")
	}
}

func listTasks(st *task.Store, table render.Table, pattern string) error {
	l, err := st.Listing(pattern)
	if err != nil {
		return err
	}
	table.Listing(os.Stdout, l)
	return nil
}

// parseIDs converts operands to task ids; at least one is required.
func parseIDs(operands []string, flagName string) ([]int, error) {
	if len(operands) == 0 {
		return nil, fmt.Errorf("%s requires at least one task id", flagName)
	}
	ids := make([]int, 0, len(operands))
	for _, arg := range operands {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid task id %q", flagName, arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDateAndIDs splits operands into a leading YYYY-MM-DD date and
// one or more task ids.
func parseDateAndIDs(operands []string, flagName string) (date time.Time, ids []int, err error) {
	if len(operands) < 2 {
		return date, nil, fmt.Errorf("%s requires a DATE and at least one task id", flagName)
	}
	date, err = task.ParseDate(operands[0])
	if err != nil {
		return date, nil, fmt.Errorf("%s: invalid date %q (want YYYY-MM-DD)", flagName, operands[0])
	}
	ids, err = parseIDs(operands[1:], flagName)
	return date, ids, err
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `todo - flag-driven personal task list

Usage:
  todo                         List active tasks
  todo -l [REGEX]              List active tasks matching REGEX
  todo -a TASK [TASK...]       Add task(s)
  todo -p ID [ID...]           Toggle pin on task(s)
  todo -d ID [ID...]           Toggle done on task(s)
  todo -s DATE ID [ID...]      Schedule task(s) to DATE (YYYY-MM-DD)
  todo --deadline DATE ID...   Give task(s) a deadline (YYYY-MM-DD)
  todo --prune                 Hide done task(s) and reassign task ids
  todo --dump                  Show the full collection, hidden tasks included
  todo --tui                   Browse tasks interactively

Ids are reassigned whenever a task is added or done tasks are pruned,
so take them from a fresh listing.

Options:
  --file PATH     Tasks file (default %s, env TODO_FILE)
  --plain         Disable table styling
  --verbose       Debug logging
  -h, --help      Show help
  --version       Show version
`, config.DefaultTasksFile)
}
