// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/loop"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// loadTasks reads the task file; tests replace it to inject failures.
var loadTasks = todo.Load

// ExitCode reports err on errOut and returns the process exit status:
// 130 when ctx was cancelled, 1 for any other error, 0 otherwise.
func ExitCode(ctx context.Context, err error, errOut io.Writer) int {
	if ctx.Err() != nil {
		fmt.Fprintf(errOut, "\nInterrupted\n")
		return 130
	}
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app carries the streams and resolved configuration for one invocation.
type app struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	cfg        *config.Config
	sources    map[string]config.ConfigSource
	configFile string
	logger     *log.Logger
}

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a := &app{
		in:         in,
		out:        out,
		errOut:     errOut,
		cfg:        cws.Config,
		sources:    cws.Sources,
		configFile: cws.GetConfigFile(),
		logger:     logging.New(errOut, logging.OptionsFromConfig(cws.Config)),
	}

	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	// No args, or a leading flag, means the interactive loop.
	subcommand := "repl"
	remaining := fs.Args()
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "repl":
		return a.replCommand(ctx, remaining)
	case "add":
		return a.addCommand(remaining)
	case "ls", "list":
		return a.lsCommand(remaining)
	case "complete", "done":
		return a.completeCommand(remaining)
	case "tui":
		return a.tuiCommand(ctx, remaining)
	case "init":
		return a.initCommand(remaining)
	case "doctor":
		return a.doctorCommand(remaining)
	case "completion":
		return a.completionCommand(remaining)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, out)
		return nil
	default:
		fmt.Fprintf(errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// loadStore reads the configured task file. A missing file gives an empty
// store; a file that exists but cannot be read is an error, since saving over
// it would lose its tasks.
func (a *app) loadStore() (*todo.Store, error) {
	path := a.cfg.TaskFile
	store, result, err := loadTasks(path)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	a.logger.Debug("loaded tasks",
		"path", path,
		"loaded", result.Loaded,
		"skipped", result.Skipped,
		"missing", result.Missing,
	)
	return store, nil
}

// replCommand runs the interactive loop.
func (a *app) replCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	store, err := a.loadStore()
	if err != nil {
		return err
	}
	l := loop.New(store, a.cfg.TaskFile,
		loop.WithLogger(a.logger),
		loop.WithMenu(a.cfg.Menu),
		loop.WithAutosave(a.cfg.Autosave),
	)
	return l.Run(ctx, a.in, a.out)
}

// addCommand adds one task and saves.
func (a *app) addCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tasks add <description>")
	}

	store, err := a.loadStore()
	if err != nil {
		return err
	}
	l := loop.New(store, a.cfg.TaskFile, loop.WithLogger(a.logger))
	if err := l.Add(strings.Join(args, " "), a.out); err != nil {
		return err
	}
	return a.save(l.Store())
}

// completeCommand marks one task done and saves.
func (a *app) completeCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks complete <id>")
	}

	store, err := a.loadStore()
	if err != nil {
		return err
	}
	l := loop.New(store, a.cfg.TaskFile, loop.WithLogger(a.logger))
	if err := l.Complete(args[0], a.out); err != nil {
		return err
	}
	return a.save(l.Store())
}

func (a *app) save(store *todo.Store) error {
	if err := store.Save(a.cfg.TaskFile); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	a.logger.Debug("saved tasks", "path", a.cfg.TaskFile, "count", store.Len())
	return nil
}

// lsCommand prints tasks, optionally filtered by status.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("tasks ls", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	status := fs.String("status", "all", "Filter by status (all|pending|done)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		*status = remaining[0]
	}

	store, err := a.loadStore()
	if err != nil {
		return err
	}
	switch strings.ToLower(*status) {
	case "all", "":
		loop.New(store, a.cfg.TaskFile).List(a.out)
		return nil
	case "pending", "todo":
		printTasks(a.out, store.List(), false, "pending")
		return nil
	case "done", "completed":
		printTasks(a.out, store.List(), true, "completed")
		return nil
	default:
		return fmt.Errorf("invalid status %q (expected all|pending|done)", *status)
	}
}

func printTasks(w io.Writer, tasks []todo.Task, completed bool, label string) {
	n := 0
	for _, t := range tasks {
		if t.Completed != completed {
			continue
		}
		fmt.Fprintln(w, t.String())
		n++
	}
	if n == 0 {
		fmt.Fprintf(w, "No %s tasks.\n", label)
	}
}

// tuiCommand launches the terminal UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	store, err := a.loadStore()
	if err != nil {
		return err
	}
	err = ui.Run(ctx, store, a.cfg.TaskFile, a.logger)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return ctx.Err()
}

// initCommand writes a sample config file and an empty task file into the
// project root. Existing files are kept unless -force is given.
func (a *app) initCommand(args []string) error {
	fs := flag.NewFlagSet("tasks init", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	force := fs.Bool("force", false, "Overwrite existing files")
	skipConfig := fs.Bool("skip-config", false, "Do not write tasks.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !*skipConfig {
		path := filepath.Join(a.cfg.ProjectRoot, config.ProjectConfigFile)
		if err := a.writeIfAbsent(path, *force, func() error {
			return os.WriteFile(path, []byte(config.ExampleConfig()), 0644)
		}); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	path := a.cfg.TaskFile
	return a.writeIfAbsent(path, *force, func() error {
		return todo.NewStore().Save(path)
	})
}

func (a *app) writeIfAbsent(path string, force bool, write func() error) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(a.out, "Skipped %s (exists, use -force to overwrite)\n", path)
		return nil
	}
	if err := write(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", path)
	return nil
}

func (a *app) versionCommand() error {
	fmt.Fprintf(a.out, "tasks version %s\n", Version)
	return nil
}

// doctorCommand reports the resolved configuration, validates config files
// against the schema and checks that the task file can be read.
func (a *app) doctorCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	w := a.out

	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if a.configFile == "" {
		fmt.Fprintln(w, "  File: (none, using defaults)")
	} else {
		fmt.Fprintf(w, "  Active: %s\n", a.configFile)
	}
	for _, path := range a.cfg.Files {
		fmt.Fprintf(w, "  File: %s\n", path)
		result := config.ValidateFile(path)
		if result.Valid {
			fmt.Fprintln(w, "    ✅ Valid")
			continue
		}
		allOK = false
		for _, err := range result.Errors {
			fmt.Fprintf(w, "    ❌ %v\n", err)
		}
	}
	for _, v := range a.configValues() {
		fmt.Fprintf(w, "  %-15s %s (%s)\n", v.name+":", v.value, a.sources[v.name])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Task file: %s\n", a.cfg.TaskFile)
	store, result, err := loadTasks(a.cfg.TaskFile)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case result.Missing:
		fmt.Fprintln(w, "  ✅ Not created yet (saved on first exit)")
	default:
		completed := 0
		for _, t := range store.List() {
			if t.Completed {
				completed++
			}
		}
		fmt.Fprintf(w, "  ✅ %d tasks (%d completed)\n", result.Loaded, completed)
		if result.Skipped > 0 {
			fmt.Fprintf(w, "  ⚠️  %d malformed lines will be dropped on next save\n", result.Skipped)
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "All checks passed.")
		return nil
	}
	return errors.New("doctor checks failed")
}

type configValue struct {
	name  string
	value string
}

func (a *app) configValues() []configValue {
	cfg := a.cfg
	return []configValue{
		{"task_file", cfg.TaskFile},
		{"menu", strconv.FormatBool(cfg.Menu)},
		{"autosave", strconv.FormatBool(cfg.Autosave)},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", strconv.FormatBool(cfg.LogTimestamps)},
		{"log_caller", strconv.FormatBool(cfg.LogCaller)},
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - a minimal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  repl               Interactive session (default command)")
	fmt.Fprintln(w, "  add <text>         Add a task")
	fmt.Fprintln(w, "  ls [status]        List tasks (all|pending|done)")
	fmt.Fprintln(w, "  complete <id>      Mark a task as completed")
	fmt.Fprintln(w, "  tui                Launch terminal UI")
	fmt.Fprintln(w, "  init               Write a sample tasks.toml and an empty task file")
	fmt.Fprintln(w, "  doctor             Check config and task file")
	fmt.Fprintln(w, "  completion <shell> Print a shell completion script")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config files: ~/.tasks/tasks.toml, then tasks.toml or .tasks.toml")
	fmt.Fprintln(w, "in the current directory. Environment: TASKS_FILE, TASKS_MENU,")
	fmt.Fprintln(w, "TASKS_AUTOSAVE, TASKS_LOG_LEVEL, TASKS_LOG_FORMAT.")
}
