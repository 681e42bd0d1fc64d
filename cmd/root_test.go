// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// setup isolates config discovery and returns a working directory with no
// config files in it.
func setup(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		config.EnvTaskFile, config.EnvMenu, config.EnvAutosave,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvLogTimestamps, config.EnvLogCaller,
	} {
		t.Setenv(name, "")
	}

	wd := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
	return wd
}

type result struct {
	out    string
	errOut string
	err    error
}

func invoke(t *testing.T, input string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(input), &out, &errOut)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func mustInvoke(t *testing.T, args ...string) result {
	t.Helper()
	r := invoke(t, "", args...)
	if r.err != nil {
		t.Fatalf("tasks %v: %v\nstderr:\n%s", args, r.err, r.errOut)
	}
	return r
}

func readTasks(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	setup(t)

	t.Run("shows help with -help flag", func(t *testing.T) {
		r := mustInvoke(t, "-help")
		if !strings.Contains(r.out, "Commands:") {
			t.Errorf("expected usage, got:\n%s", r.out)
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		mustInvoke(t, "-h")
	})

	t.Run("shows help with help command", func(t *testing.T) {
		r := mustInvoke(t, "help")
		if !strings.Contains(r.out, "-file") {
			t.Errorf("expected global flags in usage, got:\n%s", r.out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, arg := range []string{"-version", "-v", "version"} {
			r := mustInvoke(t, arg)
			if r.out != "tasks version "+Version+"\n" {
				t.Errorf("%s: got %q", arg, r.out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		r := invoke(t, "", "unknown-command")
		if r.err == nil || !strings.Contains(r.err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", r.err)
		}
		if !strings.Contains(r.errOut, "Usage:") {
			t.Errorf("expected usage on stderr, got:\n%s", r.errOut)
		}
	})

	t.Run("bad flag returns error", func(t *testing.T) {
		if r := invoke(t, "", "-no-such-flag"); r.err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}

func TestOneShotCommands(t *testing.T) {
	wd := setup(t)
	path := filepath.Join(wd, "tasks.txt")

	r := mustInvoke(t, "add", "Buy", "milk")
	if !strings.Contains(r.out, "✅ Task 1 added!") {
		t.Errorf("add output: %q", r.out)
	}
	mustInvoke(t, "add", "Walk dog")
	r = mustInvoke(t, "complete", "1")
	if !strings.Contains(r.out, "🎉 Task 1 completed!") {
		t.Errorf("complete output: %q", r.out)
	}

	if got := readTasks(t, path); got != "1|Buy milk|true\n2|Walk dog|false\n" {
		t.Errorf("task file: got %q", got)
	}

	r = mustInvoke(t, "ls")
	for _, want := range []string{"[✓] 1. Buy milk", "[ ] 2. Walk dog"} {
		if !strings.Contains(r.out, want) {
			t.Errorf("ls missing %q:\n%s", want, r.out)
		}
	}
}

func TestOneShotErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "empty description", args: []string{"add", "  "}, wantErr: todo.ErrEmptyDescription},
		{name: "delimiter", args: []string{"add", "a|b"}, wantErr: todo.ErrDelimiterInDescription},
		{name: "invalid id", args: []string{"complete", "abc"}, wantErr: todo.ErrInvalidID},
		{name: "unknown id", args: []string{"done", "7"}, wantErr: todo.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wd := setup(t)
			r := invoke(t, "", tt.args...)
			if !errors.Is(r.err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", r.err, tt.wantErr)
			}
			if _, err := os.Stat(filepath.Join(wd, "tasks.txt")); !os.IsNotExist(err) {
				t.Errorf("task file written after failed command")
			}
		})
	}

	t.Run("usage errors", func(t *testing.T) {
		setup(t)
		for _, args := range [][]string{{"add"}, {"complete"}, {"complete", "1", "2"}, {"repl", "extra"}} {
			if r := invoke(t, "", args...); r.err == nil {
				t.Errorf("tasks %v: expected error", args)
			}
		}
	})
}

func TestLsStatusFilter(t *testing.T) {
	wd := setup(t)
	if err := os.WriteFile(filepath.Join(wd, "tasks.txt"), []byte("1|a|true\n2|b|false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"ls", "pending"}, want: "[ ] 2. b\n"},
		{args: []string{"ls", "-status", "done"}, want: "[✓] 1. a\n"},
		{args: []string{"list", "completed"}, want: "[✓] 1. a\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			r := mustInvoke(t, tt.args...)
			if diff := cmp.Diff(tt.want, r.out); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("no matches", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(wd, "tasks.txt"), []byte("1|a|true\n"), 0644); err != nil {
			t.Fatal(err)
		}
		r := mustInvoke(t, "ls", "pending")
		if r.out != "No pending tasks.\n" {
			t.Errorf("got %q", r.out)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		if r := invoke(t, "", "ls", "someday"); r.err == nil {
			t.Error("expected error for invalid status")
		}
	})
}

func TestReplDefaultCommand(t *testing.T) {
	wd := setup(t)

	r := invoke(t, "add first\nlist\nquit\n")
	if r.err != nil {
		t.Fatalf("repl: %v", r.err)
	}
	if !strings.Contains(r.out, "[ ] 1. first") {
		t.Errorf("expected listing:\n%s", r.out)
	}
	if got := readTasks(t, filepath.Join(wd, "tasks.txt")); got != "1|first|false\n" {
		t.Errorf("task file: got %q", got)
	}
}

func TestReplFlagsAndConfig(t *testing.T) {
	wd := setup(t)
	custom := filepath.Join(wd, "lists", "home.txt")

	r := invoke(t, "1\nfrom menu\n4\n", "-menu", "-file", custom)
	if r.err != nil {
		t.Fatalf("repl: %v", r.err)
	}
	if !strings.Contains(r.out, "1) Add task") {
		t.Errorf("menu not shown:\n%s", r.out)
	}
	if got := readTasks(t, custom); got != "1|from menu|false\n" {
		t.Errorf("task file: got %q", got)
	}

	if err := os.WriteFile(filepath.Join(wd, "tasks.toml"), []byte("task_file = \"work.txt\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mustInvoke(t, "add", "from config")
	if got := readTasks(t, filepath.Join(wd, "work.txt")); got != "1|from config|false\n" {
		t.Errorf("config task file: got %q", got)
	}
}

func TestUnreadableTaskFileIsNotOverwritten(t *testing.T) {
	readErr := errors.New("permission denied")
	orig := loadTasks
	loadTasks = func(string) (*todo.Store, todo.LoadResult, error) {
		return nil, todo.LoadResult{}, readErr
	}
	t.Cleanup(func() { loadTasks = orig })

	tests := []struct {
		args  []string
		input string
	}{
		{args: []string{"add", "new task"}},
		{args: []string{"complete", "1"}},
		{args: []string{"ls"}},
		{args: nil, input: "add new task\nquit\n"},
		{args: []string{"tui"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(append([]string{"tasks"}, tt.args...), " "), func(t *testing.T) {
			wd := setup(t)
			path := filepath.Join(wd, "tasks.txt")
			existing := "1|keep me|false\n2|and me|true\n"
			if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
				t.Fatal(err)
			}

			r := invoke(t, tt.input, tt.args...)
			if !errors.Is(r.err, readErr) {
				t.Errorf("error: got %v, want the read error", r.err)
			}
			if got := readTasks(t, path); got != existing {
				t.Errorf("task file changed: got %q", got)
			}
		})
	}
}

func TestUnreadableTaskFilePath(t *testing.T) {
	wd := setup(t)
	// A directory where the task file should be cannot be read.
	if err := os.Mkdir(filepath.Join(wd, "tasks.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	r := invoke(t, "list\nquit\n")
	if r.err == nil || !strings.Contains(r.err.Error(), "loading tasks") {
		t.Errorf("expected load error, got %v", r.err)
	}
	if strings.Contains(r.out, "Welcome") {
		t.Errorf("session started despite load error:\n%s", r.out)
	}
}

func TestReplCancelled(t *testing.T) {
	setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	err := run(ctx, nil, strings.NewReader(""), &out, &errOut)
	// Either the cancellation or the end of input may be seen first.
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want nil or context.Canceled", err)
	}
}

func TestDoctor(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setup(t)
		r := mustInvoke(t, "doctor")
		for _, want := range []string{
			"(none, using defaults)",
			"task_file:",
			"(default)",
			"Not created yet",
			"All checks passed.",
		} {
			if !strings.Contains(r.out, want) {
				t.Errorf("doctor output missing %q:\n%s", want, r.out)
			}
		}
	})

	t.Run("reports tasks and skipped lines", func(t *testing.T) {
		wd := setup(t)
		data := "1|a|true\n2|b|false\ngarbage\n3|c\n"
		if err := os.WriteFile(filepath.Join(wd, "tasks.txt"), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		r := mustInvoke(t, "doctor")
		for _, want := range []string{"2 tasks (1 completed)", "2 malformed lines"} {
			if !strings.Contains(r.out, want) {
				t.Errorf("doctor output missing %q:\n%s", want, r.out)
			}
		}
	})

	t.Run("flags sources", func(t *testing.T) {
		setup(t)
		t.Setenv(config.EnvLogLevel, "warn")
		r := mustInvoke(t, "-menu", "doctor")
		if !strings.Contains(r.out, "true (flag)") {
			t.Errorf("expected flag source:\n%s", r.out)
		}
		if !strings.Contains(r.out, "warn (environment)") {
			t.Errorf("expected environment source:\n%s", r.out)
		}
	})

	t.Run("invalid config fails", func(t *testing.T) {
		wd := setup(t)
		if err := os.WriteFile(filepath.Join(wd, "tasks.toml"), []byte("colour = \"blue\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		r := invoke(t, "", "doctor")
		if r.err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(r.out, "❌") || !strings.Contains(r.out, "tasks.toml") {
			t.Errorf("expected config error in output:\n%s", r.out)
		}
	})

	t.Run("unreadable task file fails", func(t *testing.T) {
		wd := setup(t)
		if err := os.Mkdir(filepath.Join(wd, "tasks.txt"), 0755); err != nil {
			t.Fatal(err)
		}
		if r := invoke(t, "", "doctor"); r.err == nil {
			t.Error("expected doctor to fail")
		}
	})
}

func TestInitCommand(t *testing.T) {
	t.Run("creates files", func(t *testing.T) {
		wd := setup(t)
		r := mustInvoke(t, "init")

		data, err := os.ReadFile(filepath.Join(wd, config.ProjectConfigFile))
		if err != nil {
			t.Fatalf("config not written: %v", err)
		}
		if string(data) != config.ExampleConfig() {
			t.Error("config file does not match example config")
		}
		if got := readTasks(t, filepath.Join(wd, "tasks.txt")); got != "" {
			t.Errorf("task file: got %q, want empty", got)
		}
		if strings.Count(r.out, "Created") != 2 {
			t.Errorf("expected two created files:\n%s", r.out)
		}

		// The written config is picked up and passes doctor.
		r = mustInvoke(t, "doctor")
		if !strings.Contains(r.out, "Active: tasks.toml") {
			t.Errorf("doctor did not report the new config:\n%s", r.out)
		}
	})

	t.Run("keeps existing files", func(t *testing.T) {
		wd := setup(t)
		path := filepath.Join(wd, "tasks.txt")
		if err := os.WriteFile(path, []byte("1|existing|false\n"), 0644); err != nil {
			t.Fatal(err)
		}

		r := mustInvoke(t, "init", "-skip-config")
		if got := readTasks(t, path); got != "1|existing|false\n" {
			t.Errorf("task file overwritten without -force: %q", got)
		}
		if !strings.Contains(r.out, "Skipped") {
			t.Errorf("expected skip notice:\n%s", r.out)
		}
		if _, err := os.Stat(filepath.Join(wd, config.ProjectConfigFile)); !os.IsNotExist(err) {
			t.Error("config written despite -skip-config")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		wd := setup(t)
		path := filepath.Join(wd, "tasks.txt")
		if err := os.WriteFile(path, []byte("1|existing|false\n"), 0644); err != nil {
			t.Fatal(err)
		}
		mustInvoke(t, "init", "-force", "-skip-config")
		if got := readTasks(t, path); got != "" {
			t.Errorf("task file: got %q, want empty", got)
		}
	})

	t.Run("rejects arguments", func(t *testing.T) {
		setup(t)
		if r := invoke(t, "", "init", "extra"); r.err == nil {
			t.Error("expected error for extra argument")
		}
	})
}

func TestExitCode(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		want     int
		wantText string
	}{
		{name: "success", ctx: context.Background(), want: 0},
		{name: "error", ctx: context.Background(), err: errors.New("boom"), want: 1, wantText: "Error: boom"},
		{name: "interrupted", ctx: cancelled, err: context.Canceled, want: 130, wantText: "Interrupted"},
		{name: "interrupted after clean return", ctx: cancelled, want: 130, wantText: "Interrupted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errOut bytes.Buffer
			if got := ExitCode(tt.ctx, tt.err, &errOut); got != tt.want {
				t.Errorf("ExitCode: got %d, want %d", got, tt.want)
			}
			if tt.wantText == "" && errOut.Len() != 0 {
				t.Errorf("unexpected output %q", errOut.String())
			}
			if !strings.Contains(errOut.String(), tt.wantText) {
				t.Errorf("output %q missing %q", errOut.String(), tt.wantText)
			}
		})
	}
}

func TestTUIRequiresTerminal(t *testing.T) {
	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	setup(t)
	r := invoke(t, "", "tui")
	if r.err == nil || !strings.Contains(r.err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", r.err)
	}
}
