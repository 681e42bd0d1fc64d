// Package loop runs the interactive add/list/complete/quit session.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

// Loop reads commands, applies them to a store and saves on exit.
type Loop struct {
	store    *todo.Store
	path     string
	logger   *log.Logger
	menu     bool
	autosave bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMenu shows the numbered menu before every prompt.
func WithMenu(enabled bool) Option {
	return func(l *Loop) {
		l.menu = enabled
	}
}

// WithAutosave saves after every add or complete.
func WithAutosave(enabled bool) Option {
	return func(l *Loop) {
		l.autosave = enabled
	}
}

// New creates a loop over store that saves to path.
func New(store *todo.Store, path string, opts ...Option) *Loop {
	l := &Loop{
		store:  store,
		path:   path,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the store the loop operates on.
func (l *Loop) Store() *todo.Store {
	return l.store
}

// Run reads lines from in until quit, end of input or ctx is cancelled, then
// saves the store. A failed save is reported on out and logged; it is not
// returned. Run returns ctx.Err() when cancelled, the read error when input
// could not be read, and nil otherwise.
func (l *Loop) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	fmt.Fprintln(out, msgWelcome)
	fmt.Fprintln(out, msgCommands)
	fmt.Fprintln(out)

	var runErr error
	for {
		if l.menu {
			fmt.Fprintln(out, msgMenu)
		}
		fmt.Fprint(out, msgPrompt)

		var quit bool
		line, err := next(ctx, lines)
		if err == nil {
			quit, err = l.handle(ctx, lines, line, out)
		}
		if err != nil {
			fmt.Fprintln(out)
			var readErr *inputError
			switch {
			case errors.As(err, &readErr):
				l.logger.Warn("could not read input", "err", readErr.err)
				fmt.Fprintf(out, fmtReadFailed, readErr.err)
				runErr = err
			case !errors.Is(err, io.EOF):
				runErr = err
			}
			break
		}
		if quit {
			break
		}
	}

	l.save(out)
	fmt.Fprintln(out, msgGoodbye)
	return runErr
}

// handle executes a single input line. It reports whether the user asked to
// quit. An error means input ended while a follow-up prompt was waiting.
func (l *Loop) handle(ctx context.Context, lines <-chan inputLine, line string, out io.Writer) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	// Add and Complete report their own errors on out.
	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "1":
		fmt.Fprint(out, msgAskDesc)
		desc, err := next(ctx, lines)
		if err != nil {
			return false, err
		}
		_ = l.Add(desc, out)
	case "add":
		_ = l.Add(arg, out)
	case "2", "list", "ls":
		l.List(out)
	case "3":
		fmt.Fprint(out, msgAskID)
		id, err := next(ctx, lines)
		if err != nil {
			return false, err
		}
		_ = l.Complete(id, out)
	case "complete", "done":
		_ = l.Complete(arg, out)
	case "4", "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(out, msgHelpCommands)
	default:
		fmt.Fprintln(out, msgUnknown)
	}
	return false, nil
}

// Add validates input and adds it as a new task. The returned error has
// already been reported on out.
func (l *Loop) Add(input string, out io.Writer) error {
	desc, err := todo.CleanDescription(input)
	if err != nil {
		fmt.Fprintln(out, descriptionMessage(err))
		return err
	}
	id := l.store.Add(desc)
	l.logger.Debug("added task", "id", id)
	fmt.Fprintf(out, fmtAdded, id)
	l.changed(out)
	return nil
}

// List prints every task, or a hint when there are none.
func (l *Loop) List(out io.Writer) {
	tasks := l.store.List()
	if len(tasks) == 0 {
		fmt.Fprintln(out, msgNoTasks)
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, msgTaskHeader)
	for _, t := range tasks {
		fmt.Fprintln(out, t.String())
	}
	fmt.Fprintln(out)
}

// Complete parses an id and marks that task done. The returned error has
// already been reported on out.
func (l *Loop) Complete(input string, out io.Writer) error {
	id, err := todo.ParseID(input)
	if err != nil {
		fmt.Fprintln(out, msgInvalidID)
		return err
	}
	if !l.store.Complete(id) {
		l.logger.Debug("complete: no such task", "id", id)
		fmt.Fprintf(out, fmtNotFound, id)
		return fmt.Errorf("task %d: %w", id, todo.ErrTaskNotFound)
	}
	l.logger.Debug("completed task", "id", id)
	fmt.Fprintf(out, fmtCompleted, id)
	l.changed(out)
	return nil
}

func (l *Loop) changed(out io.Writer) {
	if l.autosave {
		l.save(out)
	}
}

// save writes the store and reports, but does not return, failures.
func (l *Loop) save(out io.Writer) {
	if err := l.store.Save(l.path); err != nil {
		l.logger.Warn("could not save tasks", "path", l.path, "err", err)
		fmt.Fprintf(out, fmtSaveFailed, err)
		return
	}
	l.logger.Debug("saved tasks", "path", l.path, "count", l.store.Len())
}

func descriptionMessage(err error) string {
	if errors.Is(err, todo.ErrDelimiterInDescription) {
		return msgDelimInDesc
	}
	return msgEmptyDesc
}

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// inputError is a failure reading input, as opposed to its end.
type inputError struct {
	err error
}

func (e *inputError) Error() string {
	return fmt.Sprintf("reading input: %v", e.err)
}

func (e *inputError) Unwrap() error {
	return e.err
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds lines from r to the returned channel, closing it at end of
// input. A read failure is sent as the last item. The scanner runs on its own
// goroutine so a blocked read cannot hide cancellation; cancelling ctx
// releases it once the pending read returns.
func readLines(ctx context.Context, r io.Reader) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case ch <- inputLine{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case ch <- inputLine{err: &inputError{err: err}}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

// next returns the next input line, io.EOF at end of input, an *inputError
// when reading failed, or ctx.Err().
func next(ctx context.Context, lines <-chan inputLine) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in, ok := <-lines:
		if !ok {
			return "", io.EOF
		}
		return in.text, in.err
	}
}
