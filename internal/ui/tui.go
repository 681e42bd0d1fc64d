// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Run starts the TUI over store and saves to path when it exits.
func Run(ctx context.Context, store *todo.Store, path string, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := NewModel(store, WithLogger(logger))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	if err := store.Save(path); err != nil {
		return errors.Join(runErr, fmt.Errorf("saving tasks: %w", err))
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeAdd
)

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Model is the bubbletea model for the task list.
type Model struct {
	store    *todo.Store
	logger   *log.Logger
	cursor   int
	mode     mode
	input    textinput.Model
	status   string
	isError  bool
	showHelp bool
}

// NewModel creates a model over store.
func NewModel(store *todo.Store, opts ...ModelOption) *Model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "New task: "
	input.CharLimit = 256

	m := &Model{
		store:  store,
		logger: logging.Discard(),
		input:  input,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeAdd {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.mode == modeAdd {
		return m.updateAdd(key)
	}
	return m.updateList(key)
}

func (m *Model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case "enter", " ", "space", "x":
		m.completeSelected()
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		m.status = ""
		return m, m.input.Focus()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) updateAdd(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.leaveAdd()
		return m, nil
	case "enter":
		desc, err := todo.CleanDescription(m.input.Value())
		if err != nil {
			m.setStatus(capitalize(err.Error()), true)
			return m, nil
		}
		id := m.store.Add(desc)
		m.logger.Debug("added task", "id", id)
		m.cursor = m.store.Len() - 1
		m.leaveAdd()
		m.setStatus(fmt.Sprintf("Task %d added", id), false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *Model) leaveAdd() {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) completeSelected() {
	tasks := m.store.List()
	if len(tasks) == 0 {
		return
	}
	t := tasks[m.cursor]
	if t.Completed {
		m.setStatus(fmt.Sprintf("Task %d is already done", t.ID), false)
		return
	}
	if !m.store.Complete(t.ID) {
		m.setStatus(fmt.Sprintf("Task %d not found", t.ID), true)
		return
	}
	m.logger.Debug("completed task", "id", t.ID)
	m.setStatus(fmt.Sprintf("Task %d completed", t.ID), false)
}

func (m *Model) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Tasks"))
	b.WriteString("\n\n")

	tasks := m.store.List()
	if len(tasks) == 0 {
		b.WriteString("  No tasks yet. Press a to add one.\n")
	}
	for i, t := range tasks {
		line := t.String()
		if t.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if m.status != "" {
		style := okStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n\n")
	}

	if m.showHelp {
		writeHelp(&b)
	}
	b.WriteString(helpStyle.Render(footer(m.mode)))
	b.WriteString("\n")
	return b.String()
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  ↑/k, ↓/j          Move\n")
	b.WriteString("  enter, space, x   Complete selected task\n")
	b.WriteString("  a                 Add a task\n")
	b.WriteString("  esc               Cancel adding\n")
	b.WriteString("  h, ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c         Save and quit\n\n")
}

func footer(m mode) string {
	if m == modeAdd {
		return "enter to add | esc to cancel"
	}
	return "a add | enter complete | h help | q save and quit"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
