// Package todo holds the in-memory task list and its on-disk encoding.
package todo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Delimiter separates the fields of a task line.
const Delimiter = "|"

// Task represents a single task in the todo list.
type Task struct {
	ID          int
	Description string
	Completed   bool
}

// String renders the task the way the CLI lists it, e.g. "[✓] 1. Buy milk".
func (t Task) String() string {
	status := " "
	if t.Completed {
		status = "✓"
	}
	return fmt.Sprintf("[%s] %d. %s", status, t.ID, t.Description)
}

// Store owns the ordered task list and the id counter.
// The zero value is not ready for use; call NewStore.
type Store struct {
	tasks  []Task
	nextID int
}

// NewStore returns an empty store whose first id is 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add appends a new open task and returns its id.
// The description is stored as given; callers reject empty text.
func (s *Store) Add(description string) int {
	id := s.nextID
	s.tasks = append(s.tasks, Task{ID: id, Description: description})
	s.nextID++
	return id
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the id the next Add will assign.
func (s *Store) NextID() int {
	return s.nextID
}

// Complete marks the task with the given id as done.
// It reports false, leaving the store untouched, when no such task exists.
func (s *Store) Complete(id int) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = true
			return true
		}
	}
	return false
}

// Serialize encodes the tasks as newline-terminated "id|description|completed" lines.
func (s *Store) Serialize() string {
	var b strings.Builder
	for _, t := range s.tasks {
		b.WriteString(strconv.Itoa(t.ID))
		b.WriteString(Delimiter)
		b.WriteString(t.Description)
		b.WriteString(Delimiter)
		b.WriteString(strconv.FormatBool(t.Completed))
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseResult describes the outcome of Deserialize.
type ParseResult struct {
	Loaded  int // lines turned into tasks
	Skipped int // malformed or duplicate-id lines
}

// Deserialize replaces the store contents with the tasks encoded in text.
func (s *Store) Deserialize(text string) ParseResult {
	var result ParseResult
	s.tasks = nil
	maxID := 0
	seen := make(map[int]bool)

	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for _, line := range lines {
		task, ok := parseLine(strings.TrimSuffix(line, "\r"))
		if !ok || seen[task.ID] {
			result.Skipped++
			continue
		}
		seen[task.ID] = true
		s.tasks = append(s.tasks, task)
		if task.ID > maxID {
			maxID = task.ID
		}
		result.Loaded++
	}

	s.nextID = maxID + 1
	return result
}

// maxTaskID is the largest id accepted from a file, leaving room for the
// ids Add hands out after it on every platform.
const maxTaskID = math.MaxInt32 - 1

// parseLine decodes a single task line.
func parseLine(line string) (Task, bool) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != 3 {
		return Task{}, false
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 0 || id > maxTaskID {
		return Task{}, false
	}
	return Task{
		ID:          id,
		Description: fields[1],
		Completed:   fields[2] == "true",
	}, true
}
