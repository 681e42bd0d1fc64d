package todo

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrEmptyDescription is returned for blank task text.
	ErrEmptyDescription = errors.New("task description cannot be empty")
	// ErrDelimiterInDescription is returned for text that would break the file format.
	ErrDelimiterInDescription = errors.New("task description cannot contain '" + Delimiter + "'")
	// ErrInvalidID is returned when a task id is not a non-negative integer.
	ErrInvalidID = errors.New("invalid task ID")
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
)

// CleanDescription trims user input and checks it can be stored and saved.
// The store itself accepts any text; front-ends call this first.
func CleanDescription(input string) (string, error) {
	desc := strings.TrimSpace(input)
	if desc == "" {
		return "", ErrEmptyDescription
	}
	if strings.Contains(desc, Delimiter) || strings.ContainsAny(desc, "\r\n") {
		return "", ErrDelimiterInDescription
	}
	return desc, nil
}

// ParseID parses a task id typed by the user.
func ParseID(input string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || id < 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
