package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Task file (relative to the working directory, supports ~ and $VAR)
task_file = "tasks.txt"

# Show a numbered menu instead of add/list/complete/quit commands
menu = false

# Save after every add or complete, not only on exit
autosave = false

# Logging: level is debug, info, warn or error; format is text, json or logfmt
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
