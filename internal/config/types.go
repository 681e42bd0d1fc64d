// Package config handles configuration loading and defaults.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultTaskFile  = "tasks.txt"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Path to the pipe-delimited task file
	TaskFile string `toml:"task_file"`

	// Interactive loop
	Menu     bool `toml:"menu"`     // numbered menu instead of word commands
	Autosave bool `toml:"autosave"` // save after every change, not only on exit

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Computed
	ProjectRoot string   `toml:"-"`
	Files       []string `toml:"-"` // config files that were read, lowest priority first
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"task_file",
		"menu",
		"autosave",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.Menu = false
	cfg.Autosave = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}
