package config

import (
	"os"

	"github.com/nibzard/tasks-go/internal/utils"
)

// Environment variables read by loadFromEnv.
const (
	EnvTaskFile      = "TASKS_FILE"
	EnvMenu          = "TASKS_MENU"
	EnvAutosave      = "TASKS_AUTOSAVE"
	EnvLogLevel      = "TASKS_LOG_LEVEL"
	EnvLogFormat     = "TASKS_LOG_FORMAT"
	EnvLogTimestamps = "TASKS_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKS_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(EnvTaskFile); v != "" {
		cfg.TaskFile = v
		mark("task_file")
	}
	if v := os.Getenv(EnvMenu); v != "" {
		cfg.Menu = utils.BoolFromString(v)
		mark("menu")
	}
	if v := os.Getenv(EnvAutosave); v != "" {
		cfg.Autosave = utils.BoolFromString(v)
		mark("autosave")
	}

	// Logging configuration
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv(EnvLogTimestamps); v != "" {
		cfg.LogTimestamps = utils.BoolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv(EnvLogCaller); v != "" {
		cfg.LogCaller = utils.BoolFromString(v)
		mark("log_caller")
	}
}
