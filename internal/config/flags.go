package config

import (
	"flag"
)

// flagToField maps flag names to config field names for source tracking.
var flagToField = map[string]string{
	"file":           "task_file",
	"menu":           "menu",
	"autosave":       "autosave",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the config flags on fs and parses args.
// If sources is non-nil, explicitly set flags are recorded as SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	fs.StringVar(&cfg.TaskFile, "file", cfg.TaskFile, "Path to task file")
	fs.BoolVar(&cfg.Menu, "menu", cfg.Menu, "Use the numbered menu instead of word commands")
	fs.BoolVar(&cfg.Autosave, "autosave", cfg.Autosave, "Save after every change")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagToField[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
