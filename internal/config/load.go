package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadWithSources loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasks/tasks.toml or OS-specific config dir)
// 3. Project config file (tasks.toml or .tasks.toml in current directory)
// 4. Environment variables
// 5. CLI flags
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	cfg, err := loadHelper(fs, args, sources)
	if err != nil {
		return nil, err
	}
	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// loadHelper fills a Config from every layer, recording sources when
// sources is non-nil.
func loadHelper(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes a TOML file over cfg. Keys present in the file are
// recorded in sources when tracking is enabled.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	cfg.Files = append(cfg.Files, path)

	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and resolves paths.
func finalizeConfig(cfg *Config) error {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	if strings.TrimSpace(cfg.TaskFile) == "" {
		cfg.TaskFile = DefaultTaskFile
	}
	cfg.TaskFile = expandPath(cfg.TaskFile)
	if !filepath.IsAbs(cfg.TaskFile) {
		cfg.TaskFile = filepath.Join(cfg.ProjectRoot, cfg.TaskFile)
	}

	return nil
}

// GetConfigFile returns the highest-priority config file that was read,
// or an empty string if none was.
func (cws *ConfigWithSources) GetConfigFile() string {
	if cws == nil || cws.Config == nil || len(cws.Config.Files) == 0 {
		return ""
	}
	return cws.Config.Files[len(cws.Config.Files)-1]
}

// expandPath expands a leading ~ and environment variables in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded != "~" && !strings.HasPrefix(expanded, "~/") && !strings.HasPrefix(expanded, `~\`) {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	return filepath.Join(home, expanded[2:])
}
