// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultTasksFile = "~/data/task.csv"
	DefaultLogLevel  = "warn"
)

// Config holds the runtime configuration for todo.
type Config struct {
	// TasksFile is the path of the CSV backing file.
	TasksFile string `toml:"tasks_file"`

	// LogLevel is the console log level (debug|info|warn|error).
	LogLevel string `toml:"log_level"`

	// Plain disables table styling.
	Plain bool `toml:"plain"`
}

// Load builds the configuration from sources in priority order:
// defaults, then a TOML config file, then environment variables.
// CLI flags override individual fields afterwards.
func Load() (*Config, error) {
	cfg := &Config{
		TasksFile: DefaultTasksFile,
		LogLevel:  DefaultLogLevel,
	}

	if path := findConfigFile(); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	cfg.TasksFile = expandPath(cfg.TasksFile)
	return cfg, nil
}

// findConfigFile looks for a config file in the current directory,
// then under the user config directory.
func findConfigFile() string {
	for _, name := range []string{"todo.toml", ".todo.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "todo", "todo.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.TasksFile = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_PLAIN"); v != "" {
		cfg.Plain = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	if p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return home
	}
	return p
}
