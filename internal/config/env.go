package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvTaskFile      = "STUDYPLAN_FILE"
	EnvLogLevel      = "STUDYPLAN_LOG_LEVEL"
	EnvLogFormat     = "STUDYPLAN_LOG_FORMAT"
	EnvLogTimestamps = "STUDYPLAN_LOG_TIMESTAMPS"
	EnvLogCaller     = "STUDYPLAN_LOG_CALLER"
	EnvColor         = "STUDYPLAN_COLOR"
	EnvNoColor       = "NO_COLOR"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv(EnvTaskFile); v != "" {
		cfg.TaskFile = v
		cfg.setSource("task_file", SourceEnv)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.setSource("log_level", SourceEnv)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.setSource("log_format", SourceEnv)
	}
	if v := os.Getenv(EnvLogTimestamps); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		cfg.setSource("log_timestamps", SourceEnv)
	}
	if v := os.Getenv(EnvLogCaller); v != "" {
		cfg.LogCaller = boolFromString(v)
		cfg.setSource("log_caller", SourceEnv)
	}
	// https://no-color.org: any non-empty value disables color.
	if v := os.Getenv(EnvNoColor); v != "" {
		cfg.Color = false
		cfg.setSource("color", SourceEnv)
	}
	if v := os.Getenv(EnvColor); v != "" {
		cfg.Color = boolFromString(v)
		cfg.setSource("color", SourceEnv)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
