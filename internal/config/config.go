package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultTaskFile  = "tasks.csv"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultColor     = true
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Config holds the full configuration for studyplan.
type Config struct {
	// Paths
	TaskFile string `toml:"task_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Output
	Color bool `toml:"color"`

	// Working directory (computed)
	WorkDir string `toml:"-"`

	// ConfigFiles lists the config files that were read, in load order.
	ConfigFiles []string `toml:"-"`

	// Sources records where each key's final value came from.
	Sources map[string]ConfigSource `toml:"-"`
}

// fileConfig mirrors Config with pointer fields so a file can override a
// value with its zero value.
type fileConfig struct {
	TaskFile      *string `toml:"task_file"`
	LogLevel      *string `toml:"log_level"`
	LogFormat     *string `toml:"log_format"`
	LogTimestamps *bool   `toml:"log_timestamps"`
	LogCaller     *bool   `toml:"log_caller"`
	Color         *bool   `toml:"color"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file, or the file named by --config
// 4. Environment variables
// 5. CLI flags that were explicitly set on fs
//
// fs may be nil, in which case no flags are applied.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Project config file, unless one was named explicitly
	projectConfigFile := findProjectConfigFile()
	if explicit := flagString(fs, FlagConfig); explicit != "" {
		projectConfigFile = expandPath(explicit)
		if _, err := os.Stat(projectConfigFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Apply CLI flags (they override everything)
	if err := applyFlags(cfg, fs); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.Color = DefaultColor

	cfg.Sources = make(map[string]ConfigSource)
	for _, key := range configKeys() {
		cfg.Sources[key] = SourceDefault
	}
}

// configKeys returns the configurable keys for source tracking.
func configKeys() []string {
	return []string{
		"task_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"color",
	}
}

// loadConfigFile decodes the TOML file at path over cfg.
func loadConfigFile(cfg *Config, path string, source ConfigSource) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	setFromFile(cfg, &cfg.TaskFile, fc.TaskFile, "task_file", source)
	setFromFile(cfg, &cfg.LogLevel, fc.LogLevel, "log_level", source)
	setFromFile(cfg, &cfg.LogFormat, fc.LogFormat, "log_format", source)
	setFromFile(cfg, &cfg.LogTimestamps, fc.LogTimestamps, "log_timestamps", source)
	setFromFile(cfg, &cfg.LogCaller, fc.LogCaller, "log_caller", source)
	setFromFile(cfg, &cfg.Color, fc.Color, "color", source)

	cfg.ConfigFiles = append(cfg.ConfigFiles, path)
	return nil
}

func setFromFile[T any](cfg *Config, field *T, value *T, key string, source ConfigSource) {
	if value == nil {
		return
	}
	*field = *value
	cfg.setSource(key, source)
}

func (c *Config) setSource(key string, source ConfigSource) {
	if c.Sources == nil {
		c.Sources = make(map[string]ConfigSource)
	}
	c.Sources[key] = source
}

// finalizeConfig computes derived values and resolves paths.
func finalizeConfig(cfg *Config) error {
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if cfg.TaskFile == "" {
		cfg.TaskFile = DefaultTaskFile
	}
	cfg.TaskFile = expandPath(cfg.TaskFile)
	if !filepath.IsAbs(cfg.TaskFile) {
		cfg.TaskFile = filepath.Join(cfg.WorkDir, cfg.TaskFile)
	}

	return nil
}
