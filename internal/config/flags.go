package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by all commands.
const (
	FlagConfig        = "config"
	FlagFile          = "file"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
	FlagLogTimestamps = "log-timestamps"
	FlagLogCaller     = "log-caller"
	FlagNoColor       = "no-color"
)

// BindFlags defines the configuration flags on fs. Flag defaults are the
// built-in defaults; only flags the user sets override other sources.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to a config file (replaces ./studyplan.toml)")
	fs.StringP(FlagFile, "f", DefaultTaskFile, "Path to the task file")
	fs.String(FlagLogLevel, DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.String(FlagLogFormat, DefaultLogFormat, "Log format (text, json, logfmt)")
	fs.Bool(FlagLogTimestamps, false, "Show timestamps in logs")
	fs.Bool(FlagLogCaller, false, "Show caller location in logs")
	fs.Bool(FlagNoColor, false, "Disable colored output")
}

// applyFlags copies explicitly set flags from fs into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagFile:
			cfg.TaskFile, err = fs.GetString(FlagFile)
			cfg.setSource("task_file", SourceFlag)
		case FlagLogLevel:
			cfg.LogLevel, err = fs.GetString(FlagLogLevel)
			cfg.setSource("log_level", SourceFlag)
		case FlagLogFormat:
			cfg.LogFormat, err = fs.GetString(FlagLogFormat)
			cfg.setSource("log_format", SourceFlag)
		case FlagLogTimestamps:
			cfg.LogTimestamps, err = fs.GetBool(FlagLogTimestamps)
			cfg.setSource("log_timestamps", SourceFlag)
		case FlagLogCaller:
			cfg.LogCaller, err = fs.GetBool(FlagLogCaller)
			cfg.setSource("log_caller", SourceFlag)
		case FlagNoColor:
			var noColor bool
			noColor, err = fs.GetBool(FlagNoColor)
			cfg.Color = !noColor
			cfg.setSource("color", SourceFlag)
		}
	})
	return err
}

// flagString returns the value of a string flag, or "" if fs is nil or
// does not define it.
func flagString(fs *pflag.FlagSet, name string) string {
	if fs == nil || fs.Lookup(name) == nil {
		return ""
	}
	v, err := fs.GetString(name)
	if err != nil {
		return ""
	}
	return v
}
