// Package config provides configuration management for tackweld using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration is turned into an explicit build.Options value before
// extraction runs; nothing below the CLI reads the environment directly.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tackweld/internal/build"
	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
)

// DefaultFileName is the config file searched for in the working directory.
const DefaultFileName = ".tackweld.yml"

// Config is the full tackweld configuration, one section per concern.
type Config struct {
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ExtractConfig selects template sources and says where and how their
// components are written.
type ExtractConfig struct {
	Root              string   `mapstructure:"root" yaml:"root"`
	Patterns          []string `mapstructure:"patterns" yaml:"patterns"`
	OutDir            string   `mapstructure:"out_dir" yaml:"out_dir"`
	AllowRedefinition bool     `mapstructure:"allow_redefinition" yaml:"allow_redefinition"`
	Prefix            string   `mapstructure:"prefix" yaml:"prefix"`
	PreserveNewlines  bool     `mapstructure:"preserve_newlines" yaml:"preserve_newlines"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	Ignore   []string      `mapstructure:"ignore" yaml:"ignore"`
}

// LogConfig sets the log level and format (text or json).
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Root:     ".",
			Patterns: []string{"**/*.html"},
			OutDir:   "build/templates",
			Prefix:   build.DefaultPrefix,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
			Ignore:   []string{".git", "node_modules"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key of Default with v, so environment
// variables are seen for keys that have no flag or file value.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("extract.root", def.Extract.Root)
	v.SetDefault("extract.patterns", def.Extract.Patterns)
	v.SetDefault("extract.out_dir", def.Extract.OutDir)
	v.SetDefault("extract.allow_redefinition", def.Extract.AllowRedefinition)
	v.SetDefault("extract.prefix", def.Extract.Prefix)
	v.SetDefault("extract.preserve_newlines", def.Extract.PreserveNewlines)
	v.SetDefault("watch.debounce", def.Watch.Debounce)
	v.SetDefault("watch.ignore", def.Watch.Ignore)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}

// Load unmarshals v, fills in defaults for anything unset and validates
// the result.
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		return nil, errors.WrapConfig(err, "failed to decode configuration")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	def := Default()

	if config.Extract.Root == "" {
		config.Extract.Root = def.Extract.Root
	}
	if len(config.Extract.Patterns) == 0 {
		config.Extract.Patterns = def.Extract.Patterns
	}
	if config.Extract.OutDir == "" {
		config.Extract.OutDir = def.Extract.OutDir
	}
	if config.Extract.Prefix == "" {
		config.Extract.Prefix = def.Extract.Prefix
	}
	if config.Watch.Debounce <= 0 {
		config.Watch.Debounce = def.Watch.Debounce
	}
	if config.Watch.Ignore == nil {
		config.Watch.Ignore = def.Watch.Ignore
	}
	if config.Log.Level == "" {
		config.Log.Level = def.Log.Level
	}
	if config.Log.Format == "" {
		config.Log.Format = def.Log.Format
	}
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if err := config.ExtractOptions().Validate(); err != nil {
		return err
	}

	for _, pattern := range config.Extract.Patterns {
		if strings.TrimSpace(pattern) == "" {
			return errors.ErrConfigInvalid("extract.patterns contains an empty pattern")
		}
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return errors.WrapConfig(err, "log.level")
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return errors.ErrConfigInvalid(fmt.Sprintf("log.format must be text or json, got %q", config.Log.Format))
	}

	return nil
}

// ExtractOptions converts the extract section into pipeline options.
func (c *Config) ExtractOptions() build.Options {
	return build.Options{
		Root:              c.Extract.Root,
		Patterns:          c.Extract.Patterns,
		OutDir:            c.Extract.OutDir,
		AllowRedefinition: c.Extract.AllowRedefinition,
		Prefix:            c.Extract.Prefix,
		PreserveNewlines:  c.Extract.PreserveNewlines,
	}
}

// LoggerConfig converts the log section into logger options.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	level, _ := logging.ParseLevel(c.Log.Level)
	return &logging.LoggerConfig{
		Level:  level,
		Format: c.Log.Format,
		Output: os.Stderr,
	}
}

// WriteFile writes config as YAML to path, refusing to replace an existing
// file unless force is set.
func WriteFile(path string, config *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.ErrConfigInvalid("config file already exists: " + path)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.WrapInternal(err, "failed to encode configuration")
	}

	if err := build.WriteFileAtomic(path, data); err != nil {
		return errors.ErrWrite(path, err)
	}
	return nil
}
