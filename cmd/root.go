// Package cmd provides the command-line interface for tackweld.
//
// Configuration is read from, highest priority first:
//
//  1. Command-line flags (--root, --out, --pattern, ...)
//  2. TACKWELD_<SECTION>_<OPTION> environment variables (TACKWELD_EXTRACT_OUT_DIR)
//  3. The config file: --config, else TACKWELD_CONFIG_FILE, else .tackweld.yml
//  4. Built-in defaults
//
// List options read from the environment are comma separated; a comma inside
// {...} or [...] stays part of the glob, so TACKWELD_EXTRACT_PATTERNS may be
// "*.{html,htm},pages/**/*.html".
package cmd

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tackweld/internal/config"
	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
)

// EnvPrefix prefixes every environment variable tackweld reads.
const EnvPrefix = "TACKWELD"

// app carries state shared by every command of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tackweld",
		Short: "Extract named HTML components from template files",
		Long: `tackweld scans template files for component markers and writes each
component body to its own artifact file.

A line holding only "::name" starts the component "name"; every following
line up to the next marker belongs to it.

Quick Start:
  tackweld init                   Write a default .tackweld.yml
  tackweld extract                Extract every component
  tackweld watch                  Re-extract on every change
  tackweld list                   Show components without writing
  tackweld check                  Report conflicts and markup problems
  tackweld render card --arg title=Hello`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .tackweld.yml, can also use TACKWELD_CONFIG_FILE env var)")
	addGlobalFlags(flags)
	bindFlags(a.v, flags, globalFlagKeys)

	rootCmd.AddCommand(
		newExtractCommand(a),
		newWatchCommand(a),
		newListCommand(a),
		newCheckCommand(a),
		newRenderCommand(a),
		newBindingsCommand(a),
		newInitCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// initConfig points viper at the config file and environment. A missing
// default config file is fine; a named one that cannot be read is not.
func (a *app) initConfig() error {
	explicit := a.cfgFile
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG_FILE")
	}

	if explicit != "" {
		a.v.SetConfigFile(explicit)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(strings.TrimSuffix(config.DefaultFileName, ".yml"))
	}

	config.SetDefaults(a.v)
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && stderrors.As(err, &notFound) {
			return nil
		}
		return errors.WrapConfig(err, "failed to read config file")
	}

	return nil
}

// load decodes the configuration and builds a logger writing to the
// command's error stream.
func (a *app) load(cmd *cobra.Command) (*config.Config, *logging.TackweldLogger, error) {
	cfg, err := config.Load(a.v)
	if err != nil {
		return nil, nil, err
	}

	loggerConfig := cfg.LoggerConfig()
	loggerConfig.Output = cmd.ErrOrStderr()
	logger := logging.NewLogger(loggerConfig)

	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug(cmd.Context(), "Using config file", "path", used)
	}

	return cfg, logger, nil
}
