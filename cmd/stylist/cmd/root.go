// Package cmd implements the CLI commands for stylist.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/stylist/internal/config"
	"github.com/jmylchreest/stylist/internal/observability"
	"github.com/jmylchreest/stylist/internal/version"
)

// cli holds state shared by every command of one command tree.
type cli struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
}

// Execute builds the command tree and runs it against the process arguments.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

// NewRootCmd returns the stylist command tree.
func NewRootCmd() *cobra.Command {
	app := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "stylist",
		Short:   "Theme asset publisher",
		Version: version.Short(),
		Long: `stylist locates theme directories, registers the ones that ship an
assets/ folder, and copies those assets into the application's public
directory so the web server can serve them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.initConfig(); err != nil {
				return err
			}
			return app.initLogging(cmd)
		},
	}

	// Global flags are not bound to viper. They override config/env values
	// only when Changed(), preserving flag > env > config > default.
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is .stylist.yaml in $HOME, . or /etc/stylist)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(
		newPublishCmd(app),
		newThemesCmd(app),
		newConfigCmd(app),
		newVersionCmd(),
	)

	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func (a *cli) initConfig() error {
	return config.Configure(a.v, a.cfgFile)
}

// initLogging configures the slog logger.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format) - only if explicitly provided
//  2. Environment variables (STYLIST_LOGGING_LEVEL, STYLIST_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, text)
func (a *cli) initLogging(cmd *cobra.Command) error {
	level := a.v.GetString("logging.level")
	format := a.v.GetString("logging.format")

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("log-level") {
		level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		format, _ = flags.GetString("log-format")
	}

	logCfg := config.LoggingConfig{
		Level:      strings.ToLower(level),
		Format:     strings.ToLower(format),
		AddSource:  a.v.GetBool("logging.add_source"),
		TimeFormat: a.v.GetString("logging.time_format"),
	}
	if logCfg.Level == "warning" {
		logCfg.Level = "warn"
	}

	logger := observability.NewLoggerWithWriter(logCfg, cmd.ErrOrStderr())
	a.logger = observability.WithApp(logger, version.ApplicationName)
	observability.SetDefault(a.logger)
	cmd.SetContext(observability.ContextWithLogger(cmd.Context(), a.logger))

	// Keep the effective values so config validation sees them.
	a.v.Set("logging.level", logCfg.Level)
	a.v.Set("logging.format", logCfg.Format)

	return nil
}
