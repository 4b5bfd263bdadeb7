// Package config provides configuration management for stylist using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultThemesPath = "./themes"
	defaultPublicDir  = "./public"
	defaultPrefix     = "themes"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "STYLIST"

// Config holds all configuration for the application.
type Config struct {
	Themes  ThemesConfig  `mapstructure:"themes"`
	Publish PublishConfig `mapstructure:"publish"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ThemesConfig controls where themes are located.
type ThemesConfig struct {
	// Paths are theme roots. Each root is either a theme directory itself or
	// a directory whose immediate children are themes.
	Paths []string `mapstructure:"paths"`

	// Dirs are theme directories used as they are, without discovery. They
	// need no manifest.
	Dirs []string `mapstructure:"dirs"`
}

// PublishConfig controls where theme assets are copied to.
type PublishConfig struct {
	PublicDir string `mapstructure:"public_dir"` // publicly served directory
	Prefix    string `mapstructure:"prefix"`     // subdirectory of PublicDir holding theme assets
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with STYLIST_ and use underscores for nesting.
// Example: STYLIST_PUBLISH_PUBLIC_DIR=/srv/www.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if err := Configure(v, configPath); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Configure installs defaults, the config file and environment bindings on
// v. With an empty configPath, .stylist.yaml is searched for in the home
// directory, the working directory and /etc/stylist; not finding one is not
// an error. An explicit configPath must exist.
func Configure(v *viper.Viper, configPath string) error {
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/stylist")
		v.SetConfigName(".stylist")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// FromViper unmarshals and validates configuration held by an existing viper
// instance. The CLI uses this after applying flag overrides to v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults are in place.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("themes.paths", []string{defaultThemesPath})
	v.SetDefault("themes.dirs", []string{})

	v.SetDefault("publish.public_dir", defaultPublicDir)
	v.SetDefault("publish.prefix", defaultPrefix)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Publish.PublicDir == "" {
		return fmt.Errorf("publish.public_dir is required")
	}
	if c.Publish.Prefix != "" {
		if filepath.IsAbs(c.Publish.Prefix) {
			return fmt.Errorf("publish.prefix must be relative to publish.public_dir")
		}
		clean := filepath.Clean(c.Publish.Prefix)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("publish.prefix must not escape publish.public_dir")
		}
	}

	for i, p := range c.Themes.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("themes.paths[%d] is empty", i)
		}
	}
	for i, d := range c.Themes.Dirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("themes.dirs[%d] is empty", i)
		}
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// ThemesRoot returns the path, relative to PublicDir, under which theme
// assets are published.
func (c *PublishConfig) ThemesRoot() string {
	if c.Prefix == "" {
		return "."
	}
	return filepath.Clean(c.Prefix)
}
