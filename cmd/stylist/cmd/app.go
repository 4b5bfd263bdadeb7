package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/stylist/internal/config"
	"github.com/jmylchreest/stylist/internal/event"
	"github.com/jmylchreest/stylist/internal/publish"
	"github.com/jmylchreest/stylist/internal/storage"
	"github.com/jmylchreest/stylist/internal/theme"
)

// loadConfig resolves the effective configuration, applying the publish
// flags of cmd when they were set explicitly.
func (a *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	overrideFlag(a.v, flags, "public-dir", "publish.public_dir")
	overrideFlag(a.v, flags, "prefix", "publish.prefix")
	if err := overrideArrayFlag(a.v, flags, "path", "themes.paths"); err != nil {
		return nil, err
	}
	if err := overrideArrayFlag(a.v, flags, "theme-dir", "themes.dirs"); err != nil {
		return nil, err
	}

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newPublisher wires the sandbox, registry and event dispatcher for cfg.
// With dryRun, writes land in an in-memory layer over a read-only view of
// the OS filesystem.
func (a *cli) newPublisher(cfg *config.Config, dryRun bool) (*publish.Publisher, error) {
	var fsys afero.Fs = afero.NewOsFs()
	if dryRun {
		fsys = afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fsys), afero.NewMemMapFs())
	}

	publicDir, err := filepath.Abs(cfg.Publish.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("resolving public directory: %w", err)
	}
	sandbox, err := storage.NewSandboxFs(fsys, publicDir)
	if err != nil {
		return nil, fmt.Errorf("opening public directory: %w", err)
	}

	roots, err := absPaths(cfg.Themes.Paths)
	if err != nil {
		return nil, err
	}
	dirs, err := absPaths(cfg.Themes.Dirs)
	if err != nil {
		return nil, err
	}

	events := event.NewDispatcher(a.logger)
	events.Listen(event.Publishing, publish.DiscoveryListener(roots, nil))
	if len(dirs) > 0 {
		events.Listen(event.Publishing, publish.PathsListener(dirs...))
	}

	return publish.NewPublisher(sandbox, theme.NewRegistry(fsys), events, cfg.Publish.ThemesRoot()).
		WithLogger(a.logger), nil
}

// overrideFlag copies a string flag into key only when it was set on the
// command line, so unset flags never mask env or file values.
func overrideFlag(v *viper.Viper, flags *pflag.FlagSet, name, key string) {
	if f := flags.Lookup(name); f != nil && f.Changed {
		v.Set(key, f.Value.String())
	}
}

// overrideArrayFlag is overrideFlag for repeatable string flags.
func overrideArrayFlag(v *viper.Viper, flags *pflag.FlagSet, name, key string) error {
	if !flags.Changed(name) {
		return nil
	}
	values, err := flags.GetStringArray(name)
	if err != nil {
		return fmt.Errorf("reading --%s: %w", name, err)
	}
	v.Set(key, values)
	return nil
}

func absPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving theme path %q: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// addPublishFlags registers the flags that override publish configuration.
func addPublishFlags(cmd *cobra.Command) {
	cmd.Flags().String("public-dir", "", "publicly served directory (overrides publish.public_dir)")
	cmd.Flags().String("prefix", "", "subdirectory of the public directory for theme assets (overrides publish.prefix)")
	cmd.Flags().StringArray("path", nil, "theme root to search, may be repeated (overrides themes.paths)")
	cmd.Flags().StringArray("theme-dir", nil, "theme directory to use as is, may be repeated (overrides themes.dirs)")
}
