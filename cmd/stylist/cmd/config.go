package cmd

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/stylist/internal/config"
)

func newConfigCmd(app *cli) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Commands for managing stylist configuration.`,
	}

	var effective bool
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the default configuration",
		Long: `Dump the default configuration values in YAML format.

You can redirect this output to a file to create a configuration template:

  stylist config dump > .stylist.yaml

Configuration can be set via:
  - Config file (.stylist.yaml in $HOME, the working directory or /etc/stylist)
  - Environment variables (STYLIST_PUBLISH_PUBLIC_DIR, STYLIST_THEMES_PATHS, etc.)
  - Command-line flags (for some options)

Use --effective to dump the merged configuration instead of the defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := app.v
			if !effective {
				v = viper.New()
				config.SetDefaults(v)
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			data, err := yaml.Marshal(toMap(cfg))
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# stylist configuration file")
			fmt.Fprintln(out, "#")
			if effective {
				fmt.Fprintln(out, "# Values shown are the effective configuration.")
			} else {
				fmt.Fprintln(out, "# All values shown below are defaults.")
			}
			fmt.Fprintln(out, "#")
			fmt.Fprintln(out, "# Environment variable overrides:")
			fmt.Fprintln(out, "#   STYLIST_THEMES_PATHS")
			fmt.Fprintln(out, "#   STYLIST_PUBLISH_PUBLIC_DIR, STYLIST_PUBLISH_PREFIX")
			fmt.Fprintln(out, "#   STYLIST_LOGGING_LEVEL, STYLIST_LOGGING_FORMAT")
			fmt.Fprintln(out)
			_, err = out.Write(data)
			return err
		},
	}
	dumpCmd.Flags().BoolVar(&effective, "effective", false, "dump the effective configuration instead of defaults")

	configCmd.AddCommand(dumpCmd)
	return configCmd
}

// toMap converts a config struct to a map keyed by mapstructure tags.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		key := typ.Field(i).Tag.Get("mapstructure")
		if key == "" {
			key = typ.Field(i).Name
		}

		if field.Kind() == reflect.Struct {
			result[key] = toMap(field.Interface())
		} else {
			result[key] = field.Interface()
		}
	}
	return result
}
