package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPublishCmd(app *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "publish [theme]",
		Aliases: []string{"stylist:publish"},
		Short:   "Publish theme assets to the public directory",
		Long: `Publish copies the assets/ directory of every registered theme into
<public_dir>/<prefix>/<asset path>. Themes are located under themes.paths;
only directories that contain an assets/ folder are registered.

Give a theme name to publish just that theme. The name is matched case
insensitively against the theme name and its asset path.

Examples:
  stylist publish
  stylist publish "Dark Ocean"
  stylist publish --path ./vendor/themes --public-dir ./web/public`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}

			publisher, err := app.newPublisher(cfg, dryRun)
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}

			report, err := publisher.Publish(cmd.Context(), name)

			out := cmd.OutOrStdout()
			for _, res := range report.Results {
				if dryRun {
					fmt.Fprintf(out, "%s assets would be published to %s (%d files, %s).\n",
						res.Theme.Name, res.Destination, res.Stats.Files,
						humanize.Bytes(uint64(res.Stats.Bytes)))
					continue
				}
				fmt.Fprintf(out, "%s assets published.\n", res.Theme.Name)
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run, no assets published.")
			}
			if err != nil {
				return err
			}
			if dryRun {
				return nil
			}
			fmt.Fprintln(out, "Assets published.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be published without writing")
	addPublishFlags(cmd)

	return cmd
}
