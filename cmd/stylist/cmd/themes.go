package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/stylist/internal/observability"
	"github.com/jmylchreest/stylist/internal/publish"
)

// themeRow is the listing form of a located theme.
type themeRow struct {
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	AssetPath   string     `json:"asset_path,omitempty"`
	Parent      string     `json:"parent,omitempty"`
	Publishable bool       `json:"publishable"`
	Destination string     `json:"destination,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func newThemesCmd(app *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List located themes",
		Long: `List every theme directory found under themes.paths together with its
asset path, whether it can be published (has an assets/ folder), where it
publishes to and when that destination was last written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}

			// Listing never writes, so keep the public directory off disk.
			publisher, err := app.newPublisher(cfg, true)
			if err != nil {
				return err
			}

			publisher.WithLogger(observability.WithOperation(app.logger, "list_themes"))

			candidates, err := publisher.Locate(cmd.Context())
			if err != nil {
				return err
			}
			rows := themeRows(candidates)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			if len(rows) == 0 {
				fmt.Fprintln(out, "No themes found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tASSET PATH\tPUBLISHABLE\tDESTINATION\tPUBLISHED\tPATH")
			for _, r := range rows {
				status := "yes"
				switch {
				case r.Error != "":
					status = "error: " + r.Error
				case !r.Publishable:
					status = "no"
				}
				published := "never"
				if r.PublishedAt != nil {
					published = humanize.Time(*r.PublishedAt)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Name, r.AssetPath, status, r.Destination, published, r.Path)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output themes as JSON")
	addPublishFlags(cmd)

	return cmd
}

func themeRows(candidates []publish.Candidate) []themeRow {
	rows := make([]themeRow, 0, len(candidates))
	for _, c := range candidates {
		r := themeRow{
			Path:        c.Dir,
			Publishable: c.Publishable,
			Destination: c.Destination,
			PublishedAt: c.PublishedAt,
			Error:       c.Error,
		}
		if c.Theme != nil {
			r.Name = c.Theme.Name
			r.AssetPath = c.Theme.AssetPath
			r.Parent = c.Theme.Parent
		}
		rows = append(rows, r)
	}
	return rows
}
