package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/view"
)

var renderFlags struct {
	Location string
	OutDir   string
	Embed    bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the scatter and line views to SVG",
	Long: `Load the dataset, draw both views and write them as SVG files.

The line view shows the first location in sort order unless --location is
given. A view whose data cannot be drawn (an unknown location, a missing
column) is still written, showing the error message in place of the chart.

Examples:
  gapview --data gapminder.csv render
  gapview --data gapminder.csv render --location "Cote d'Ivoire" --out-dir charts
  gapview --data https://example.com/gapminder.json render --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		ds, warnings, err := deps.LoadDataset(cmd.Context())
		if err != nil {
			return err
		}
		a := deps.NewApp(ds, view.Options{EmbedScatter: renderFlags.Embed})
		if err := a.Start(); err != nil {
			slog.Warn("initial render", "err", err)
		}
		if renderFlags.Location != "" {
			if err := a.Filter.OnSelectionChanged(renderFlags.Location); err != nil {
				warnings = append(warnings, err.Error())
			}
		}

		dir := renderFlags.OutDir
		if dir == "" {
			dir = deps.Config.OutDir
		}
		outputs, err := writeViews(a, dir)
		if err != nil {
			return err
		}
		for _, o := range outputs {
			if o.Error != "" {
				warnings = append(warnings, fmt.Sprintf("%s: %s", o.View, o.Error))
			}
		}
		result := newResult(model.KindRender, "render", outputs, len(outputs), start, dedupe(warnings))
		return emit(cmd, result, deps.Config.Format, deps.Config.Verbose)
	},
}

// dedupe drops repeated warnings, keeping the first occurrence.
func dedupe(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := ss[:0]
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.Location, "location", "l", "", "location to show in the line view (default: first)")
	f.StringVar(&renderFlags.OutDir, "out-dir", "", "directory for scatter.svg and line.svg (default: config out_dir)")
	f.BoolVar(&renderFlags.Embed, "embed-scatter", true, "draw the scatter view inside the line view's tooltip")
}
