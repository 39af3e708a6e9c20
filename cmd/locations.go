package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/gapview/internal/dataset"
	"github.com/derickschaefer/gapview/internal/model"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the values the line view can be filtered to",
	Long: `List the distinct values of the category column (location by default)
in the order the selector offers them, with each value's row count and time
span. The first value is the line view's initial selection.

Examples:
  gapview --data gapminder.csv locations
  gapview --data gapminder.csv locations --format csv > locations.csv`,
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
		locs := dataset.Locations(ds, deps.Config.CategoryColumn)
		result := newResult(model.KindLocations, "locations", locs, len(locs), start, warnings)
		return emit(cmd, result, deps.Config.Format, deps.Config.Verbose)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarise every column of the dataset",
	Long: `Show, for each column, how many cells parse as numbers, how many are
missing or invalid, and the numeric extent. Use it to find the rows the views
will skip.

Examples:
  gapview --data gapminder.csv describe
  gapview --data gapminder.csv describe --format md`,
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
		cols := dataset.Describe(ds)
		result := newResult(model.KindColumns, "describe", cols, len(cols), start, warnings)
		return emit(cmd, result, deps.Config.Format, deps.Config.Verbose)
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(describeCmd)
}
