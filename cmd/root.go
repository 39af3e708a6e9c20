// Package cmd implements the gapview CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/gapview/internal/app"
	"github.com/derickschaefer/gapview/internal/config"
	"github.com/derickschaefer/gapview/internal/dataset"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Data    string
	Input   string
	Format  string
	Out     string
	Timeout string
	Rate    float64
	Quiet   bool
	Verbose bool
	Debug   bool
}

// rootCmd is the base command. Running `gapview` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "gapview",
	Short: "gapview — Gapminder fertility, life expectancy and population charts",
	Long: `gapview renders two linked views of a Gapminder-style dataset:

  scatter   fertility rate vs. life expectancy for every row,
            point size showing population
  line      population over time for one location

Input is CSV (with a header row), a JSON array of objects, or JSONL (one
object per line), read from a file, an http(s) URL, or stdin with --data -.
Required columns: location, time, pop_mlns,
fertility_rate, life_expectancy.

Quick start:
  gapview config init                         # create a config.json
  gapview --data gapminder.csv locations      # list selectable locations
  gapview --data gapminder.csv render -l Chad # write scatter.svg and line.svg`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging installs the process-wide slog handler. WARN by default so
// skipped rows are visible; --debug adds request and render tracing and
// --quiet keeps only errors.
func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	switch {
	case globalFlags.Debug:
		level = slog.LevelDebug
	case globalFlags.Quiet:
		level = slog.LevelError
	case globalFlags.Verbose:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load(globalFlags.Data)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.Timeout != "" {
		d, err := time.ParseDuration(globalFlags.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout %q: %w", globalFlags.Timeout, err)
		}
		cfg.Timeout = d
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}

	deps := app.New(cfg)
	if globalFlags.Input != "" {
		f, err := dataset.ParseFormat(globalFlags.Input)
		if err != nil {
			return nil, err
		}
		deps.Loader.Format = f
	}
	return deps, nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Data, "data", "",
		"dataset path, http(s) URL, or - for stdin (overrides env GAPVIEW_DATA and config.json)")
	pf.StringVar(&globalFlags.Input, "input", "",
		"dataset encoding: csv|json|jsonl (default: detect)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout for remote datasets (e.g. 30s, 2m)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max HTTP requests per second (default: 5.0)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log dataset requests, events and render passes")
}
