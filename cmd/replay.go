package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/gapview/internal/events"
	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/view"
)

var replayFlags struct {
	OutDir   string
	Realtime bool
}

var replayCmd = &cobra.Command{
	Use:   "replay [script|-]",
	Short: "Replay an interaction script and render the final state",
	Long: `Run a script of interactions through the event loop, then write both
views as they look at the end.

Script commands, one per line (# starts a comment):
  select <location>    change the line view's location
  move <x> <y>         move the pointer over the line view
  out [<x> <y>]        move the pointer off the line view
  wait <duration>      let time pass, e.g. 250ms

By default time is simulated, so waits finish immediately and the exported
tooltip opacity depends only on the script. --realtime sleeps instead.

Examples:
  gapview --data gapminder.csv replay session.txt
  printf 'select Chad\nmove 500 400\nwait 200ms\n' | gapview --data gapminder.csv replay -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps()
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()
			in = f
		} else if isTerminal(in) {
			return fmt.Errorf("no script: pass a file or pipe one on stdin")
		}
		script, err := events.ParseScript(in)
		if err != nil {
			return err
		}

		ds, warnings, err := deps.LoadDataset(cmd.Context())
		if err != nil {
			return err
		}

		var clock view.Clock = view.NewManualClock(start)
		if replayFlags.Realtime {
			clock = view.WallClock{}
		}
		a := deps.NewApp(ds, view.Options{Clock: clock, EmbedScatter: true})
		if err := a.Start(); err != nil {
			warnings = append(warnings, err.Error())
		}

		loop := events.NewLoop(len(script), a.Dispatch)
		for _, ev := range script {
			if err := loop.Post(cmd.Context(), ev); err != nil {
				return err
			}
		}
		loop.Close()
		if err := loop.Run(cmd.Context()); err != nil {
			return err
		}
		if handled, failed := loop.Stats(); failed > 0 {
			warnings = append(warnings, fmt.Sprintf("%d of %d events failed (see log)", failed, handled))
		}

		dir := replayFlags.OutDir
		if dir == "" {
			dir = deps.Config.OutDir
		}
		outputs, err := writeViews(a, dir)
		if err != nil {
			return err
		}
		result := newResult(model.KindRender, "replay", outputs, len(outputs), start, dedupe(warnings))
		return emit(cmd, result, deps.Config.Format, deps.Config.Verbose)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	f := replayCmd.Flags()
	f.StringVar(&replayFlags.OutDir, "out-dir", "", "directory for scatter.svg and line.svg (default: config out_dir)")
	f.BoolVar(&replayFlags.Realtime, "realtime", false, "sleep for waits instead of simulating time")
}
