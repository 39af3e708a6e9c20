package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/render"
	"github.com/derickschaefer/gapview/internal/surface"
	"github.com/derickschaefer/gapview/internal/view"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// outputWriter returns w, or a file when --out is set. The returned close
// function must be called once output is complete.
func outputWriter(w io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// emit renders result in the resolved format to stdout (or --out), then the
// warning/stats footer to stderr.
func emit(cmd interface {
	OutOrStdout() io.Writer
	ErrOrStderr() io.Writer
}, result *model.Result, cfgFormat string, verbose bool) error {
	format := resolveFormat(cfgFormat)
	if !render.ValidFormat(format) {
		return fmt.Errorf("unknown format %q (valid: table, json, jsonl, csv, tsv, md)", format)
	}
	w, closeFn, err := outputWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := render.Render(w, result, format); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if !globalFlags.Quiet {
		render.PrintFooter(cmd.ErrOrStderr(), result, verbose)
	}
	return nil
}

// newResult wraps data in a Result envelope.
func newResult(kind, command string, data interface{}, items int, started time.Time, warnings []string) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Warnings:    warnings,
		Stats: model.ResultStats{
			DurationMs: time.Since(started).Milliseconds(),
			Items:      items,
		},
	}
}

// writeViews exports both views of a into dir as scatter.svg and line.svg.
// A view that ended in an error state is still written, so the picture of
// the error is available, and its error is recorded in the output.
func writeViews(a *view.App, dir string) ([]model.RenderOutput, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	lineErr := ""
	if err := a.LineErr(); err != nil {
		lineErr = err.Error()
	}
	scatterErr := ""
	if err := a.ScatterErr(); err != nil {
		scatterErr = err.Error()
	}
	linePoints := 0
	if paths := a.Line.ElementsOf(surface.KindPath); len(paths) > 0 {
		linePoints = len(paths[0].Points)
	}

	outputs := []model.RenderOutput{
		{View: "scatter", Path: filepath.Join(dir, "scatter.svg"), Marks: a.ScatterMarks(), Error: scatterErr},
		{View: "line", Path: filepath.Join(dir, "line.svg"), Marks: linePoints, Error: lineErr},
	}
	writers := []func(io.Writer) error{a.WriteScatter, a.WriteLine}
	for i, o := range outputs {
		if err := writeFile(o.Path, writers[i]); err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

// isTerminal reports whether r is a character device, i.e. an interactive
// terminal rather than a pipe or file.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
