// Package chart renders the two gapview views onto a surface.Surface:
//
//   - Scatter: every row as a circle, fertility rate against life expectancy,
//     radius scaled by population
//   - Line: one location's population over time as a single connected path
//
// The package composes scales into projections, draws axes, and projects rows
// to marks. It never loads data and never owns selection state.
//
// Clear-before-draw contract: RenderLine and DrawScatterView clear their
// surface before drawing, so calling them twice produces the same picture as
// calling them once. DrawAxis and RenderScatter only append; their callers
// clear first.
package chart

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/scale"
	"github.com/derickschaefer/gapview/internal/surface"
)

// ─── Layout ───────────────────────────────────────────────────────────────────

// Layout fixes a view's pixel size and the plot-area insets its scales map
// onto. YRange is given top-to-bottom in screen space.
type Layout struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	XRange scale.Interval `json:"x_range"`
	YRange scale.Interval `json:"y_range"`
}

// Default layouts for the two views.
var (
	ScatterLayout = Layout{
		Width:  300,
		Height: 300,
		XRange: scale.Interval{Lo: 50, Hi: 250},
		YRange: scale.Interval{Lo: 50, Hi: 250},
	}
	LineLayout = Layout{
		Width:  1000,
		Height: 800,
		XRange: scale.Interval{Lo: 100, Hi: 950},
		YRange: scale.Interval{Lo: 100, Hi: 750},
	}
)

// ─── Error state ──────────────────────────────────────────────────────────────

var errorStyle = surface.Style{Fill: "#b00020", FontSize: 12, Anchor: "middle"}

// DrawError replaces the contents of s with a centred message. Views call it
// when a dataset-level error aborts their render.
func DrawError(s surface.Surface, msg string) {
	s.Clear()
	w, h := s.Size()
	s.Text(surface.Point{X: w / 2, Y: h / 2}, msg, errorStyle)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// logSkip records a row dropped for a row-level error.
func logSkip(view string, index int, err error) {
	slog.Warn("skipping row", "view", view, "row", index, "err", err)
}

// requireColumn fails with model.ErrSchema if no row carries col.
func requireColumn(rows []model.Row, col string) error {
	for _, r := range rows {
		if _, ok := r.Get(col); ok {
			return nil
		}
	}
	return &schemaError{column: col}
}

type schemaError struct{ column string }

func (e *schemaError) Error() string { return "column " + strconv.Quote(e.column) + " not found" }
func (e *schemaError) Unwrap() error { return model.ErrSchema }

// formatTick formats v with just enough decimals to distinguish ticks that
// are step apart. The result depends only on v and step, so labels are stable.
func formatTick(v, step float64) string {
	decimals := 0
	if step > 0 && !math.IsInf(step, 0) {
		if d := -int(math.Floor(math.Log10(step) + 1e-9)); d > 0 {
			decimals = d
		}
	}
	if decimals > 10 {
		decimals = 10
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
