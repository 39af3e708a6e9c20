package chart

import (
	"fmt"
	"math"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/surface"
)

// Hover receives pointer notifications from the line path. The row passed to
// OnEnter is the row whose point lies nearest the pointer horizontally.
type Hover interface {
	OnEnter(pos surface.Point, row model.Row)
	OnLeave()
}

var (
	lineStyle = surface.Style{
		Stroke:      "steelblue",
		StrokeWidth: 4,
		LineJoin:    "round",
		LineCap:     "round",
	}
	lineAxisText = surface.Style{Fill: "black", FontSize: 15, Anchor: "middle"}
	lineTitle    = surface.Style{Fill: "black", FontSize: 20, Anchor: "middle"}
)

// Line view labels.
const (
	LineXLabel = "Year"
	LineYLabel = "Population (in millions)"
)

// LineResult reports what RenderLine drew.
type LineResult struct {
	Path   surface.Handle
	Points []surface.Point
}

// RenderLine clears s and draws the line view of rows: axes from p, one
// continuous path through the projected rows, the static axis labels, and a
// title showing label.
//
// rows must already be filtered to one category and sorted by the x column;
// RenderLine draws them in the order given. Rows whose cells do not parse are
// skipped and logged. When hover is non-nil, fresh enter/leave handlers are
// attached to the new path on every call.
func RenderLine(s surface.Surface, rows []model.Row, p *Projection, label string, hover Hover) (LineResult, error) {
	s.Clear()
	if len(rows) == 0 {
		err := fmt.Errorf("line %q: %w", label, model.ErrEmptyDataset)
		DrawError(s, err.Error())
		return LineResult{}, err
	}

	drawAxes(s, p)

	pts := p.projectAll("line", rows)
	if len(pts) == 0 {
		err := fmt.Errorf("line %q: no drawable rows: %w", label, model.ErrEmptyDataset)
		DrawError(s, err.Error())
		return LineResult{}, err
	}
	path := make([]surface.Point, len(pts))
	for i, pp := range pts {
		path[i] = pp.pt
	}
	h := s.Path(path, lineStyle)

	if hover != nil {
		s.On(h, surface.PointerEnter, func(ev surface.PointerEvent) {
			hover.OnEnter(ev.Pos, nearest(pts, ev.Pos.X))
		})
		s.On(h, surface.PointerLeave, func(surface.PointerEvent) {
			hover.OnLeave()
		})
	}

	xr, yr := p.XScale.Range, p.YScale.Range
	s.Text(surface.Point{X: xr.Mid(), Y: yr.Max() + 45}, LineXLabel, lineAxisText)
	s.Text(surface.Point{X: xr.Mid(), Y: yr.Min() - 50}, label, lineTitle)
	yLabel := lineAxisText
	yLabel.Rotate = -90
	s.Text(surface.Point{X: xr.Min() - 50, Y: yr.Mid()}, LineYLabel, yLabel)

	return LineResult{Path: h, Points: path}, nil
}

// nearest returns the row whose projected x is closest to x.
func nearest(pts []projected, x float64) model.Row {
	best, bestD := 0, math.Inf(1)
	for i, pp := range pts {
		if d := math.Abs(pp.pt.X - x); d < bestD {
			best, bestD = i, d
		}
	}
	return pts[best].row
}
