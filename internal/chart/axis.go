package chart

import (
	"github.com/derickschaefer/gapview/internal/scale"
	"github.com/derickschaefer/gapview/internal/surface"
)

// Orientation selects where an axis sits relative to the plot area.
type Orientation int

const (
	Bottom Orientation = iota
	Left
)

func (o Orientation) String() string {
	if o == Left {
		return "left"
	}
	return "bottom"
}

const (
	// TickCount is the maximum number of ticks per axis.
	TickCount = 10
	// TickSize is the length of a tick mark in pixels.
	TickSize = 6
	// tickPad is the gap between a tick mark and its label.
	tickPad = 3
)

var (
	axisStyle      = surface.Style{Stroke: "black", StrokeWidth: 1}
	bottomTickText = surface.Style{Fill: "black", FontSize: 7.5, Anchor: "middle"}
	leftTickText   = surface.Style{Fill: "black", FontSize: 7.5, Anchor: "end"}
)

// AxisTick describes one drawn tick.
type AxisTick struct {
	Value float64
	Pos   float64 // screen coordinate along the axis
	Label string
}

// DrawAxis draws a ruled axis for sc at the fixed screen coordinate pos:
// the y coordinate for a Bottom axis, the x coordinate for a Left axis.
// The domain line spans sc's range and ticks point away from the plot area.
//
// It appends to s and never clears it. It returns the ticks it drew.
func DrawAxis(s surface.Surface, sc scale.Linear, o Orientation, pos float64) []AxisTick {
	r0, r1 := sc.Range.Min(), sc.Range.Max()
	values := sc.Ticks(TickCount)
	step := 0.0
	if len(values) > 1 {
		step = values[1] - values[0]
	}

	ticks := make([]AxisTick, len(values))
	for i, v := range values {
		ticks[i] = AxisTick{Value: v, Pos: sc.Map(v), Label: formatTick(v, step)}
	}

	switch o {
	case Left:
		s.Line(surface.Point{X: pos, Y: r0}, surface.Point{X: pos, Y: r1}, axisStyle)
		for _, t := range ticks {
			s.Line(surface.Point{X: pos - TickSize, Y: t.Pos}, surface.Point{X: pos, Y: t.Pos}, axisStyle)
			s.Text(surface.Point{X: pos - TickSize - tickPad, Y: t.Pos + 3}, t.Label, leftTickText)
		}
	default:
		s.Line(surface.Point{X: r0, Y: pos}, surface.Point{X: r1, Y: pos}, axisStyle)
		for _, t := range ticks {
			s.Line(surface.Point{X: t.Pos, Y: pos}, surface.Point{X: t.Pos, Y: pos + TickSize}, axisStyle)
			s.Text(surface.Point{X: t.Pos, Y: pos + TickSize + tickPad + 9}, t.Label, bottomTickText)
		}
	}
	return ticks
}

// drawAxes draws the bottom and left axes for p at the plot-area edges:
// the bottom axis at the lower edge of the y range, the left axis at the
// leading edge of the x range.
func drawAxes(s surface.Surface, p *Projection) {
	DrawAxis(s, p.XScale, Bottom, p.YScale.Range.Max())
	DrawAxis(s, p.YScale, Left, p.XScale.Range.Min())
}
