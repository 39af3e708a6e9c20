package chart

import (
	"fmt"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/scale"
	"github.com/derickschaefer/gapview/internal/surface"
	"github.com/derickschaefer/gapview/internal/util"
)

// Projection maps rows to screen coordinates. It is built from one row
// subset for one render pass and is not reused after the subset changes.
type Projection struct {
	XColumn string
	YColumn string
	XScale  scale.Linear
	YScale  scale.Linear
	XExtent scale.Extent
	YExtent scale.Extent
	// Skipped counts rows left out of the extents because a cell failed to parse.
	Skipped int
}

// BuildProjection computes the extents of xCol and yCol over rows and binds
// them to xRange and yRange.
//
// The y scale is inverted: the column maximum maps to yRange.Lo, so with a
// top-to-bottom yRange larger values are drawn higher.
//
// Rows whose x or y cell does not parse are skipped and logged. A column
// absent from every row fails with model.ErrSchema; a subset with no
// parseable row fails with model.ErrEmptyDataset.
func BuildProjection(rows []model.Row, xCol, yCol string, xRange, yRange scale.Interval) (*Projection, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("projection %s/%s: %w", xCol, yCol, model.ErrEmptyDataset)
	}
	for _, col := range []string{xCol, yCol} {
		if err := requireColumn(rows, col); err != nil {
			return nil, fmt.Errorf("projection: %w", err)
		}
	}

	p := &Projection{XColumn: xCol, YColumn: yCol}
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for i, r := range rows {
		x, err := util.ParseColumn(r, xCol)
		if err == nil {
			var y float64
			y, err = util.ParseColumn(r, yCol)
			if err == nil {
				xs = append(xs, x)
				ys = append(ys, y)
				continue
			}
		}
		p.Skipped++
		logSkip("projection", i, err)
	}

	var err error
	if p.XExtent, err = scale.ExtentOf(xs); err != nil {
		return nil, fmt.Errorf("projection %s: %w", xCol, err)
	}
	if p.YExtent, err = scale.ExtentOf(ys); err != nil {
		return nil, fmt.Errorf("projection %s: %w", yCol, err)
	}
	p.XScale = scale.NewLinear(p.XExtent.Interval(), xRange)
	p.YScale = scale.NewLinear(p.YExtent.Reversed(), yRange)
	return p, nil
}

// X returns the screen x coordinate of row.
func (p *Projection) X(row model.Row) (float64, error) {
	v, err := util.ParseColumn(row, p.XColumn)
	if err != nil {
		return 0, err
	}
	return p.XScale.Map(v), nil
}

// Y returns the screen y coordinate of row.
func (p *Projection) Y(row model.Row) (float64, error) {
	v, err := util.ParseColumn(row, p.YColumn)
	if err != nil {
		return 0, err
	}
	return p.YScale.Map(v), nil
}

// Point returns both coordinates of row.
func (p *Projection) Point(row model.Row) (surface.Point, error) {
	x, err := p.X(row)
	if err != nil {
		return surface.Point{}, err
	}
	y, err := p.Y(row)
	if err != nil {
		return surface.Point{}, err
	}
	return surface.Point{X: x, Y: y}, nil
}

// projected pairs a drawable row with its screen position.
type projected struct {
	row model.Row
	pt  surface.Point
}

// projectAll projects every row it can and logs the rest.
func (p *Projection) projectAll(view string, rows []model.Row) []projected {
	out := make([]projected, 0, len(rows))
	for i, r := range rows {
		pt, err := p.Point(r)
		if err != nil {
			logSkip(view, i, err)
			continue
		}
		out = append(out, projected{row: r, pt: pt})
	}
	return out
}
