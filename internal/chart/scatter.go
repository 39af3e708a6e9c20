package chart

import (
	"fmt"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/scale"
	"github.com/derickschaefer/gapview/internal/surface"
	"github.com/derickschaefer/gapview/internal/util"
)

// RadiusRange is the pixel radius range population maps onto.
var RadiusRange = scale.Interval{Lo: 3, Hi: 20}

var (
	markStyle       = surface.Style{Fill: "#4286f4", Opacity: 0.6}
	scatterTitle    = surface.Style{Fill: "black", FontSize: 8}
	scatterAxisText = surface.Style{Fill: "black", FontSize: 8}
)

// Scatter view labels.
const (
	ScatterTitle  = "Life Expectancy vs. Fertility Rate for all countries"
	ScatterXLabel = "Fertility Rates (Avg Children per Woman)"
	ScatterYLabel = "Life Expectancy (years)"
)

// RenderScatter draws one circle per row at p's projection of the row.
// The radius comes from a separate linear scale mapping the extent of
// sizeCol over the same rows onto RadiusRange.
//
// Rows with an unparseable x, y or size cell are skipped and logged.
// RenderScatter appends to s and never clears it. It returns the number of
// marks drawn.
func RenderScatter(s surface.Surface, rows []model.Row, p *Projection, sizeCol string) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("scatter: %w", model.ErrEmptyDataset)
	}
	if err := requireColumn(rows, sizeCol); err != nil {
		return 0, fmt.Errorf("scatter: %w", err)
	}

	sizes := make([]float64, len(rows))
	valid := make([]bool, len(rows))
	var present []float64
	for i, r := range rows {
		v, err := util.ParseColumn(r, sizeCol)
		if err != nil {
			logSkip("scatter", i, err)
			continue
		}
		sizes[i], valid[i] = v, true
		present = append(present, v)
	}
	ext, err := scale.ExtentOf(present)
	if err != nil {
		return 0, fmt.Errorf("scatter %s: %w", sizeCol, err)
	}
	radius := scale.NewLinear(ext.Interval(), RadiusRange)

	marks := 0
	for i, r := range rows {
		if !valid[i] {
			continue
		}
		pt, err := p.Point(r)
		if err != nil {
			logSkip("scatter", i, err)
			continue
		}
		s.Circle(pt, radius.Map(sizes[i]), markStyle)
		marks++
	}
	return marks, nil
}

// DrawScatterView clears s and draws the complete scatter view of rows:
// axes, one mark per row sized by population, title and axis labels.
//
// A dataset-level error replaces the view with an error message and is
// returned; row-level errors only drop the row.
func DrawScatterView(s surface.Surface, rows []model.Row, l Layout) (int, error) {
	s.Clear()
	p, err := BuildProjection(rows, model.ColFertilityRate, model.ColLifeExpectancy, l.XRange, l.YRange)
	if err != nil {
		DrawError(s, "scatter: "+err.Error())
		return 0, err
	}
	drawAxes(s, p)
	n, err := RenderScatter(s, rows, p, model.ColPopulation)
	if err != nil {
		DrawError(s, "scatter: "+err.Error())
		return 0, err
	}

	x0 := l.XRange.Min()
	s.Text(surface.Point{X: x0, Y: l.YRange.Min() - 20}, ScatterTitle, scatterTitle)
	s.Text(surface.Point{X: x0, Y: l.YRange.Max() + 35}, ScatterXLabel, scatterAxisText)
	yLabel := scatterAxisText
	yLabel.Rotate = -90
	yLabel.Anchor = "middle"
	s.Text(surface.Point{X: x0 - 35, Y: l.YRange.Mid()}, ScatterYLabel, yLabel)
	return n, nil
}
