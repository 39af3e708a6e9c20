package chart_test

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/derickschaefer/gapview/internal/chart"
	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/scale"
	"github.com/derickschaefer/gapview/internal/surface"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// row builds a Row from alternating column/value pairs.
func row(kv ...string) model.Row {
	r := make(model.Row, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i]] = kv[i+1]
	}
	return r
}

// countryYear builds a full dataset row.
func countryYear(loc string, year int, pop, fert, life float64) model.Row {
	return row(
		model.ColLocation, loc,
		model.ColTime, strconv.Itoa(year),
		model.ColPopulation, strconv.FormatFloat(pop, 'f', -1, 64),
		model.ColFertilityRate, strconv.FormatFloat(fert, 'f', -1, 64),
		model.ColLifeExpectancy, strconv.FormatFloat(life, 'f', -1, 64),
	)
}

func lineProjection(t *testing.T, rows []model.Row) *chart.Projection {
	t.Helper()
	l := chart.LineLayout
	p, err := chart.BuildProjection(rows, model.ColTime, model.ColPopulation, l.XRange, l.YRange)
	if err != nil {
		t.Fatalf("BuildProjection: %v", err)
	}
	return p
}

func texts(r *surface.Recorder) []string {
	var out []string
	for _, e := range r.ElementsOf(surface.KindText) {
		out = append(out, e.Text)
	}
	return out
}

func hasText(r *surface.Recorder, s string) bool {
	for _, txt := range texts(r) {
		if txt == s {
			return true
		}
	}
	return false
}

// ─── Projection ───────────────────────────────────────────────────────────────

func TestBuildProjectionMapsExtentsToRanges(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 10, 2, 70),
		countryYear("A", 2001, 12, 2, 71),
		countryYear("A", 2002, 15, 2, 72),
	}
	p := lineProjection(t, rows)

	first, err := p.Point(rows[0])
	if err != nil {
		t.Fatalf("Point: %v", err)
	}
	last, _ := p.Point(rows[2])

	// Earliest year at the left edge, latest at the right.
	if first.X != 100 || last.X != 950 {
		t.Errorf("x: got %g..%g, want 100..950", first.X, last.X)
	}
	// Smallest population at the bottom, largest at the top.
	if first.Y != 750 || last.Y != 100 {
		t.Errorf("y: got %g..%g, want 750..100", first.Y, last.Y)
	}
	if p.XExtent != (scale.Extent{Min: 2000, Max: 2002}) {
		t.Errorf("XExtent = %+v", p.XExtent)
	}
}

func TestBuildProjectionSkipsBadRows(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 10, 2, 70),
		row(model.ColTime, "2001", model.ColPopulation, "n/a"),
		row(model.ColTime, "", model.ColPopulation, "11"),
		countryYear("A", 2002, 30, 2, 72),
	}
	p := lineProjection(t, rows)
	if p.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", p.Skipped)
	}
	if p.YExtent.Max != 30 || p.YExtent.Min != 10 {
		t.Errorf("YExtent = %+v, want [10, 30]", p.YExtent)
	}
	if _, err := p.Y(rows[1]); !errors.Is(err, model.ErrParse) {
		t.Errorf("Y(bad row): expected ErrParse, got %v", err)
	}
}

func TestBuildProjectionSchemaError(t *testing.T) {
	rows := []model.Row{row(model.ColTime, "2000")}
	_, err := chart.BuildProjection(rows, model.ColTime, model.ColPopulation,
		chart.LineLayout.XRange, chart.LineLayout.YRange)
	if !errors.Is(err, model.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestBuildProjectionEmpty(t *testing.T) {
	_, err := chart.BuildProjection(nil, model.ColTime, model.ColPopulation,
		chart.LineLayout.XRange, chart.LineLayout.YRange)
	if !errors.Is(err, model.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}

	// Column present but never numeric: nothing survives.
	rows := []model.Row{row(model.ColTime, "x", model.ColPopulation, "y")}
	_, err = chart.BuildProjection(rows, model.ColTime, model.ColPopulation,
		chart.LineLayout.XRange, chart.LineLayout.YRange)
	if !errors.Is(err, model.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset when no row parses, got %v", err)
	}
}

func TestBuildProjectionDegenerate(t *testing.T) {
	rows := []model.Row{countryYear("A", 2000, 10, 2, 70)}
	p := lineProjection(t, rows)
	pt, err := p.Point(rows[0])
	if err != nil {
		t.Fatalf("Point: %v", err)
	}
	if pt.X != 525 || pt.Y != 425 {
		t.Errorf("single-row point = %+v, want range midpoints (525, 425)", pt)
	}
}

// ─── Axis ─────────────────────────────────────────────────────────────────────

func TestDrawAxisBottom(t *testing.T) {
	r := surface.NewRecorder(1000, 800)
	sc := scale.NewLinear(scale.Interval{Lo: 1950, Hi: 2015}, scale.Interval{Lo: 100, Hi: 950})
	ticks := chart.DrawAxis(r, sc, chart.Bottom, 750)
	if len(ticks) == 0 || len(ticks) > chart.TickCount {
		t.Fatalf("got %d ticks", len(ticks))
	}

	lines := r.ElementsOf(surface.KindLine)
	// Domain line + one mark per tick.
	if len(lines) != len(ticks)+1 {
		t.Errorf("got %d lines, want %d", len(lines), len(ticks)+1)
	}
	domain := lines[0]
	if domain.Points[0] != (surface.Point{X: 100, Y: 750}) || domain.Points[1] != (surface.Point{X: 950, Y: 750}) {
		t.Errorf("domain line = %+v", domain.Points)
	}
	for _, tk := range ticks {
		if tk.Pos < 100 || tk.Pos > 950 {
			t.Errorf("tick %g at %g outside range", tk.Value, tk.Pos)
		}
		if !hasText(r, tk.Label) {
			t.Errorf("label %q not drawn", tk.Label)
		}
	}
	// Year ticks are whole numbers.
	for _, tk := range ticks {
		if _, err := strconv.Atoi(tk.Label); err != nil {
			t.Errorf("year tick label %q should be an integer", tk.Label)
		}
	}
}

func TestDrawAxisLeftStable(t *testing.T) {
	sc := scale.NewLinear(scale.Interval{Lo: 84.1, Hi: 31.5}, scale.Interval{Lo: 50, Hi: 250})
	a := surface.NewRecorder(300, 300)
	b := surface.NewRecorder(300, 300)
	ta := chart.DrawAxis(a, sc, chart.Left, 50)
	tb := chart.DrawAxis(b, sc, chart.Left, 50)
	if len(ta) != len(tb) {
		t.Fatalf("tick counts differ: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Errorf("tick %d differs: %+v vs %+v", i, ta[i], tb[i])
		}
	}
	ea, eb := a.Elements(), b.Elements()
	if len(ea) != len(eb) {
		t.Fatalf("element counts differ")
	}
	for i := range ea {
		if ea[i].Text != eb[i].Text || ea[i].Points[0] != eb[i].Points[0] {
			t.Errorf("element %d differs", i)
		}
	}
	// Left axis line is vertical at x=50.
	dl := a.ElementsOf(surface.KindLine)[0]
	if dl.Points[0].X != 50 || dl.Points[1].X != 50 {
		t.Errorf("left domain line not at x=50: %+v", dl.Points)
	}
}

func TestDrawAxisDoesNotClear(t *testing.T) {
	r := surface.NewRecorder(100, 100)
	r.Circle(surface.Point{X: 1, Y: 1}, 1, surface.Style{})
	sc := scale.NewLinear(scale.Interval{Lo: 0, Hi: 1}, scale.Interval{Lo: 0, Hi: 100})
	chart.DrawAxis(r, sc, chart.Bottom, 90)
	if r.Clears() != 0 || len(r.ElementsOf(surface.KindCircle)) != 1 {
		t.Error("DrawAxis must append without clearing")
	}
}

// ─── Scatter ──────────────────────────────────────────────────────────────────

func TestRenderScatterRadiiIncrease(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 5, 1.5, 80),
		countryYear("B", 2000, 10, 3.0, 70),
		countryYear("C", 2000, 20, 6.0, 50),
	}
	l := chart.ScatterLayout
	p, err := chart.BuildProjection(rows, model.ColFertilityRate, model.ColLifeExpectancy, l.XRange, l.YRange)
	if err != nil {
		t.Fatalf("BuildProjection: %v", err)
	}
	r := surface.NewRecorder(l.Width, l.Height)
	n, err := chart.RenderScatter(r, rows, p, model.ColPopulation)
	if err != nil {
		t.Fatalf("RenderScatter: %v", err)
	}
	marks := r.ElementsOf(surface.KindCircle)
	if n != 3 || len(marks) != 3 {
		t.Fatalf("expected 3 marks, got n=%d recorded=%d", n, len(marks))
	}
	if marks[0].R != chart.RadiusRange.Lo || marks[2].R != chart.RadiusRange.Hi {
		t.Errorf("radii endpoints = %g, %g; want %g, %g",
			marks[0].R, marks[2].R, chart.RadiusRange.Lo, chart.RadiusRange.Hi)
	}
	if !(marks[0].R < marks[1].R && marks[1].R < marks[2].R) {
		t.Errorf("radii not strictly increasing: %g %g %g", marks[0].R, marks[1].R, marks[2].R)
	}
	// 10 is 1/3 of the way from 5 to 20.
	want := 3 + (20.0-3)/3
	if math.Abs(marks[1].R-want) > 1e-9 {
		t.Errorf("middle radius = %g, want %g", marks[1].R, want)
	}
	for _, m := range marks {
		if m.Style.Fill != "#4286f4" || m.Style.Opacity != 0.6 {
			t.Errorf("unexpected mark style %+v", m.Style)
		}
	}
}

func TestRenderScatterSkipsBadSize(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 5, 1.5, 80),
		row(model.ColFertilityRate, "2", model.ColLifeExpectancy, "60", model.ColPopulation, "?"),
		countryYear("C", 2000, 20, 6.0, 50),
	}
	l := chart.ScatterLayout
	p, _ := chart.BuildProjection(rows, model.ColFertilityRate, model.ColLifeExpectancy, l.XRange, l.YRange)
	r := surface.NewRecorder(l.Width, l.Height)
	n, err := chart.RenderScatter(r, rows, p, model.ColPopulation)
	if err != nil {
		t.Fatalf("RenderScatter: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 marks, got %d", n)
	}
}

func TestRenderScatterSchemaError(t *testing.T) {
	rows := []model.Row{row(model.ColFertilityRate, "2", model.ColLifeExpectancy, "60")}
	l := chart.ScatterLayout
	p, _ := chart.BuildProjection(rows, model.ColFertilityRate, model.ColLifeExpectancy, l.XRange, l.YRange)
	_, err := chart.RenderScatter(surface.NewRecorder(300, 300), rows, p, model.ColPopulation)
	if !errors.Is(err, model.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestDrawScatterView(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 5, 1.5, 80),
		countryYear("B", 2000, 10, 3.0, 70),
	}
	r := surface.NewRecorder(300, 300)
	r.Text(surface.Point{}, "stale", surface.Style{})
	n, err := chart.DrawScatterView(r, rows, chart.ScatterLayout)
	if err != nil {
		t.Fatalf("DrawScatterView: %v", err)
	}
	if n != 2 {
		t.Errorf("marks = %d, want 2", n)
	}
	if hasText(r, "stale") {
		t.Error("scatter view should clear before drawing")
	}
	for _, s := range []string{chart.ScatterTitle, chart.ScatterXLabel, chart.ScatterYLabel} {
		if !hasText(r, s) {
			t.Errorf("missing label %q", s)
		}
	}
}

func TestDrawScatterViewErrorState(t *testing.T) {
	r := surface.NewRecorder(300, 300)
	_, err := chart.DrawScatterView(r, nil, chart.ScatterLayout)
	if !errors.Is(err, model.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if len(r.ElementsOf(surface.KindCircle)) != 0 {
		t.Error("error state should contain no marks")
	}
	if len(texts(r)) != 1 {
		t.Errorf("error state should be a single message, got %v", texts(r))
	}
}

// ─── Line ─────────────────────────────────────────────────────────────────────

type hoverSpy struct {
	enters []model.Row
	leaves int
}

func (h *hoverSpy) OnEnter(_ surface.Point, r model.Row) { h.enters = append(h.enters, r) }
func (h *hoverSpy) OnLeave()                             { h.leaves++ }

func TestRenderLineTwoPoints(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 10, 2, 70),
		countryYear("A", 2001, 12, 2, 71),
	}
	p := lineProjection(t, rows)
	r := surface.NewRecorder(1000, 800)
	res, err := chart.RenderLine(r, rows, p, "A", nil)
	if err != nil {
		t.Fatalf("RenderLine: %v", err)
	}
	paths := r.ElementsOf(surface.KindPath)
	if len(paths) != 1 {
		t.Fatalf("expected exactly one path, got %d", len(paths))
	}
	if len(paths[0].Points) != 2 || len(res.Points) != 2 {
		t.Fatalf("path should connect exactly two points, got %d", len(paths[0].Points))
	}
	if paths[0].Style.Stroke != "steelblue" || paths[0].Style.StrokeWidth != 4 {
		t.Errorf("unexpected path style %+v", paths[0].Style)
	}
	for _, s := range []string{"A", chart.LineXLabel, chart.LineYLabel} {
		if !hasText(r, s) {
			t.Errorf("missing label %q", s)
		}
	}
}

func TestRenderLineClearsFirst(t *testing.T) {
	rowsA := []model.Row{countryYear("A", 2000, 10, 2, 70), countryYear("A", 2001, 12, 2, 71)}
	rowsB := []model.Row{countryYear("B", 2000, 5, 2, 70), countryYear("B", 2001, 6, 2, 71)}
	r := surface.NewRecorder(1000, 800)
	if _, err := chart.RenderLine(r, rowsA, lineProjection(t, rowsA), "A", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := chart.RenderLine(r, rowsB, lineProjection(t, rowsB), "B", nil); err != nil {
		t.Fatal(err)
	}
	if n := len(r.ElementsOf(surface.KindPath)); n != 1 {
		t.Errorf("expected one path after re-render, got %d", n)
	}
	if hasText(r, "A") {
		t.Error("title from the previous render is still present")
	}
	if !hasText(r, "B") {
		t.Error("new title missing")
	}
}

func TestRenderLineHover(t *testing.T) {
	rows := []model.Row{
		countryYear("A", 2000, 10, 2, 70),
		countryYear("A", 2001, 10, 2, 71),
		countryYear("A", 2002, 10, 2, 72),
	}
	p := lineProjection(t, rows)
	r := surface.NewRecorder(1000, 800)
	spy := &hoverSpy{}
	res, err := chart.RenderLine(r, rows, p, "A", spy)
	if err != nil {
		t.Fatal(err)
	}
	// Flat population: the path runs along y=425 from x=100 to x=950.
	if res.Points[0].Y != 425 {
		t.Fatalf("flat series should sit at range midpoint, got y=%g", res.Points[0].Y)
	}
	r.PointerMove(surface.Point{X: 940, Y: 426})
	if len(spy.enters) != 1 {
		t.Fatalf("expected one enter, got %d", len(spy.enters))
	}
	if spy.enters[0][model.ColTime] != "2002" {
		t.Errorf("nearest row = %v, want time 2002", spy.enters[0])
	}
	r.PointerMove(surface.Point{X: 940, Y: 600})
	if spy.leaves != 1 {
		t.Errorf("expected one leave, got %d", spy.leaves)
	}
}

func TestRenderLineEmpty(t *testing.T) {
	r := surface.NewRecorder(1000, 800)
	_, err := chart.RenderLine(r, nil, nil, "Nowhere", nil)
	if !errors.Is(err, model.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if len(r.ElementsOf(surface.KindPath)) != 0 {
		t.Error("error state should not contain a path")
	}
}
