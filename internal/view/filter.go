// Package view holds the interactive state of gapview: the filter controller
// that owns the selected location and re-renders the line view, the tooltip
// controller that owns the single hover overlay, and App, which wires both
// to a loaded dataset and two surfaces.
package view

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/derickschaefer/gapview/internal/chart"
	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/surface"
	"github.com/derickschaefer/gapview/internal/util"
)

// State is the filter controller's lifecycle state.
type State int

const (
	Idle State = iota
	Rendering
)

func (s State) String() string {
	if s == Rendering {
		return "rendering"
	}
	return "idle"
}

// FilterController owns the current selection and redraws the line view
// whenever it changes.
//
// Renders never overlap. A selection that arrives while a render is in
// progress, whether from another goroutine or from a callback of the render
// itself, is queued; only the most recent queued value is kept, and it is
// rendered as soon as the current render finishes.
type FilterController struct {
	rows   []model.Row
	column string
	s      surface.Surface
	layout chart.Layout
	hover  chart.Hover
	// colErr is set when the dataset lacks the filter column; every render
	// then shows it.
	colErr error

	mu       sync.Mutex
	state    State
	selected string
	pending  *string
	lastErr  error
	renders  int
}

// NewFilterController returns a controller that filters rows on column and
// draws onto s. hover may be nil.
func NewFilterController(rows []model.Row, column string, s surface.Surface, l chart.Layout, hover chart.Hover) *FilterController {
	if column == "" {
		column = model.ColLocation
	}
	return &FilterController{rows: rows, column: column, s: s, layout: l, hover: hover}
}

// OnSelectionChanged selects value and redraws the line view for it.
//
// A dataset-level error (no rows for value, or a missing column) leaves an
// error message on the surface and is returned. When the call is queued
// behind a render in progress it returns nil immediately.
func (f *FilterController) OnSelectionChanged(value string) error {
	f.mu.Lock()
	if f.state == Rendering {
		f.pending = &value
		f.mu.Unlock()
		slog.Debug("selection queued", "value", value)
		return nil
	}
	f.state = Rendering
	f.mu.Unlock()

	for {
		f.mu.Lock()
		f.selected = value
		f.mu.Unlock()

		err := f.render(value)

		f.mu.Lock()
		f.renders++
		f.lastErr = err
		if f.pending == nil {
			f.state = Idle
			f.mu.Unlock()
			return err
		}
		value = *f.pending
		f.pending = nil
		f.mu.Unlock()
		if err != nil {
			slog.Warn("render superseded after error", "err", err)
		}
	}
}

func (f *FilterController) render(value string) error {
	if f.colErr != nil {
		chart.DrawError(f.s, f.colErr.Error())
		return f.colErr
	}
	subset := SortByTime(Filter(f.rows, f.column, value))
	if len(subset) == 0 {
		err := fmt.Errorf("%s %q: %w", f.column, value, model.ErrEmptyDataset)
		chart.DrawError(f.s, err.Error())
		return err
	}
	p, err := chart.BuildProjection(subset, model.ColTime, model.ColPopulation, f.layout.XRange, f.layout.YRange)
	if err != nil {
		chart.DrawError(f.s, err.Error())
		return err
	}
	if _, err := chart.RenderLine(f.s, subset, p, value, f.hover); err != nil {
		return err
	}
	slog.Debug("line rendered", "value", value, "rows", len(subset), "skipped", p.Skipped)
	return nil
}

// Selected returns the current selection.
func (f *FilterController) Selected() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// State returns the controller's lifecycle state.
func (f *FilterController) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Renders returns how many render passes have completed.
func (f *FilterController) Renders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renders
}

// Err returns the result of the last completed render pass.
func (f *FilterController) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// ─── Row helpers ──────────────────────────────────────────────────────────────

// Filter returns the rows whose column equals value exactly, in input order.
// The result shares Row values with rows.
func Filter(rows []model.Row, column, value string) []model.Row {
	var out []model.Row
	for _, r := range rows {
		if v, ok := r.Get(column); ok && v == value {
			out = append(out, r)
		}
	}
	return out
}

// SortByTime sorts rows in place by the numeric time column, ascending.
// The sort is stable; rows whose time does not parse keep their relative
// order after every row that does.
func SortByTime(rows []model.Row) []model.Row {
	type keyed struct {
		row model.Row
		key float64
	}
	ks := make([]keyed, len(rows))
	for i, r := range rows {
		k, err := util.ParseColumn(r, model.ColTime)
		if err != nil {
			k = math.Inf(1)
		}
		ks[i] = keyed{row: r, key: k}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		rows[i] = ks[i].row
	}
	return rows
}
