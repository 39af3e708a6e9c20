package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/derickschaefer/gapview/internal/chart"
	"github.com/derickschaefer/gapview/internal/events"
	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/surface"
	"github.com/derickschaefer/gapview/internal/util"
)

// Options configures an App. The zero value is usable.
type Options struct {
	// CategoryColumn is the column the selector filters on.
	CategoryColumn string
	// Clock drives tooltip fades and waits. Defaults to WallClock.
	Clock Clock
	// Content renders tooltip text. Defaults to DefaultContent.
	Content ContentFunc
	// EmbedScatter draws the scatter view inside the tooltip overlay.
	EmbedScatter bool
}

// App is the explicit application state: the shared dataset, one surface
// per view, and the two controllers.
type App struct {
	Data       *model.Dataset
	Categories []string
	Scatter    *surface.Recorder
	Line       *surface.Recorder
	Filter     *FilterController
	Tooltip    *Tooltip

	clock        Clock
	scatterMarks int
	scatterErr   error
	lineErr      error
}

// NewApp builds the views for ds. Nothing is drawn until Start.
func NewApp(ds *model.Dataset, opts Options) *App {
	if opts.CategoryColumn == "" {
		opts.CategoryColumn = model.ColLocation
	}
	if opts.Clock == nil {
		opts.Clock = WallClock{}
	}
	a := &App{
		Data:       ds,
		Categories: model.Categories(ds.Rows, opts.CategoryColumn),
		Scatter:    surface.NewRecorder(chart.ScatterLayout.Width, chart.ScatterLayout.Height),
		Line:       surface.NewRecorder(chart.LineLayout.Width, chart.LineLayout.Height),
		Tooltip:    NewTooltip(opts.Clock.Now, opts.Content),
		clock:      opts.Clock,
	}
	a.Filter = NewFilterController(ds.Rows, opts.CategoryColumn, a.Line, chart.LineLayout, a.Tooltip)
	if ds.Len() > 0 && !ds.HasColumn(opts.CategoryColumn) {
		a.Filter.colErr = fmt.Errorf("category column %q: %w", opts.CategoryColumn, model.ErrSchema)
	}
	if opts.EmbedScatter {
		a.Tooltip.Embed(a.Scatter)
	}
	return a
}

// Start draws the initial state: the line view for the first category and
// the scatter view of every row. A failure in one view does not stop the
// other; both errors are returned together. A dataset without the category
// column leaves the line view showing an ErrSchema message.
func (a *App) Start() error {
	var errs util.MultiError

	if a.Filter.colErr != nil {
		chart.DrawError(a.Line, a.Filter.colErr.Error())
		a.lineErr = a.Filter.colErr
		errs.Add(a.lineErr)
	} else if len(a.Categories) == 0 {
		err := fmt.Errorf("no values in column %q: %w", a.Filter.column, model.ErrEmptyDataset)
		chart.DrawError(a.Line, err.Error())
		a.lineErr = err
		errs.Add(err)
	} else {
		errs.Add(a.Filter.OnSelectionChanged(a.Categories[0]))
	}

	a.scatterMarks, a.scatterErr = chart.DrawScatterView(a.Scatter, a.Data.Rows, chart.ScatterLayout)
	errs.Add(a.scatterErr)
	slog.Debug("views started", "categories", len(a.Categories), "marks", a.scatterMarks)
	return errs.Err()
}

// Dispatch applies one interaction. It is the events.Handler for the App.
func (a *App) Dispatch(ctx context.Context, ev events.Event) error {
	switch ev.Kind {
	case events.Select:
		return a.Filter.OnSelectionChanged(ev.Value)
	case events.Move:
		a.Line.PointerMove(ev.Pos)
	case events.Out:
		a.Line.PointerOut(ev.Pos)
	case events.Wait:
		return a.clock.Wait(ctx, ev.Delay)
	default:
		return fmt.Errorf("unsupported event %s", ev.Kind)
	}
	return nil
}

// ScatterMarks returns the number of marks the scatter view drew.
func (a *App) ScatterMarks() int {
	return a.scatterMarks
}

// ScatterErr returns the error that replaced the scatter view, if any.
func (a *App) ScatterErr() error {
	return a.scatterErr
}

// LineErr returns the error that replaced the line view, if any.
func (a *App) LineErr() error {
	if a.lineErr != nil {
		return a.lineErr
	}
	return a.Filter.Err()
}

// WriteLine exports the line view with the tooltip overlay.
func (a *App) WriteLine(w io.Writer) error {
	return surface.WriteSVG(w, a.Line, a.Tooltip.Overlay())
}

// WriteScatter exports the scatter view.
func (a *App) WriteScatter(w io.Writer) error {
	return surface.WriteSVG(w, a.Scatter)
}
