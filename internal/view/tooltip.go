package view

import (
	"fmt"
	"sync"
	"time"

	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/surface"
	"github.com/derickschaefer/gapview/internal/util"
)

// Tooltip timing and placement.
const (
	FadeIn  = 200 * time.Millisecond
	FadeOut = 500 * time.Millisecond
	// OffsetY lifts the overlay above the pointer.
	OffsetY = 28
)

// ContentFunc renders the tooltip text for the hovered row.
type ContentFunc func(model.Row) string

// DefaultContent shows the location, year and population of a row.
func DefaultContent(r model.Row) string {
	loc, _ := r.Get(model.ColLocation)
	year, _ := r.Get(model.ColTime)
	pop, err := util.ParseColumn(r, model.ColPopulation)
	if err != nil {
		return fmt.Sprintf("%s %s", loc, year)
	}
	return fmt.Sprintf("%s %s: %s M", loc, year, util.FormatValue(pop))
}

// Tooltip owns the one hover overlay. Enter and leave events only move and
// fade that overlay; there is never more than one.
//
// Opacity is a pure function of the clock: each transition records its start
// time, start opacity and target, and Opacity interpolates linearly between
// them. A transition that interrupts another starts from wherever the old
// one had got to.
type Tooltip struct {
	now     func() time.Time
	content ContentFunc

	mu     sync.Mutex
	origin surface.Point
	text   string
	row    model.Row
	embed  *surface.Recorder
	from   float64
	to     float64
	start  time.Time
	dur    time.Duration
	enters int
	leaves int
}

// NewTooltip returns a hidden tooltip. now defaults to time.Now and content
// to DefaultContent.
func NewTooltip(now func() time.Time, content ContentFunc) *Tooltip {
	if now == nil {
		now = time.Now
	}
	if content == nil {
		content = DefaultContent
	}
	return &Tooltip{now: now, content: content}
}

// OnEnter moves the overlay to pt, offset upward by OffsetY, shows row in it,
// and starts fading it in over FadeIn.
func (t *Tooltip) OnEnter(pt surface.Point, row model.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.origin = surface.Point{X: pt.X, Y: pt.Y - OffsetY}
	t.row = row
	t.text = t.content(row)
	t.transition(1, FadeIn)
	t.enters++
}

// OnLeave starts fading the overlay out over FadeOut. The overlay keeps its
// position and text while it fades.
func (t *Tooltip) OnLeave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transition(0, FadeOut)
	t.leaves++
}

func (t *Tooltip) transition(to float64, d time.Duration) {
	now := t.now()
	t.from = t.opacityAt(now)
	t.to = to
	t.start = now
	t.dur = d
}

func (t *Tooltip) opacityAt(now time.Time) float64 {
	if t.dur <= 0 {
		return t.to
	}
	elapsed := now.Sub(t.start)
	if elapsed <= 0 {
		return t.from
	}
	if elapsed >= t.dur {
		return t.to
	}
	frac := float64(elapsed) / float64(t.dur)
	return t.from + (t.to-t.from)*frac
}

// Opacity returns the overlay opacity now.
func (t *Tooltip) Opacity() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opacityAt(t.now())
}

// Embed sets a surface drawn inside the overlay box.
func (t *Tooltip) Embed(r *surface.Recorder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.embed = r
}

// Row returns the most recently hovered row, or nil.
func (t *Tooltip) Row() model.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.row
}

// Counts returns how many enter and leave notifications were received.
func (t *Tooltip) Counts() (enters, leaves int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enters, t.leaves
}

// Overlay returns the overlay as it looks now.
func (t *Tooltip) Overlay() surface.Overlay {
	t.mu.Lock()
	defer t.mu.Unlock()
	return surface.Overlay{
		Origin:  t.origin,
		Opacity: t.opacityAt(t.now()),
		Text:    t.text,
		Content: t.embed,
	}
}
