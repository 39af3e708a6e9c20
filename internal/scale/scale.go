// Package scale implements the numeric half of the rendering pipeline:
// extents over a column and linear domain→range transforms.
//
// Every value in this package is immutable. A render pass builds fresh
// Extents and Linear scales from its own row subset; nothing is cached.
package scale

import (
	"fmt"
	"math"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/derickschaefer/gapview/internal/model"
)

// ─── Extent ───────────────────────────────────────────────────────────────────

// Extent is the closed interval [Min, Max] covered by a set of values.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ExtentOf returns the minimum and maximum of values.
//
// An empty input fails with model.ErrEmptyDataset. NaN or infinite entries
// fail with model.ErrInvalidValue; callers filter unparseable cells out
// before calling.
func ExtentOf(values []float64) (Extent, error) {
	if len(values) == 0 {
		return Extent{}, fmt.Errorf("extent: %w", model.ErrEmptyDataset)
	}
	e := Extent{Min: math.Inf(1), Max: math.Inf(-1)}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Extent{}, fmt.Errorf("extent: value %d (%g): %w", i, v, model.ErrInvalidValue)
		}
		if v < e.Min {
			e.Min = v
		}
		if v > e.Max {
			e.Max = v
		}
	}
	return e, nil
}

// Interval returns the extent as an ascending interval.
func (e Extent) Interval() Interval {
	return Interval{Lo: e.Min, Hi: e.Max}
}

// Reversed returns the extent as a descending interval [Max, Min].
// Used for screen Y axes, where larger values sit nearer the top.
func (e Extent) Reversed() Interval {
	return Interval{Lo: e.Max, Hi: e.Min}
}

// ─── Linear ───────────────────────────────────────────────────────────────────

// Interval is an ordered pair of endpoints. Lo need not be less than Hi.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Mid returns the midpoint of the interval.
func (iv Interval) Mid() float64 {
	return (iv.Lo + iv.Hi) / 2
}

// Span returns Hi - Lo.
func (iv Interval) Span() float64 {
	return iv.Hi - iv.Lo
}

// Min and Max return the smaller and larger endpoint.
func (iv Interval) Min() float64 { return math.Min(iv.Lo, iv.Hi) }
func (iv Interval) Max() float64 { return math.Max(iv.Lo, iv.Hi) }

// Linear maps Domain onto Range linearly.
//
// Degenerate domain policy: when Domain.Lo == Domain.Hi (every value in the
// column is identical), Map returns the midpoint of Range for every input
// instead of the NaN/Inf that the division would produce.
type Linear struct {
	Domain Interval `json:"domain"`
	Range  Interval `json:"range"`
}

// NewLinear builds a Linear scale.
func NewLinear(domain, rng Interval) Linear {
	return Linear{Domain: domain, Range: rng}
}

// IsDegenerate reports whether the domain has zero width, in which case Map
// collapses every input onto the range midpoint.
func (s Linear) IsDegenerate() bool {
	return s.Domain.Hi == s.Domain.Lo
}

// Map converts a domain value to a range value.
func (s Linear) Map(v float64) float64 {
	if s.IsDegenerate() {
		return s.Range.Mid()
	}
	return s.Range.Lo + (v-s.Domain.Lo)/s.Domain.Span()*s.Range.Span()
}

// Invert converts a range value (e.g. a pointer coordinate) back to the
// domain. On a degenerate domain or range every input inverts to Domain.Lo.
func (s Linear) Invert(r float64) float64 {
	if s.IsDegenerate() || s.Range.Hi == s.Range.Lo {
		return s.Domain.Lo
	}
	return s.Domain.Lo + (r-s.Range.Lo)/s.Range.Span()*s.Domain.Span()
}

// Ticks returns up to max evenly spaced, round-numbered domain values in
// ascending order. The result depends only on the scale and max, so the same
// scale always produces the same ticks.
//
// A degenerate domain has a single tick at its only value.
func (s Linear) Ticks(max int) []float64 {
	if max < 1 {
		max = 1
	}
	if s.IsDegenerate() {
		return []float64{s.Domain.Lo}
	}
	lo, hi := s.Domain.Min(), s.Domain.Max()
	ls := mscale.Linear{Min: lo, Max: hi}
	major, _ := ls.Ticks(mscale.TickOptions{Max: max})

	// Ticks may land a rounding error outside the domain; keep the ones that
	// are inside within a relative tolerance and snap them to the bounds.
	eps := (hi - lo) * 1e-9
	out := make([]float64, 0, len(major))
	for _, t := range major {
		if t < lo-eps || t > hi+eps {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return []float64{lo, hi}
	}
	return out
}
