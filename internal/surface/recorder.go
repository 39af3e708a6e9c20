package surface

import (
	"math"
)

// Kind is the primitive type of a recorded element.
type Kind int

const (
	KindLine Kind = iota + 1
	KindPath
	KindCircle
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindPath:
		return "path"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Element is one recorded draw call.
type Element struct {
	Handle Handle
	Kind   Kind
	Points []Point // line: 2, path: n, circle/text: 1
	R      float64
	Text   string
	Style  Style
}

// HitSlop is the extra distance in pixels, beyond half the stroke width,
// within which a pointer counts as over a line or path.
const HitSlop = 2.0

// Recorder is an in-memory Surface. It is the host used by the CLI and by
// tests. It is not safe for concurrent use; each view owns its Recorder and
// only that view's renderer draws on it.
type Recorder struct {
	width, height float64

	elements []Element
	handlers map[Handle]map[EventKind]Handler
	next     Handle
	hovered  Handle
	pointer  Point
	clears   int
}

// NewRecorder returns an empty surface of the given pixel size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		width:    width,
		height:   height,
		handlers: make(map[Handle]map[EventKind]Handler),
	}
}

// Size implements Surface.
func (r *Recorder) Size() (float64, float64) {
	return r.width, r.height
}

func (r *Recorder) add(e Element) Handle {
	r.next++
	e.Handle = r.next
	r.elements = append(r.elements, e)
	return e.Handle
}

// Line implements Surface.
func (r *Recorder) Line(a, b Point, st Style) Handle {
	return r.add(Element{Kind: KindLine, Points: []Point{a, b}, Style: st})
}

// Path implements Surface. The points are copied.
func (r *Recorder) Path(pts []Point, st Style) Handle {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return r.add(Element{Kind: KindPath, Points: cp, Style: st})
}

// Circle implements Surface.
func (r *Recorder) Circle(c Point, radius float64, st Style) Handle {
	return r.add(Element{Kind: KindCircle, Points: []Point{c}, R: radius, Style: st})
}

// Text implements Surface.
func (r *Recorder) Text(at Point, s string, st Style) Handle {
	return r.add(Element{Kind: KindText, Points: []Point{at}, Text: s, Style: st})
}

// Clear implements Surface. Handles issued before the clear become invalid.
// An element removed while hovered receives its PointerLeave first, at the
// last pointer position.
func (r *Recorder) Clear() {
	if h := r.hovered; h != 0 {
		r.hovered = 0
		r.fire(h, PointerLeave, r.pointer)
	}
	r.elements = nil
	r.handlers = make(map[Handle]map[EventKind]Handler)
	r.hovered = 0
	r.clears++
}

// On implements Surface. Attaching to an unknown handle is a no-op.
func (r *Recorder) On(h Handle, kind EventKind, fn Handler) {
	if r.lookup(h) < 0 || fn == nil {
		return
	}
	m := r.handlers[h]
	if m == nil {
		m = make(map[EventKind]Handler)
		r.handlers[h] = m
	}
	m[kind] = fn
}

// Elements returns a copy of the recorded elements in draw order.
func (r *Recorder) Elements() []Element {
	out := make([]Element, len(r.elements))
	copy(out, r.elements)
	return out
}

// ElementsOf returns the recorded elements of one kind, in draw order.
func (r *Recorder) ElementsOf(k Kind) []Element {
	var out []Element
	for _, e := range r.elements {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Clears returns how many times Clear has been called.
func (r *Recorder) Clears() int {
	return r.clears
}

// Hovered returns the element currently under the pointer, or 0.
func (r *Recorder) Hovered() Handle {
	return r.hovered
}

func (r *Recorder) lookup(h Handle) int {
	for i := range r.elements {
		if r.elements[i].Handle == h {
			return i
		}
	}
	return -1
}

// ─── Pointer dispatch ─────────────────────────────────────────────────────────

// PointerMove moves the pointer to p. If the topmost interactive element under
// p differs from the one previously hovered, the old element receives a
// PointerLeave and the new one a PointerEnter.
func (r *Recorder) PointerMove(p Point) {
	r.pointer = p
	target := r.hitTest(p)
	if target == r.hovered {
		return
	}
	if r.hovered != 0 {
		r.fire(r.hovered, PointerLeave, p)
	}
	r.hovered = target
	if target != 0 {
		r.fire(target, PointerEnter, p)
	}
}

// PointerOut reports that the pointer left the surface entirely.
func (r *Recorder) PointerOut(p Point) {
	if r.hovered == 0 {
		return
	}
	h := r.hovered
	r.hovered = 0
	r.pointer = p
	r.fire(h, PointerLeave, p)
}

func (r *Recorder) fire(h Handle, kind EventKind, p Point) {
	if fn := r.handlers[h][kind]; fn != nil {
		fn(PointerEvent{Kind: kind, Pos: p, Target: h})
	}
}

// hitTest returns the topmost element with at least one handler that
// contains p, or 0.
func (r *Recorder) hitTest(p Point) Handle {
	for i := len(r.elements) - 1; i >= 0; i-- {
		e := r.elements[i]
		if len(r.handlers[e.Handle]) == 0 {
			continue
		}
		if contains(e, p) {
			return e.Handle
		}
	}
	return 0
}

func contains(e Element, p Point) bool {
	switch e.Kind {
	case KindCircle:
		c := e.Points[0]
		return math.Hypot(p.X-c.X, p.Y-c.Y) <= e.R+HitSlop
	case KindLine, KindPath:
		reach := e.Style.StrokeWidth/2 + HitSlop
		if len(e.Points) == 1 {
			q := e.Points[0]
			return math.Hypot(p.X-q.X, p.Y-q.Y) <= reach
		}
		for i := 1; i < len(e.Points); i++ {
			if segmentDistance(p, e.Points[i-1], e.Points[i]) <= reach {
				return true
			}
		}
	}
	return false
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
