// Package surface defines the 2D drawing surface the renderers target and
// provides the in-memory host used by gapview: a Recorder that keeps the
// drawn elements, hit-tests pointer events against them, and exports SVG.
//
// Renderers only ever see the Surface interface; nothing in the chart
// package knows about SVG.
package surface

// Point is a screen coordinate in pixels, origin top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style carries presentation attributes for a single element.
// Zero values mean "use the host default".
type Style struct {
	Stroke      string
	StrokeWidth float64
	Fill        string
	Opacity     float64 // 0 means fully opaque
	FontSize    float64 // points
	Anchor      string  // start|middle|end
	Rotate      float64 // degrees, around the element's anchor point
	LineJoin    string
	LineCap     string
}

// Handle identifies a drawn element on the surface that created it.
// The zero Handle refers to nothing.
type Handle int

// EventKind distinguishes pointer notifications.
type EventKind int

const (
	PointerEnter EventKind = iota + 1
	PointerLeave
)

func (k EventKind) String() string {
	switch k {
	case PointerEnter:
		return "enter"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// PointerEvent is delivered to handlers attached with On.
type PointerEvent struct {
	Kind   EventKind
	Pos    Point
	Target Handle
}

// Handler reacts to a pointer event on an element.
type Handler func(PointerEvent)

// Surface is the host drawing canvas: primitive draw calls at fixed pixel
// dimensions plus pointer handler attachment.
//
// Draw calls append; they never remove earlier elements. Clear removes every
// element and every attached handler.
type Surface interface {
	Size() (width, height float64)
	Line(a, b Point, st Style) Handle
	Path(pts []Point, st Style) Handle
	Circle(c Point, r float64, st Style) Handle
	Text(at Point, s string, st Style) Handle
	Clear()
	On(h Handle, kind EventKind, fn Handler)
}
