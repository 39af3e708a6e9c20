package surface

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// Overlay is a floating layer composited above a surface on export, such as
// the tooltip. Content, when non-nil, is drawn inside the overlay box.
type Overlay struct {
	Origin  Point
	Opacity float64
	Text    string
	Content *Recorder
}

const overlayFontSize = 10

// WriteSVG serialises r, followed by any visible overlays, as an SVG
// document. Coordinates are rounded to whole pixels.
func WriteSVG(w io.Writer, r *Recorder, overlays ...Overlay) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := r.Size()
	canvas.Start(px(width), px(height), `font-family="Helvetica,Arial,sans-serif"`)
	writeElements(canvas, r.elements)

	for _, ov := range overlays {
		if ov.Opacity <= 0 {
			continue
		}
		canvas.Group(`class="tooltip"`, fmt.Sprintf(`opacity="%s"`, num(ov.Opacity)),
			fmt.Sprintf(`transform="translate(%d,%d)"`, px(ov.Origin.X), px(ov.Origin.Y)))
		if ov.Content != nil {
			cw, ch := ov.Content.Size()
			canvas.Rect(0, 0, px(cw), px(ch), "fill:white;stroke:#ccc")
			writeElements(canvas, ov.Content.elements)
		}
		if ov.Text != "" {
			canvas.Text(4, overlayFontSize+2, ov.Text, fmt.Sprintf("font-size:%dpt", overlayFontSize))
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

func writeElements(canvas *svg.SVG, elements []Element) {
	for _, e := range elements {
		switch e.Kind {
		case KindLine:
			a, b := e.Points[0], e.Points[1]
			canvas.Line(px(a.X), px(a.Y), px(b.X), px(b.Y), styleString(e.Style, false))
		case KindPath:
			if len(e.Points) == 0 {
				continue
			}
			xs := make([]int, len(e.Points))
			ys := make([]int, len(e.Points))
			for i, p := range e.Points {
				xs[i], ys[i] = px(p.X), px(p.Y)
			}
			canvas.Polyline(xs, ys, styleString(e.Style, false))
		case KindCircle:
			c := e.Points[0]
			canvas.Circle(px(c.X), px(c.Y), px(e.R), styleString(e.Style, false))
		case KindText:
			at := e.Points[0]
			if e.Style.Rotate != 0 {
				canvas.TranslateRotate(px(at.X), px(at.Y), e.Style.Rotate)
				canvas.Text(0, 0, e.Text, styleString(e.Style, true))
				canvas.Gend()
				continue
			}
			canvas.Text(px(at.X), px(at.Y), e.Text, styleString(e.Style, true))
		}
	}
}

// styleString renders st as a CSS declaration list for svgo's style argument.
func styleString(st Style, text bool) string {
	var parts []string
	add := func(k, v string) {
		parts = append(parts, k+":"+v)
	}
	switch {
	case st.Fill != "":
		add("fill", st.Fill)
	case !text:
		add("fill", "none")
	}
	if st.Stroke != "" {
		add("stroke", st.Stroke)
	}
	if st.StrokeWidth > 0 {
		add("stroke-width", num(st.StrokeWidth))
	}
	if st.LineJoin != "" {
		add("stroke-linejoin", st.LineJoin)
	}
	if st.LineCap != "" {
		add("stroke-linecap", st.LineCap)
	}
	if st.Opacity > 0 {
		add("opacity", num(st.Opacity))
	}
	if st.FontSize > 0 {
		add("font-size", num(st.FontSize)+"pt")
	}
	if st.Anchor != "" {
		add("text-anchor", st.Anchor)
	}
	return strings.Join(parts, ";")
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// errWriter records the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
