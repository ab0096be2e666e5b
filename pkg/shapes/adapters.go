package shapes

import (
	"image/color"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// BorderRatio is node size divided by border line width.
const BorderRatio = 5

// Painter draws a node on s. It only has side effects on s.
type Painter func(n *graph.Node, x, y, size float64, c color.Color, s surface.Surface)

// Tracer adds a node's outline to the current path.
type Tracer func(n *graph.Node, x, y, size float64, p surface.Path)

// FillAdapter returns a Painter that fills the outline traced by t.
func FillAdapter(t Tracer) Painter {
	return func(n *graph.Node, x, y, size float64, c color.Color, s surface.Surface) {
		s.SetFillColor(c)
		s.BeginPath()
		t(n, x, y, size, s)
		s.ClosePath()
		s.Fill()
	}
}

// BorderAdapter returns a Painter that strokes the outline traced by t with a
// line width of size/BorderRatio.
func BorderAdapter(t Tracer) Painter {
	return func(n *graph.Node, x, y, size float64, c color.Color, s surface.Surface) {
		s.SetStrokeColor(c)
		s.SetLineWidth(size / BorderRatio)
		s.BeginPath()
		t(n, x, y, size, s)
		s.ClosePath()
		s.Stroke()
	}
}
