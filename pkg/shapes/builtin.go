package shapes

import (
	"image/color"
	"math"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// Names of the built-in shapes.
const (
	Square      = "square"
	Circle      = "circle"
	Diamond     = "diamond"
	Cross       = graph.ShapeCross
	Equilateral = graph.ShapeEquilateral
	Star        = graph.ShapeStar
	Pacman      = "pacman"
)

// Builtin returns a new registry holding the built-in shapes in their
// canonical order.
func Builtin() *Registry {
	r := NewRegistry()
	r.MustRegisterOutline(Square, TraceSquare)
	r.MustRegisterOutline(Circle, TraceCircle)
	r.MustRegisterOutline(Diamond, TraceDiamond)
	r.MustRegisterOutline(Cross, TraceCross, WithParams(graph.CrossParams{}))
	r.MustRegisterOutline(Equilateral, TraceEquilateral, WithParams(graph.EquilateralParams{}))
	r.MustRegisterOutline(Star, TraceStar, WithParams(graph.StarParams{}))
	r.MustRegister(Pacman, PaintPacman, nil)
	return r
}

// TraceSquare traces a square with its corners on the node radius.
func TraceSquare(_ *graph.Node, x, y, size float64, p surface.Path) {
	polygon(p, x, y, size, 4, math.Pi/4)
}

// TraceCircle traces the node disc.
func TraceCircle(_ *graph.Node, x, y, size float64, p surface.Path) {
	p.Arc(x, y, size, 0, 2*math.Pi, true)
}

// TraceDiamond traces a square standing on one corner.
func TraceDiamond(_ *graph.Node, x, y, size float64, p surface.Path) {
	p.MoveTo(x-size, y)
	p.LineTo(x, y-size)
	p.LineTo(x+size, y)
	p.LineTo(x, y+size)
}

// TraceCross traces a plus sign whose bars are 2*LineWeight thick.
func TraceCross(n *graph.Node, x, y, size float64, p surface.Path) {
	w := paramsOf[graph.CrossParams](n).WithDefaults().LineWeight
	p.MoveTo(x-size, y-w)
	p.LineTo(x-size, y+w)
	p.LineTo(x-w, y+w)
	p.LineTo(x-w, y+size)
	p.LineTo(x+w, y+size)
	p.LineTo(x+w, y+w)
	p.LineTo(x+size, y+w)
	p.LineTo(x+size, y-w)
	p.LineTo(x+w, y-w)
	p.LineTo(x+w, y-size)
	p.LineTo(x-w, y-size)
	p.LineTo(x-w, y-w)
}

// TraceEquilateral traces a regular polygon with its first vertex at
// 12 o'clock, turned clockwise by Rotate degrees.
func TraceEquilateral(n *graph.Node, x, y, size float64, p surface.Path) {
	params := paramsOf[graph.EquilateralParams](n).WithDefaults()
	polygon(p, x, y, size, params.NumPoints, params.Rotate*math.Pi/180)
}

// TraceStar traces a star with NumPoints tips on the node radius and inner
// vertices at size*InnerRatio.
func TraceStar(n *graph.Node, x, y, size float64, p surface.Path) {
	params := paramsOf[graph.StarParams](n).WithDefaults()
	count := float64(params.NumPoints)
	inner := size * params.InnerRatio
	offset := math.Pi / count

	p.MoveTo(x, y-size)
	for i := range params.NumPoints {
		a := 2 * math.Pi * float64(i) / count
		p.LineTo(x+math.Sin(offset+a)*inner, y-math.Cos(offset+a)*inner)
		b := 2 * math.Pi * float64(i+1) / count
		p.LineTo(x+math.Sin(b)*size, y-math.Cos(b)*size)
	}
}

var (
	pacmanYellow = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
	pacmanWhite  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	pacmanBlack  = color.NRGBA{A: 0xff}
)

// PaintPacman paints a yellow pacman with an eye. The node colour is
// ignored and there is no border.
func PaintPacman(_ *graph.Node, x, y, size float64, _ color.Color, s surface.Surface) {
	s.SetFillColor(pacmanYellow)
	s.BeginPath()
	s.Arc(x, y, size, 1.25*math.Pi, 0, false)
	s.Arc(x, y, size, 0, 0.75*math.Pi, false)
	s.LineTo(x, y)
	s.ClosePath()
	s.Fill()

	s.SetFillColor(pacmanWhite)
	s.SetStrokeColor(pacmanBlack)
	s.SetLineWidth(1)
	s.BeginPath()
	s.Arc(x+size/3, y-size/3, size/4, 0, 2*math.Pi, false)
	s.ClosePath()
	s.Fill()
	s.Stroke()

	s.SetFillColor(pacmanBlack)
	s.BeginPath()
	s.Arc(x+4*size/9, y-size/3, size/8, 0, 2*math.Pi, false)
	s.ClosePath()
	s.Fill()
}

// polygon traces a regular n-gon on radius r, first vertex at angle rot
// clockwise from 12 o'clock.
func polygon(p surface.Path, x, y, r float64, n int, rot float64) {
	p.MoveTo(x+r*math.Sin(rot), y-r*math.Cos(rot))
	for i := 1; i < n; i++ {
		a := rot + 2*math.Pi*float64(i)/float64(n)
		p.LineTo(x+math.Sin(a)*r, y-math.Cos(a)*r)
	}
}

// paramsOf returns the node's parameter record if it has type P, else the
// zero P.
func paramsOf[P graph.ShapeParams](n *graph.Node) P {
	var zero P
	if n == nil || n.Params == nil {
		return zero
	}
	if p, ok := n.Params.(P); ok {
		return p
	}
	return zero
}
