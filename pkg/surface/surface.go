package surface

import (
	"image"
	"image/color"
	"math"
)

// Path is the path-construction subset of a surface.
type Path interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc around (x, y) from angle start to angle end
	// (radians, clockwise in screen coordinates unless anticlockwise is set).
	Arc(x, y, r, start, end float64, anticlockwise bool)
}

// Surface is an immediate-mode drawing target.
type Surface interface {
	Path

	Save()
	Restore()

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)

	BeginPath()
	ClosePath()
	Fill()
	Stroke()
	Clip()

	// DrawImage draws img scaled into the rectangle at (x, y) with size w×h,
	// subject to the current clip.
	DrawImage(img image.Image, x, y, w, h float64)
}

// ArcSweep returns the signed angle an arc from start to end covers, using
// the canvas rules: a requested span of at least one full turn in the drawing
// direction is a full circle, otherwise the end angle is reached by moving in
// the drawing direction by less than a full turn. A negative result means
// anticlockwise.
func ArcSweep(start, end float64, anticlockwise bool) float64 {
	const tau = 2 * math.Pi
	if !anticlockwise {
		switch {
		case end-start >= tau:
			return tau
		case start > end:
			return tau - math.Mod(start-end, tau)
		default:
			return end - start
		}
	}
	switch {
	case start-end >= tau:
		return -tau
	case start < end:
		return -(tau - math.Mod(end-start, tau))
	default:
		return -(start - end)
	}
}

// IsFullTurn reports whether a sweep covers the whole circumference.
func IsFullTurn(sweep float64) bool {
	return math.Abs(sweep) >= 2*math.Pi-1e-9
}
