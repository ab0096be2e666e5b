package surface

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Raster is a Surface backed by an RGBA image.
//
// The raster keeps its own copy of the current path and of the clip stack.
// Restore rebuilds the clip mask from that stack, so clips set inside a
// Save/Restore bracket never leak into later drawing.
type Raster struct {
	dc    *gg.Context
	path  []Segment
	clips [][]Segment
	stack [][][]Segment
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a transparent raster surface of the given size in pixels.
func NewRaster(width, height int) *Raster {
	return &Raster{dc: gg.NewContext(width, height)}
}

// NewRasterFor wraps an existing RGBA image; drawing writes into img.
func NewRasterFor(img *image.RGBA) *Raster {
	return &Raster{dc: gg.NewContextForRGBA(img)}
}

// Width returns the surface width in pixels.
func (r *Raster) Width() int { return r.dc.Width() }

// Height returns the surface height in pixels.
func (r *Raster) Height() int { return r.dc.Height() }

// Clear fills the whole surface with c, ignoring the clip.
func (r *Raster) Clear(c color.Color) {
	r.dc.Push()
	r.dc.ResetClip()
	r.dc.SetColor(c)
	r.dc.Clear()
	r.dc.Pop()
	r.applyClips()
}

// Image returns the backing image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the surface as a PNG image.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

func (r *Raster) Save() {
	r.dc.Push()
	r.stack = append(r.stack, append([][]Segment(nil), r.clips...))
}

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.dc.Pop()
	changed := len(r.clips) != len(r.stack[len(r.stack)-1])
	r.clips = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	if changed {
		r.applyClips()
	}
}

func (r *Raster) SetFillColor(c color.Color)   { r.dc.SetFillStyle(gg.NewSolidPattern(c)) }
func (r *Raster) SetStrokeColor(c color.Color) { r.dc.SetStrokeStyle(gg.NewSolidPattern(c)) }
func (r *Raster) SetLineWidth(w float64)       { r.dc.SetLineWidth(w) }

func (r *Raster) BeginPath() {
	r.dc.ClearPath()
	r.path = nil
}

func (r *Raster) ClosePath() {
	r.dc.ClosePath()
	r.path = append(r.path, Segment{Kind: SegClose})
}

func (r *Raster) MoveTo(x, y float64) {
	r.dc.MoveTo(x, y)
	r.path = append(r.path, Segment{Kind: SegMove, X: x, Y: y})
}

func (r *Raster) LineTo(x, y float64) {
	r.dc.LineTo(x, y)
	r.path = append(r.path, Segment{Kind: SegLine, X: x, Y: y})
}

func (r *Raster) Arc(x, y, radius, start, end float64, anticlockwise bool) {
	seg := Segment{Kind: SegArc, X: x, Y: y, R: radius, Start: start, Sweep: ArcSweep(start, end, anticlockwise)}
	r.dc.DrawArc(seg.X, seg.Y, seg.R, seg.Start, seg.Start+seg.Sweep)
	r.path = append(r.path, seg)
}

// Fill, Stroke and Clip keep the current path, as a canvas does.
func (r *Raster) Fill()   { r.dc.FillPreserve() }
func (r *Raster) Stroke() { r.dc.StrokePreserve() }

func (r *Raster) Clip() {
	r.dc.ClipPreserve()
	r.clips = append(r.clips, append([]Segment(nil), r.path...))
}

func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	pw, ph := int(math.Round(w)), int(math.Round(h))
	if pw <= 0 || ph <= 0 || img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() != pw || b.Dy() != ph {
		img = imaging.Resize(img, pw, ph, imaging.Lanczos)
	}
	r.dc.DrawImage(img, int(math.Round(x)), int(math.Round(y)))
}

// applyClips rebuilds the clip mask from r.clips and then restores the
// current path.
func (r *Raster) applyClips() {
	r.dc.ResetClip()
	for _, clip := range r.clips {
		r.dc.ClearPath()
		r.replay(clip)
		r.dc.Clip()
	}
	r.dc.ClearPath()
	r.replay(r.path)
}

func (r *Raster) replay(segs []Segment) {
	for _, s := range segs {
		switch s.Kind {
		case SegMove:
			r.dc.MoveTo(s.X, s.Y)
		case SegLine:
			r.dc.LineTo(s.X, s.Y)
		case SegArc:
			r.dc.DrawArc(s.X, s.Y, s.R, s.Start, s.Start+s.Sweep)
		case SegClose:
			r.dc.ClosePath()
		}
	}
}
