package render

import (
	"math"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/imagecache"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// Overlay is the placement of a node's image: the rectangle the image is
// scaled into and the disc it is clipped to.
type Overlay struct {
	URL string

	X, Y, W, H float64 // image rectangle

	ClipX, ClipY, ClipR float64 // clip disc

	XRatio, YRatio float64 // aspect correction, the longer side is 1
}

// OverlayGeometry computes a node's image overlay at (x, y, size). It
// reports false when the node has no image. Zero width, height, scale and
// clip all mean 1.
func OverlayGeometry(n *graph.Node, x, y, size float64) (Overlay, bool) {
	if n.Image == nil || n.Image.URL == "" {
		return Overlay{}, false
	}
	img := n.Image
	w, h := orOne(img.W), orOne(img.H)
	scale, clip := orOne(img.Scale), orOne(img.Clip)

	xratio, yratio := 1.0, 1.0
	if w < h {
		xratio = w / h
	}
	if h < w {
		yratio = h / w
	}

	r := size * scale
	k := math.Sin(math.Pi / 4)
	return Overlay{
		URL:    img.URL,
		X:      x - k*r*xratio,
		Y:      y - k*r*yratio,
		W:      2 * k * r * xratio,
		H:      2 * k * r * yratio,
		ClipX:  x,
		ClipY:  y,
		ClipR:  size * clip,
		XRatio: xratio,
		YRatio: yratio,
	}, true
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// paintOverlay draws the node's image once it has loaded. Loading and failed
// images draw nothing; the shape underneath stays visible.
func (r *Renderer) paintOverlay(n *graph.Node, x, y, size float64, s surface.Surface) {
	ov, ok := OverlayGeometry(n, x, y, size)
	r.track(n.ID, ov.URL)
	if !ok {
		return
	}

	img, status := r.images.Request(ov.URL)
	if status != imagecache.StatusOK {
		return
	}

	s.Save()
	s.BeginPath()
	s.Arc(ov.ClipX, ov.ClipY, ov.ClipR, 0, 2*math.Pi, true)
	s.ClosePath()
	s.Clip()
	s.DrawImage(img, ov.X, ov.Y, ov.W, ov.H)
	s.Restore()
}

// track keeps one image reference per node, so that loads nobody waits for
// any more can be abandoned.
func (r *Renderer) track(nodeID, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.nodeImages[nodeID]
	if prev == url {
		return
	}
	if prev != "" {
		r.images.Release(prev)
	}
	if url == "" {
		delete(r.nodeImages, nodeID)
		return
	}
	r.images.Acquire(url)
	r.nodeImages[nodeID] = url
}
