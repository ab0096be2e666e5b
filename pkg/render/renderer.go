package render

import (
	"context"
	"image/color"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/imagecache"
	"github.com/matzehuels/nodeshapes/pkg/observability"
	"github.com/matzehuels/nodeshapes/pkg/scene"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// CanvasFunc paints one node on an immediate-mode surface. Surface state is
// restored before it returns.
type CanvasFunc func(n *graph.Node, s surface.Surface, settings Settings)

// SVGFuncs are the retained-mode functions of one shape.
type SVGFuncs struct {
	// Create builds the node's group. Hosts call it once per node.
	Create func(n *graph.Node, settings Settings) *scene.Element

	// Update brings a group returned by Create in line with the node,
	// mutating the existing elements in place, and makes it visible.
	Update func(n *graph.Node, g *scene.Element, settings Settings)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRefresh sets the host repaint hook, called after an overlay image has
// loaded. It may be called from another goroutine.
func WithRefresh(fn func()) Option {
	return func(r *Renderer) { r.refresh = fn }
}

// WithLoader sets the image loader of the renderer's own image cache.
func WithLoader(l imagecache.Loader) Option {
	return func(r *Renderer) { r.loader = l }
}

// WithImageCache uses an existing image cache instead of creating one. The
// cache's own ready callback decides about repaints, and Close leaves it open.
func WithImageCache(c *imagecache.Cache) Option {
	return func(r *Renderer) { r.images = c }
}

// WithMaxImages bounds the renderer's own image cache with an LRU policy.
func WithMaxImages(n int) Option {
	return func(r *Renderer) { r.maxImages = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer holds the bound renderer tables for one host. Instances share
// nothing with each other.
type Renderer struct {
	id        string
	logger    *log.Logger
	refresh   func()
	loader    imagecache.Loader
	maxImages int

	images     *imagecache.Cache
	ownsImages bool

	descs  map[string]shapes.Descriptor
	names  []string
	canvas map[string]CanvasFunc
	svg    map[string]SVGFuncs

	mu         sync.Mutex
	nodeImages map[string]string // node id -> referenced image URL
}

// New binds every shape of reg. Shapes registered on reg afterwards are not
// seen; for duplicate names the last registration is bound.
func New(reg *shapes.Registry, opts ...Option) *Renderer {
	r := &Renderer{
		id:         uuid.NewString(),
		logger:     log.New(io.Discard),
		descs:      make(map[string]shapes.Descriptor),
		canvas:     make(map[string]CanvasFunc),
		svg:        make(map[string]SVGFuncs),
		nodeImages: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("renderer", r.id[:8])

	if r.images == nil {
		loader := r.loader
		if loader == nil {
			loader = imagecache.NewMuxLoader(imagecache.NewHTTPLoader(), imagecache.FileLoader{})
		}
		r.images = imagecache.New(loader,
			imagecache.WithOnReady(r.imageReady),
			imagecache.WithLogger(r.logger),
			imagecache.WithMaxEntries(r.maxImages),
		)
		r.ownsImages = true
	}

	for _, d := range reg.Enumerate() {
		if _, seen := r.descs[d.Name]; !seen {
			r.names = append(r.names, d.Name)
		}
		r.descs[d.Name] = d
		r.canvas[d.Name] = r.bindCanvas(d)
		r.svg[d.Name] = SVGFuncs{Create: r.bindCreate(d), Update: r.bindUpdate(d)}
	}
	r.logger.Debug("renderer ready", "shapes", len(r.names))
	return r
}

// ID returns the renderer's instance id.
func (r *Renderer) ID() string { return r.id }

// Shapes returns the bound shape names in registration order.
func (r *Renderer) Shapes() []string { return append([]string(nil), r.names...) }

// Canvas returns the immediate-mode table keyed by shape name.
func (r *Renderer) Canvas() map[string]CanvasFunc {
	out := make(map[string]CanvasFunc, len(r.canvas))
	for k, v := range r.canvas {
		out[k] = v
	}
	return out
}

// SVG returns the retained-mode table keyed by shape name.
func (r *Renderer) SVG() map[string]SVGFuncs {
	out := make(map[string]SVGFuncs, len(r.svg))
	for k, v := range r.svg {
		out[k] = v
	}
	return out
}

// Images returns the image cache used for overlays.
func (r *Renderer) Images() *imagecache.Cache { return r.images }

// Prefetch starts loading overlay images ahead of the first paint.
func (r *Renderer) Prefetch(urls ...string) { r.images.Prefetch(urls...) }

// Forget drops the image reference held for a node that left the graph.
func (r *Renderer) Forget(nodeID string) { r.track(nodeID, "") }

// Close releases the image cache if the renderer created it.
func (r *Renderer) Close() error {
	if r.ownsImages {
		return r.images.Close()
	}
	return nil
}

// DrawNode paints n with the canvas function of its shape.
func (r *Renderer) DrawNode(n *graph.Node, s surface.Surface, settings Settings) error {
	name := shapeOf(n, settings)
	fn, ok := r.canvas[name]
	if !ok {
		return r.unknown("canvas", n, name)
	}
	fn(n, s, settings)
	return nil
}

// CreateNode builds the retained group of n.
func (r *Renderer) CreateNode(n *graph.Node, settings Settings) (*scene.Element, error) {
	name := shapeOf(n, settings)
	fns, ok := r.svg[name]
	if !ok {
		return nil, r.unknown("svg", n, name)
	}
	return fns.Create(n, settings), nil
}

// UpdateNode updates the retained group of n in place.
func (r *Renderer) UpdateNode(n *graph.Node, g *scene.Element, settings Settings) error {
	name := shapeOf(n, settings)
	fns, ok := r.svg[name]
	if !ok {
		return r.unknown("svg", n, name)
	}
	fns.Update(n, g, settings)
	return nil
}

func shapeOf(n *graph.Node, settings Settings) string {
	if n.Shape != "" {
		return n.Shape
	}
	return settings.String(KeyDefaultNodeType)
}

func (r *Renderer) unknown(backend string, n *graph.Node, name string) error {
	observability.Render().OnUnknownShape(context.Background(), backend, name)
	r.logger.Debug("unknown shape", "node", n.ID, "shape", name)
	return errors.New(errors.ErrCodeUnknownShape, "node %q: no shape registered as %q", n.ID, name)
}

func (r *Renderer) imageReady(string) {
	if r.refresh != nil {
		r.refresh()
	}
}

// nodeStyle is the resolved placement and colours of a node.
type nodeStyle struct {
	x, y, size float64

	fill, border       color.Color
	fillStr, borderStr string
}

func (r *Renderer) resolve(n *graph.Node, settings Settings) nodeStyle {
	var st nodeStyle
	st.x, st.y, st.size = n.Position(settings.String(KeyPrefix))

	fallback := settings.String(KeyDefaultNodeColor)
	st.fill, st.fillStr = r.parseColor(n.ID, n.Color, fallback)
	st.border, st.borderStr = st.fill, st.fillStr
	if n.BorderColor != "" {
		st.border, st.borderStr = r.parseColor(n.ID, n.BorderColor, st.fillStr)
	}
	return st
}

// parseColor parses value, falling back to fallback and then to black.
// The returned string is what retained elements carry.
func (r *Renderer) parseColor(nodeID, value, fallback string) (color.Color, string) {
	if value != "" {
		if c, err := surface.ParseColor(value); err == nil {
			return c, value
		}
		r.logger.Debug("invalid node colour", "node", nodeID, "color", value)
	}
	if c, err := surface.ParseColor(fallback); err == nil {
		return c, fallback
	}
	return color.Black, "#000"
}
