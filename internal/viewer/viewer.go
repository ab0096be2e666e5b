// Package viewer is a small host for the node renderers: it owns a graph,
// the settings, a renderer and a retained SVG document, and implements the
// repaint hook the image overlay calls once an image has arrived.
//
// The CLI uses it for one-shot PNG and SVG output; the preview server keeps
// one Viewer alive across requests so that retained groups are updated in
// place when the graph is reloaded.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeshapes/pkg/config"
	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/imagecache"
	"github.com/matzehuels/nodeshapes/pkg/render"
	"github.com/matzehuels/nodeshapes/pkg/scene"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// defaultEdgeColor is used for edges without a colour.
const defaultEdgeColor = "#cccccc"

// Option configures a Viewer.
type Option func(*options)

type options struct {
	registry *shapes.Registry
	loader   imagecache.Loader
	logger   *log.Logger
}

// WithRegistry renders with reg instead of the built-in shapes.
func WithRegistry(reg *shapes.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithLoader sets the overlay image loader.
func WithLoader(l imagecache.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Viewer renders one graph. Its methods are not safe for concurrent use
// except Refresh, which may be called from image loading goroutines.
type Viewer struct {
	settings config.Settings
	registry *shapes.Registry
	renderer *render.Renderer
	logger   *log.Logger

	graph  *graph.Graph
	doc    *scene.Document
	edges  *scene.Element
	nodes  *scene.Element
	groups map[string]*scene.Element

	refreshes atomic.Int64
	updates   chan struct{}
	closeOnce sync.Once
}

// New creates a viewer for g. The graph is checked against the registry
// first, so that unknown parameter records are reported before rendering.
func New(g *graph.Graph, settings config.Settings, opts ...Option) (*Viewer, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = shapes.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := o.registry.ValidateGraph(g); err != nil {
		return nil, err
	}

	v := &Viewer{
		settings: settings,
		registry: o.registry,
		logger:   o.logger,
		graph:    g,
		groups:   make(map[string]*scene.Element),
		updates:  make(chan struct{}, 1),
	}

	ropts := []render.Option{
		render.WithRefresh(v.Refresh),
		render.WithLogger(o.logger),
		render.WithMaxImages(settings.MaxImages),
	}
	if o.loader != nil {
		ropts = append(ropts, render.WithLoader(o.loader))
	}
	v.renderer = render.New(o.registry, ropts...)
	v.resetDocument()
	v.prefetch()
	return v, nil
}

// Refresh is the repaint hook handed to the renderer. It records the
// request and wakes one waiter on Updates.
func (v *Viewer) Refresh() {
	v.refreshes.Add(1)
	select {
	case v.updates <- struct{}{}:
	default:
	}
}

// Refreshes returns how many repaints have been requested so far.
func (v *Viewer) Refreshes() int64 { return v.refreshes.Load() }

// Updates signals after repaint requests. Bursts are coalesced.
func (v *Viewer) Updates() <-chan struct{} { return v.updates }

// Renderer returns the node renderer.
func (v *Viewer) Renderer() *render.Renderer { return v.renderer }

// Graph returns the current graph.
func (v *Viewer) Graph() *graph.Graph { return v.graph }

// Settings returns the host settings.
func (v *Viewer) Settings() config.Settings { return v.settings }

// SetGraph swaps the graph. Retained groups of nodes that are still present
// are kept and updated by the next SyncSVG.
func (v *Viewer) SetGraph(g *graph.Graph) error {
	if err := v.registry.ValidateGraph(g); err != nil {
		return err
	}
	for i := range v.graph.Nodes {
		if id := v.graph.Nodes[i].ID; !hasNode(g, id) {
			v.renderer.Forget(id)
		}
	}
	v.graph = g
	v.prefetch()
	v.logger.Debug("graph replaced", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// Close releases the renderer's image cache.
func (v *Viewer) Close() error {
	var err error
	v.closeOnce.Do(func() { err = v.renderer.Close() })
	return err
}

func hasNode(g *graph.Graph, id string) bool {
	_, ok := g.Node(id)
	return ok
}

func (v *Viewer) prefetch() {
	var urls []string
	for i := range v.graph.Nodes {
		if url := v.graph.Nodes[i].ImageURL(); url != "" && !v.graph.Nodes[i].Hidden {
			urls = append(urls, url)
		}
	}
	v.renderer.Prefetch(urls...)
}

// =============================================================================
// Immediate Mode
// =============================================================================

// PaintPNG paints the background, the edges and every visible node on s.
// Nodes with unknown shapes are skipped.
func (v *Viewer) PaintPNG(s surface.Surface) {
	settings := v.settings.Render()
	prefix := settings.String(render.KeyPrefix)

	if bg, err := surface.ParseColor(v.settings.Background); err == nil {
		if r, ok := s.(*surface.Raster); ok {
			r.Clear(bg)
		}
	}

	for _, e := range v.graph.Edges {
		from, ok1 := v.graph.Node(e.From)
		to, ok2 := v.graph.Node(e.To)
		if !ok1 || !ok2 || from.Hidden || to.Hidden {
			continue
		}
		x1, y1, _ := from.Position(prefix)
		x2, y2, _ := to.Position(prefix)
		s.SetStrokeColor(edgeColor(e))
		s.SetLineWidth(1)
		s.BeginPath()
		s.MoveTo(x1, y1)
		s.LineTo(x2, y2)
		s.Stroke()
	}

	for i := range v.graph.Nodes {
		n := &v.graph.Nodes[i]
		if n.Hidden {
			v.renderer.Forget(n.ID)
			continue
		}
		if err := v.renderer.DrawNode(n, s, settings); err != nil {
			v.logger.Warn("skipping node", "node", n.ID, "err", errors.UserMessage(err))
		}
	}
}

// RenderPNG paints the graph, waits for overlay images that were still
// loading and paints once more if any of them arrived, then writes a PNG.
func (v *Viewer) RenderPNG(ctx context.Context, w io.Writer) error {
	ras := surface.NewRaster(v.settings.Width, v.settings.Height)
	before := v.Refreshes()
	v.PaintPNG(ras)

	if err := v.waitImages(ctx); err != nil {
		return err
	}
	if v.Refreshes() > before {
		v.logger.Debug("repainting after image load", "requests", v.Refreshes()-before)
		ras = surface.NewRaster(v.settings.Width, v.settings.Height)
		v.PaintPNG(ras)
	}

	if err := ras.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (v *Viewer) waitImages(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		v.renderer.Images().Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func edgeColor(e graph.Edge) color.Color {
	if e.Color != "" {
		if c, err := surface.ParseColor(e.Color); err == nil {
			return c
		}
	}
	return surface.MustParseColor(defaultEdgeColor)
}

// =============================================================================
// Retained Mode
// =============================================================================

func (v *Viewer) resetDocument() {
	cp := v.settings.Render().String(render.KeyClassPrefix)
	ns := v.settings.Render().String(render.KeyXMLNS)

	v.doc = scene.NewDocument(ns, float64(v.settings.Width), float64(v.settings.Height))
	v.edges = scene.NewElement(ns, "g")
	v.edges.SetAttr("class", cp+"-edges")
	v.nodes = scene.NewElement(ns, "g")
	v.nodes.SetAttr("class", cp+"-nodes")
	v.doc.Append(v.edges)
	v.doc.Append(v.nodes)
	clear(v.groups)
}

// SyncSVG brings the retained document in line with the graph: new nodes
// get a group, existing groups are updated in place and groups of hidden or
// removed nodes are hidden.
func (v *Viewer) SyncSVG() *scene.Document {
	settings := v.settings.Render()
	v.syncEdges(settings)

	seen := make(map[string]bool, len(v.graph.Nodes))
	for i := range v.graph.Nodes {
		n := &v.graph.Nodes[i]
		seen[n.ID] = true
		g, exists := v.groups[n.ID]

		if n.Hidden {
			if exists {
				g.Hide()
			}
			continue
		}
		if !exists {
			created, err := v.renderer.CreateNode(n, settings)
			if err != nil {
				v.logger.Warn("skipping node", "node", n.ID, "err", errors.UserMessage(err))
				continue
			}
			v.groups[n.ID] = created
			v.nodes.AppendChild(created)
			continue
		}
		if err := v.renderer.UpdateNode(n, g, settings); err != nil {
			v.logger.Warn("hiding node", "node", n.ID, "err", errors.UserMessage(err))
			g.Hide()
		}
	}

	for id, g := range v.groups {
		if !seen[id] {
			g.Hide()
			v.renderer.Forget(id)
		}
	}
	return v.doc
}

// syncEdges redraws the edge layer. Edges are plain lines owned by the
// host, so they are rebuilt rather than tracked.
func (v *Viewer) syncEdges(settings render.Settings) {
	prefix := settings.String(render.KeyPrefix)
	ns := settings.String(render.KeyXMLNS)

	for _, c := range v.edges.Children() {
		v.edges.RemoveChild(c)
	}
	for _, e := range v.graph.Edges {
		from, ok1 := v.graph.Node(e.From)
		to, ok2 := v.graph.Node(e.To)
		if !ok1 || !ok2 || from.Hidden || to.Hidden {
			continue
		}
		x1, y1, _ := from.Position(prefix)
		x2, y2, _ := to.Position(prefix)

		line := scene.NewElement(ns, "line")
		line.SetNum("x1", x1)
		line.SetNum("y1", y1)
		line.SetNum("x2", x2)
		line.SetNum("y2", y2)
		stroke := e.Color
		if stroke == "" {
			stroke = defaultEdgeColor
		}
		line.SetAttr("stroke", stroke)
		v.edges.AppendChild(line)
	}
}

// Group returns the retained group of a node, if one was created.
func (v *Viewer) Group(nodeID string) (*scene.Element, bool) {
	g, ok := v.groups[nodeID]
	return g, ok
}

// RenderSVG syncs the document and writes it to w.
func (v *Viewer) RenderSVG(w io.Writer) error {
	return v.SyncSVG().WriteSVG(w)
}
