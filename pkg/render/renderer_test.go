package render

import (
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"math"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/imagecache"
	"github.com/matzehuels/nodeshapes/pkg/scene"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

var testImage = image.NewNRGBA(image.Rect(0, 0, 4, 4))

func okLoader() imagecache.Loader {
	return imagecache.LoaderFunc(func(context.Context, string) (image.Image, error) {
		return testImage, nil
	})
}

func failingLoader() imagecache.Loader {
	return imagecache.LoaderFunc(func(context.Context, string) (image.Image, error) {
		return nil, stderrors.New("boom")
	})
}

// fillOnly registers a circle without a border painter.
func fillOnly() *shapes.Registry {
	reg := shapes.NewRegistry()
	reg.MustRegister(shapes.Circle, shapes.FillAdapter(shapes.TraceCircle), nil)
	return reg
}

func newRenderer(t *testing.T, reg *shapes.Registry, opts ...Option) *Renderer {
	t.Helper()
	r := New(reg, opts...)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRedCircleEndToEnd(t *testing.T) {
	r := newRenderer(t, fillOnly())
	n := &graph.Node{ID: "n", X: 20, Y: 20, Size: 10, Color: "red"}
	red := color.NRGBA{255, 0, 0, 255}

	t.Run("canvas", func(t *testing.T) {
		rec := surface.NewRecorder()
		r.Canvas()[shapes.Circle](n, rec, nil)

		if len(rec.Marks) != 1 {
			t.Fatalf("marks = %d, want 1", len(rec.Marks))
		}
		m := rec.Marks[0]
		if m.Kind != surface.MarkFill {
			t.Errorf("mark kind = %v, want fill", m.Kind)
		}
		if cx, cy, rad, ok := m.Circle(); !ok || cx != 20 || cy != 20 || rad != 10 {
			t.Errorf("Circle() = %v, %v, %v, %v; want 20, 20, 10, true", cx, cy, rad, ok)
		}
		if !sameColor(m.Color, red) {
			t.Errorf("fill = %v, want red", m.Color)
		}
		if rec.Depth() != 0 {
			t.Errorf("save depth after paint = %d, want 0", rec.Depth())
		}
	})

	t.Run("raster", func(t *testing.T) {
		ras := surface.NewRaster(40, 40)
		if err := r.DrawNode(n, ras, nil); err != nil {
			t.Fatalf("DrawNode() error: %v", err)
		}
		img := ras.Image()
		if got := color.NRGBAModel.Convert(img.At(20, 20)); got != red {
			t.Errorf("centre = %v, want red", got)
		}
		if _, _, _, a := img.At(20, 34).RGBA(); a != 0 {
			t.Errorf("pixel outside radius has alpha %d", a)
		}
	})

	t.Run("svg", func(t *testing.T) {
		g := r.SVG()[shapes.Circle].Create(n, nil)
		kids := g.Children()
		if len(kids) != 1 {
			t.Fatalf("children = %d, want 1", len(kids))
		}
		c := kids[0]
		if c.Tag != "circle" || c.Class() != "sigma-node" {
			t.Errorf("child = <%s class=%q>, want <circle class=\"sigma-node\">", c.Tag, c.Class())
		}
		want := map[string]string{"cx": "20", "cy": "20", "r": "10", "fill": "red", "data-node-id": "n", "stroke": ""}
		for k, v := range want {
			if got := c.Attr(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
	})
}

func TestPaintOrder(t *testing.T) {
	r := newRenderer(t, shapes.Builtin(), WithLoader(okLoader()))
	n := &graph.Node{ID: "n", Shape: shapes.Square, Size: 10, Image: &graph.Image{URL: "a.png"}}
	r.Prefetch("a.png")
	r.Images().Wait()

	rec := surface.NewRecorder()
	if err := r.DrawNode(n, rec, nil); err != nil {
		t.Fatal(err)
	}

	var order []surface.OpKind
	for _, k := range rec.Kinds() {
		switch k {
		case surface.OpFill, surface.OpStroke, surface.OpDrawImage:
			order = append(order, k)
		}
	}
	want := []surface.OpKind{surface.OpFill, surface.OpStroke, surface.OpDrawImage}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	kinds := rec.Kinds()
	if kinds[0] != surface.OpSave || kinds[len(kinds)-1] != surface.OpRestore {
		t.Errorf("paint not bracketed by Save/Restore: %v", kinds)
	}
}

func TestImageBeforeAndAfterLoad(t *testing.T) {
	var refreshes atomic.Int32
	release := make(chan struct{})
	loader := imagecache.LoaderFunc(func(ctx context.Context, _ string) (image.Image, error) {
		<-release
		return testImage, nil
	})
	r := newRenderer(t, fillOnly(), WithLoader(loader), WithRefresh(func() { refreshes.Add(1) }))
	n := &graph.Node{ID: "n", X: 50, Y: 50, Size: 10, Image: &graph.Image{URL: "x.png", Clip: 1}}

	before := surface.NewRecorder()
	r.DrawNode(n, before, nil)
	if len(before.Images) != 0 {
		t.Errorf("image drawn while loading")
	}
	if len(before.Marks) != 1 {
		t.Errorf("base shape marks = %d, want 1", len(before.Marks))
	}

	close(release)
	r.Images().Wait()
	if got := refreshes.Load(); got != 1 {
		t.Fatalf("refreshes after load = %d, want 1", got)
	}

	after := surface.NewRecorder()
	r.DrawNode(n, after, nil)
	if len(after.Images) != 1 {
		t.Fatalf("images after load = %d, want 1", len(after.Images))
	}
	clips := after.Images[0].Clips
	if len(clips) != 1 || clips[0][0].Kind != surface.SegArc || clips[0][0].R != 10 {
		t.Errorf("clip = %+v, want one disc of radius 10", clips)
	}
	if got := refreshes.Load(); got != 1 {
		t.Errorf("refreshes after second paint = %d, want 1", got)
	}
}

func TestImageLoadFailureDrawsNothing(t *testing.T) {
	var refreshes atomic.Int32
	r := newRenderer(t, fillOnly(), WithLoader(failingLoader()), WithRefresh(func() { refreshes.Add(1) }))
	n := &graph.Node{ID: "n", Size: 10, Image: &graph.Image{URL: "broken.png"}}

	r.DrawNode(n, surface.NewRecorder(), nil)
	r.Images().Wait()

	if got := r.Images().Status("broken.png"); got != imagecache.StatusError {
		t.Errorf("status = %v, want error", got)
	}
	if got := refreshes.Load(); got != 0 {
		t.Errorf("refreshes = %d, want 0", got)
	}

	rec := surface.NewRecorder()
	r.DrawNode(n, rec, nil)
	if len(rec.Images) != 0 || len(rec.Marks) != 1 {
		t.Errorf("after failure: images = %d, marks = %d; want 0, 1", len(rec.Images), len(rec.Marks))
	}
}

func TestAspectRatioBothBackends(t *testing.T) {
	r := newRenderer(t, fillOnly(), WithLoader(okLoader()))
	n := &graph.Node{ID: "n", X: 0, Y: 0, Size: 10, Image: &graph.Image{URL: "wide.png", W: 2, H: 1}}

	ov, ok := OverlayGeometry(n, n.X, n.Y, n.Size)
	if !ok {
		t.Fatal("OverlayGeometry() reported no image")
	}
	if ov.XRatio != 1 || ov.YRatio != 0.5 {
		t.Errorf("ratios = %v, %v; want 1, 0.5", ov.XRatio, ov.YRatio)
	}

	r.Prefetch("wide.png")
	r.Images().Wait()
	rec := surface.NewRecorder()
	r.DrawNode(n, rec, nil)
	if len(rec.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(rec.Images))
	}
	d := rec.Images[0]
	if math.Abs(d.H/d.W-0.5) > 1e-9 {
		t.Errorf("canvas h/w = %v, want 0.5", d.H/d.W)
	}

	g, err := r.CreateNode(n, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := childWithClass(g, "sigma-node-image")
	if img == nil {
		t.Fatal("no image element")
	}
	if img.Attr("width") != scene.Num(d.W) || img.Attr("height") != scene.Num(d.H) {
		t.Errorf("svg size = %s x %s, canvas = %v x %v", img.Attr("width"), img.Attr("height"), d.W, d.H)
	}
}

func TestClipRadiusBothBackends(t *testing.T) {
	r := newRenderer(t, fillOnly(), WithLoader(okLoader()))
	n := &graph.Node{ID: "n", Size: 10, Image: &graph.Image{URL: "c.png", Clip: 0.5}}
	r.Prefetch("c.png")
	r.Images().Wait()

	rec := surface.NewRecorder()
	r.DrawNode(n, rec, nil)
	if len(rec.Images) != 1 || rec.Images[0].Clips[0][0].R != 5 {
		t.Errorf("canvas clip = %+v, want radius 5", rec.Images)
	}

	g, _ := r.CreateNode(n, nil)
	clip := g.ByID(ClipPathID("sigma", "n"))
	if clip == nil {
		t.Fatal("no clip path")
	}
	if got := clip.FirstChild().Attr("r"); got != "5" {
		t.Errorf("svg clip r = %q, want 5", got)
	}
}

func TestUnknownShape(t *testing.T) {
	r := newRenderer(t, shapes.Builtin())
	n := &graph.Node{ID: "n", Shape: "hexagon", Size: 1}

	if err := r.DrawNode(n, surface.NewRecorder(), nil); !errors.Is(err, errors.ErrCodeUnknownShape) {
		t.Errorf("DrawNode() error = %v, want UNKNOWN_SHAPE", err)
	}
	if g, err := r.CreateNode(n, nil); g != nil || !errors.Is(err, errors.ErrCodeUnknownShape) {
		t.Errorf("CreateNode() = %v, %v; want nil, UNKNOWN_SHAPE", g, err)
	}
	if err := r.UpdateNode(n, nil, nil); !errors.Is(err, errors.ErrCodeUnknownShape) {
		t.Errorf("UpdateNode() error = %v, want UNKNOWN_SHAPE", err)
	}
}

func TestDefaultNodeType(t *testing.T) {
	r := newRenderer(t, shapes.Builtin())
	n := &graph.Node{ID: "n", Size: 4}

	rec := surface.NewRecorder()
	if err := r.DrawNode(n, rec, nil); err != nil {
		t.Fatalf("DrawNode() error: %v", err)
	}
	if _, _, _, ok := rec.Marks[0].Circle(); !ok {
		t.Error("node without shape not drawn as circle")
	}

	settings := MapSettings(map[string]any{KeyDefaultNodeType: shapes.Diamond})
	rec.Reset()
	r.DrawNode(n, rec, settings)
	if _, _, _, ok := rec.Marks[0].Circle(); ok {
		t.Error("defaultNodeType setting ignored")
	}
}

func TestColorResolution(t *testing.T) {
	r := newRenderer(t, shapes.Builtin())
	tests := []struct {
		name       string
		node       graph.Node
		settings   Settings
		fill, edge color.Color
	}{
		{"defaults", graph.Node{ID: "a", Size: 1}, nil, color.Black, color.Black},
		{"node colour", graph.Node{ID: "b", Size: 1, Color: "#00ff00"}, nil, color.NRGBA{0, 255, 0, 255}, color.NRGBA{0, 255, 0, 255}},
		{"border", graph.Node{ID: "c", Size: 1, Color: "red", BorderColor: "blue"}, nil, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255}},
		{"setting", graph.Node{ID: "d", Size: 1}, MapSettings(map[string]any{KeyDefaultNodeColor: "white"}), color.White, color.White},
		{"invalid colour", graph.Node{ID: "e", Size: 1, Color: "nope"}, nil, color.Black, color.Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := surface.NewRecorder()
			r.Canvas()[shapes.Square](&tt.node, rec, tt.settings)
			if len(rec.Marks) != 2 {
				t.Fatalf("marks = %d, want 2", len(rec.Marks))
			}
			if !sameColor(rec.Marks[0].Color, tt.fill) {
				t.Errorf("fill = %v, want %v", rec.Marks[0].Color, tt.fill)
			}
			if !sameColor(rec.Marks[1].Color, tt.edge) {
				t.Errorf("border = %v, want %v", rec.Marks[1].Color, tt.edge)
			}
		})
	}
}

func TestPrefixedPosition(t *testing.T) {
	r := newRenderer(t, fillOnly())
	n := &graph.Node{
		ID: "n", X: 1, Y: 2, Size: 3,
		Layouts: map[string]graph.Placement{"cam:": {X: 10, Y: 20, Size: 30}},
	}
	tests := []struct {
		prefix        string
		cx, cy, wantR float64
	}{
		{"", 1, 2, 3},
		{"cam:", 10, 20, 30},
		{"missing:", 1, 2, 3},
	}
	for _, tt := range tests {
		rec := surface.NewRecorder()
		r.DrawNode(n, rec, MapSettings(map[string]any{KeyPrefix: tt.prefix}))
		cx, cy, rad, _ := rec.Marks[0].Circle()
		if cx != tt.cx || cy != tt.cy || rad != tt.wantR {
			t.Errorf("prefix %q: circle = %v,%v r=%v; want %v,%v r=%v", tt.prefix, cx, cy, rad, tt.cx, tt.cy, tt.wantR)
		}
	}
}

func TestForgetAbandonsLoad(t *testing.T) {
	loader := imagecache.LoaderFunc(func(ctx context.Context, _ string) (image.Image, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	r := newRenderer(t, fillOnly(), WithLoader(loader))
	n := &graph.Node{ID: "n", Size: 1, Image: &graph.Image{URL: "slow.png"}}

	r.DrawNode(n, surface.NewRecorder(), nil)
	if got := r.Images().Refs("slow.png"); got != 1 {
		t.Fatalf("refs = %d, want 1", got)
	}
	r.Forget("n")
	r.Images().Wait()

	if got := r.Images().Len(); got != 0 {
		t.Errorf("entries after Forget = %d, want 0", got)
	}
}

func TestBoundedImagesSettle(t *testing.T) {
	var loads, refreshes atomic.Int32
	loader := imagecache.LoaderFunc(func(context.Context, string) (image.Image, error) {
		loads.Add(1)
		return testImage, nil
	})
	r := newRenderer(t, fillOnly(), WithLoader(loader), WithMaxImages(2), WithRefresh(func() { refreshes.Add(1) }))

	nodes := []graph.Node{
		{ID: "a", Size: 4, Image: &graph.Image{URL: "a.png"}},
		{ID: "b", Size: 4, Image: &graph.Image{URL: "b.png"}},
		{ID: "c", Size: 4, Image: &graph.Image{URL: "c.png"}},
	}
	paint := func() int {
		rec := surface.NewRecorder()
		for i := range nodes {
			r.DrawNode(&nodes[i], rec, nil)
		}
		r.Images().Wait()
		return len(rec.Images)
	}

	if got := paint(); got != 0 {
		t.Errorf("images in first pass = %d, want 0", got)
	}
	for pass := 2; pass <= 4; pass++ {
		if got := paint(); got != len(nodes) {
			t.Errorf("images in pass %d = %d, want %d", pass, got, len(nodes))
		}
	}
	if got := loads.Load(); got != 3 {
		t.Errorf("loads = %d, want 3", got)
	}
	if got := refreshes.Load(); got != 3 {
		t.Errorf("refreshes = %d, want 3", got)
	}
}

func TestIndependentInstances(t *testing.T) {
	var a, b atomic.Int32
	ra := newRenderer(t, fillOnly(), WithLoader(okLoader()), WithRefresh(func() { a.Add(1) }))
	rb := newRenderer(t, fillOnly(), WithLoader(okLoader()), WithRefresh(func() { b.Add(1) }))

	if ra.ID() == rb.ID() {
		t.Error("renderers share an id")
	}
	if ra.Images() == rb.Images() {
		t.Error("renderers share an image cache")
	}

	ra.Prefetch("a.png")
	ra.Images().Wait()
	if a.Load() != 1 || b.Load() != 0 {
		t.Errorf("refreshes = %d, %d; want 1, 0", a.Load(), b.Load())
	}
	if rb.Images().Status("a.png") != imagecache.StatusNone {
		t.Error("load leaked into the other renderer")
	}
}

func TestSharedImageCache(t *testing.T) {
	c := imagecache.New(okLoader())
	defer c.Close()

	r := newRenderer(t, fillOnly(), WithImageCache(c))
	if r.Images() != c {
		t.Fatal("WithImageCache ignored")
	}
	r.Close()
	r.Prefetch("still-open.png")
	c.Wait()
	if c.Status("still-open.png") != imagecache.StatusOK {
		t.Error("Close closed a cache the renderer does not own")
	}
}

func TestDuplicateNamesLastWins(t *testing.T) {
	reg := shapes.NewRegistry()
	reg.MustRegisterOutline("blob", shapes.TraceSquare)
	reg.MustRegisterOutline("blob", shapes.TraceCircle)

	r := newRenderer(t, reg)
	if got := r.Shapes(); len(got) != 1 || got[0] != "blob" {
		t.Errorf("Shapes() = %v, want [blob]", got)
	}
	rec := surface.NewRecorder()
	r.DrawNode(&graph.Node{ID: "n", Shape: "blob", Size: 2}, rec, nil)
	if _, _, _, ok := rec.Marks[0].Circle(); !ok {
		t.Error("first registration bound, want last")
	}
}
