package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/matzehuels/nodeshapes/pkg/graph"
	"github.com/matzehuels/nodeshapes/pkg/observability"
	"github.com/matzehuels/nodeshapes/pkg/scene"
	"github.com/matzehuels/nodeshapes/pkg/shapes"
	"github.com/matzehuels/nodeshapes/pkg/surface"
)

// Class suffixes of the retained elements. The full class is
// "{classPrefix}-{suffix}".
const (
	ClassGroup = "node-group"
	ClassNode  = "node"
	ClassMark  = "node-mark"
	ClassImage = "node-image"
	ClassClip  = "clip-path"
)

// ClipPathID returns the id of a node's clip path definition. Bytes of the
// node id outside [A-Za-z0-9.-] are written as "_xx" hex escapes, so the id
// is a valid XML name token and survives inside url(#...).
func ClipPathID(classPrefix, nodeID string) string {
	var b strings.Builder
	b.WriteString(classPrefix + "-" + ClassClip + "-")
	for i := 0; i < len(nodeID); i++ {
		c := nodeID[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '-', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

func (r *Renderer) bindCreate(d shapes.Descriptor) func(*graph.Node, Settings) *scene.Element {
	return func(n *graph.Node, settings Settings) *scene.Element {
		cp := settings.String(KeyClassPrefix)

		g := scene.NewElement(settings.String(KeyXMLNS), "g")
		g.SetAttr("class", cp+"-"+ClassGroup)
		g.SetAttr("data-node-id", n.ID)
		r.sync(d, n, g, settings, true)

		observability.Render().OnCreate(context.Background(), d.Name)
		return g
	}
}

func (r *Renderer) bindUpdate(d shapes.Descriptor) func(*graph.Node, *scene.Element, Settings) {
	return func(n *graph.Node, g *scene.Element, settings Settings) {
		r.sync(d, n, g, settings, !settings.Bool(KeyFreeStyle))
		g.Show()
		observability.Render().OnUpdate(context.Background(), d.Name)
	}
}

// sync brings g in line with n. Existing children keep their identity; only
// attributes change unless the shape now produces a different set of marks.
func (r *Renderer) sync(d shapes.Descriptor, n *graph.Node, g *scene.Element, settings Settings, colors bool) {
	st := r.resolve(n, settings)
	ns := settings.String(KeyXMLNS)
	cp := settings.String(KeyClassPrefix)

	rec := surface.NewRecorder()
	if d.Fill != nil {
		d.Fill(n, st.x, st.y, st.size, st.fill, rec)
	}
	if d.Border != nil {
		d.Border(n, st.x, st.y, st.size, st.border, rec)
	}

	syncMarks(g, rec.Marks, n.ID, st, ns, cp, colors)
	syncImage(g, n, st, settings, ns, cp)
}

func syncMarks(g *scene.Element, marks []surface.Mark, nodeID string, st nodeStyle, ns, cp string, colors bool) {
	var existing []*scene.Element
	for _, c := range g.Children() {
		if c.HasClass(cp+"-"+ClassNode) || c.HasClass(cp+"-"+ClassMark) {
			existing = append(existing, c)
		}
	}

	fresh := !sameTags(existing, marks)
	if fresh {
		for _, el := range existing {
			g.RemoveChild(el)
		}
		ref := g.FirstChild()
		existing = existing[:0]
		for i, m := range marks {
			el := scene.NewElement(ns, markTag(m))
			if i == 0 {
				el.SetAttr("data-node-id", nodeID)
				el.SetAttr("class", cp+"-"+ClassNode)
			} else {
				el.SetAttr("class", cp+"-"+ClassMark)
			}
			g.InsertBefore(el, ref)
			existing = append(existing, el)
		}
	}

	for i, m := range marks {
		applyMark(existing[i], m, st, colors || fresh)
	}
}

func sameTags(els []*scene.Element, marks []surface.Mark) bool {
	if len(els) != len(marks) {
		return false
	}
	for i, m := range marks {
		if els[i].Tag != markTag(m) {
			return false
		}
	}
	return true
}

func markTag(m surface.Mark) string {
	if _, _, _, ok := m.Circle(); ok {
		return "circle"
	}
	return "path"
}

func applyMark(el *scene.Element, m surface.Mark, st nodeStyle, colors bool) {
	if cx, cy, rad, ok := m.Circle(); ok {
		el.SetNum("cx", cx)
		el.SetNum("cy", cy)
		el.SetNum("r", rad)
	} else {
		el.SetAttr("d", PathData(m.Segments))
	}

	switch m.Kind {
	case surface.MarkFill:
		if colors {
			el.SetAttr("fill", st.colorString(m.Color))
		}
	case surface.MarkStroke:
		el.SetAttr("fill", "none")
		el.SetNum("stroke-width", m.LineWidth)
		if colors {
			el.SetAttr("stroke", st.colorString(m.Color))
		}
	}
}

// colorString keeps the node's own colour strings, so that a retained
// element carries exactly what the node says.
func (st nodeStyle) colorString(c color.Color) string {
	switch {
	case sameColor(c, st.fill):
		return st.fillStr
	case sameColor(c, st.border):
		return st.borderStr
	default:
		return surface.FormatColor(c)
	}
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return false
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// PathData converts recorded path segments to SVG path data. Arcs are split
// into pieces of at most a quarter turn.
func PathData(segs []surface.Segment) string {
	var (
		d          scene.PathData
		open       bool
		curX, curY float64
	)
	to := func(x, y float64) {
		switch {
		case !open:
			d.MoveTo(x, y)
		case math.Abs(x-curX) > 1e-9 || math.Abs(y-curY) > 1e-9:
			d.LineTo(x, y)
		}
		open, curX, curY = true, x, y
	}

	var startX, startY float64
	for _, s := range segs {
		switch s.Kind {
		case surface.SegMove:
			d.MoveTo(s.X, s.Y)
			open, curX, curY = true, s.X, s.Y
			startX, startY = s.X, s.Y
		case surface.SegLine:
			if !open {
				startX, startY = s.X, s.Y
			}
			to(s.X, s.Y)
		case surface.SegArc:
			x0, y0 := s.ArcStart()
			if !open {
				startX, startY = x0, y0
			}
			to(x0, y0)
			if s.Sweep == 0 {
				continue
			}
			pieces := max(1, int(math.Ceil(math.Abs(s.Sweep)/(math.Pi/2)-1e-9)))
			step := s.Sweep / float64(pieces)
			for i := 1; i <= pieces; i++ {
				a := s.Start + step*float64(i)
				curX, curY = s.X+s.R*math.Cos(a), s.Y+s.R*math.Sin(a)
				d.ArcTo(s.R, s.R, 0, false, s.Sweep > 0, curX, curY)
			}
		case surface.SegClose:
			if open {
				d.Close()
				curX, curY = startX, startY
			}
		}
	}
	return d.String()
}

// syncImage materializes the overlay as a clip path definition and an
// <image>. The surface loads the image itself; no cache is involved.
func syncImage(g *scene.Element, n *graph.Node, st nodeStyle, settings Settings, ns, cp string) {
	img := childWithClass(g, cp+"-"+ClassImage)
	defs := childWithTag(g, "defs")

	ov, ok := OverlayGeometry(n, st.x, st.y, st.size)
	if !ok {
		if img != nil {
			img.Hide()
		}
		return
	}

	id := ClipPathID(cp, n.ID)
	if defs == nil {
		defs = scene.NewElement(ns, "defs")
		g.AppendChild(defs)
	}
	clip := defs.ByID(id)
	if clip == nil {
		clip = scene.NewElement(ns, "clipPath")
		clip.SetAttr("id", id)
		clip.AppendChild(scene.NewElement(ns, "circle"))
		defs.AppendChild(clip)
	}
	circle := clip.FirstChild()
	circle.SetNum("cx", ov.ClipX)
	circle.SetNum("cy", ov.ClipY)
	circle.SetNum("r", ov.ClipR)

	if img == nil {
		img = scene.NewElement(ns, "image")
		img.SetAttr("class", cp+"-"+ClassImage)
		img.SetAttr("pointer-events", "none")
		g.AppendChild(img)
	}
	base, _, _ := strings.Cut(settings.String(KeyClipPathBase), "#")
	img.SetAttr("clip-path", "url("+base+"#"+id+")")
	img.SetNum("x", ov.X)
	img.SetNum("y", ov.Y)
	img.SetNum("width", ov.W)
	img.SetNum("height", ov.H)
	img.SetAttr("href", ov.URL)
	img.SetAttrNS(scene.XLinkNS, "href", ov.URL)
	img.Show()
}

func childWithClass(g *scene.Element, class string) *scene.Element {
	for _, c := range g.Children() {
		if c.HasClass(class) {
			return c
		}
	}
	return nil
}

func childWithTag(g *scene.Element, tag string) *scene.Element {
	for _, c := range g.Children() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
