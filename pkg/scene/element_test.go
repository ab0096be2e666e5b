package scene

import (
	"strings"
	"testing"
)

func TestSetAttrKeepsOrder(t *testing.T) {
	e := NewElement(SVGNS, "circle")
	e.SetAttr("cx", "1")
	e.SetAttr("cy", "2")
	e.SetAttr("cx", "3")

	attrs := e.Attrs()
	if len(attrs) != 2 || attrs[0].Name != "cx" || attrs[0].Value != "3" {
		t.Errorf("Attrs() = %+v, want cx updated in place", attrs)
	}
}

func TestNamespacedAttrs(t *testing.T) {
	e := NewElement(SVGNS, "image")
	e.SetAttrNS(XLinkNS, "href", "a.png")
	e.SetAttr("href", "b.png")

	if v, ok := e.AttrNS(XLinkNS, "href"); !ok || v != "a.png" {
		t.Errorf("xlink:href = %q, %v", v, ok)
	}
	if e.Attr("href") != "b.png" {
		t.Errorf("href = %q, want b.png", e.Attr("href"))
	}
}

func TestAppendChildMovesElement(t *testing.T) {
	a, b := NewElement(SVGNS, "g"), NewElement(SVGNS, "g")
	c := NewElement(SVGNS, "circle")

	a.AppendChild(c)
	b.AppendChild(c)

	if len(a.Children()) != 0 {
		t.Error("child still attached to previous parent")
	}
	if c.Parent() != b || b.FirstChild() != c {
		t.Error("child not attached to new parent")
	}
}

func TestHideShow(t *testing.T) {
	g := NewElement(SVGNS, "g")
	g.Hide()
	if !g.Hidden() {
		t.Fatal("Hidden() = false after Hide")
	}
	g.Show()
	if g.Hidden() || g.Attr("style") != "" {
		t.Errorf("style after Show = %q", g.Attr("style"))
	}
}

func TestFindAndClasses(t *testing.T) {
	root := NewElement(SVGNS, "g")
	defs := NewElement(SVGNS, "defs")
	clip := NewElement(SVGNS, "clipPath")
	clip.SetAttr("id", "c1")
	defs.AppendChild(clip)
	root.AppendChild(defs)
	img := NewElement(SVGNS, "image")
	img.SetAttr("class", "a b")
	root.AppendChild(img)

	if root.ByID("c1") != clip {
		t.Error("ByID() did not find nested element")
	}
	if !img.HasClass("b") || img.HasClass("c") {
		t.Errorf("HasClass() wrong for %q", img.Class())
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{7.0710678, "7.07"},
		{-0.001, "0"},
		{12.5, "12.5"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPathData(t *testing.T) {
	var p PathData
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.ArcTo(5, 5, 0, false, true, 0, 10)
	p.Close()

	want := "M0,0 L10,0 A5,5,0,0,1,0,10 Z"
	if got := p.String(); got != want {
		t.Errorf("PathData = %q, want %q", got, want)
	}
}

func TestInsertBefore(t *testing.T) {
	g := NewElement(SVGNS, "g")
	a, b, c := NewElement(SVGNS, "a"), NewElement(SVGNS, "b"), NewElement(SVGNS, "c")
	g.AppendChild(a)
	g.AppendChild(c)
	g.InsertBefore(b, c)
	g.InsertBefore(NewElement(SVGNS, "d"), nil)

	var tags []string
	for _, ch := range g.Children() {
		tags = append(tags, ch.Tag)
	}
	if got := strings.Join(tags, ","); got != "a,b,c,d" {
		t.Errorf("children = %s, want a,b,c,d", got)
	}
}
