package scene

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Namespace URIs understood by the serializer.
const (
	SVGNS   = "http://www.w3.org/2000/svg"
	XLinkNS = "http://www.w3.org/1999/xlink"
)

// Attr is one attribute. Space is the namespace URI, empty for plain
// attributes.
type Attr struct {
	Space string
	Name  string
	Value string
}

// Element is a node of the retained tree.
type Element struct {
	Tag   string
	Space string

	attrs    []Attr
	children []*Element
	parent   *Element
}

// NewElement creates a detached element in namespace space.
func NewElement(space, tag string) *Element {
	return &Element{Tag: tag, Space: space}
}

// SetAttr sets a plain attribute, keeping its position if it already exists.
func (e *Element) SetAttr(name, value string) { e.SetAttrNS("", name, value) }

// SetAttrNS sets a namespaced attribute.
func (e *Element) SetAttrNS(space, name, value string) {
	for i := range e.attrs {
		if e.attrs[i].Space == space && e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Space: space, Name: name, Value: value})
}

// SetNum sets a plain numeric attribute formatted with Num.
func (e *Element) SetNum(name string, v float64) { e.SetAttr(name, Num(v)) }

// Attr returns a plain attribute, or "" when unset.
func (e *Element) Attr(name string) string {
	v, _ := e.AttrNS("", name)
	return v
}

// AttrNS returns a namespaced attribute.
func (e *Element) AttrNS(space, name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Space == space && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// RemoveAttr deletes a plain attribute.
func (e *Element) RemoveAttr(name string) {
	e.attrs = slices.DeleteFunc(e.attrs, func(a Attr) bool { return a.Space == "" && a.Name == name })
}

// Attrs returns a copy of the attributes in insertion order.
func (e *Element) Attrs() []Attr { return slices.Clone(e.attrs) }

// Class returns the class attribute.
func (e *Element) Class() string { return e.Attr("class") }

// HasClass reports whether class is one of the element's classes.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(strings.Fields(e.Class()), class)
}

// AppendChild moves c to the end of e's children.
func (e *Element) AppendChild(c *Element) {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
}

// InsertBefore inserts c before ref, or appends it when ref is nil or not
// a child of e.
func (e *Element) InsertBefore(c, ref *Element) {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	i := slices.Index(e.children, ref)
	if ref == nil || i < 0 {
		e.AppendChild(c)
		return
	}
	c.parent = e
	e.children = slices.Insert(e.children, i, c)
}

// RemoveChild detaches c from e. It reports whether c was a child of e.
func (e *Element) RemoveChild(c *Element) bool {
	i := slices.Index(e.children, c)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	c.parent = nil
	return true
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// FirstChild returns the first child, or nil.
func (e *Element) FirstChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// Parent returns the parent element, or nil for a detached element.
func (e *Element) Parent() *Element { return e.parent }

// Hide sets display:none.
func (e *Element) Hide() { e.SetAttr("style", "display:none") }

// Show clears the display override set by Hide.
func (e *Element) Show() {
	if e.Hidden() {
		e.RemoveAttr("style")
	}
}

// Hidden reports whether Hide is in effect.
func (e *Element) Hidden() bool { return e.Attr("style") == "display:none" }

// Find returns the first element in depth-first order, starting with e,
// for which match returns true.
func (e *Element) Find(match func(*Element) bool) *Element {
	if match(e) {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// ByID finds the element whose id attribute equals id.
func (e *Element) ByID(id string) *Element {
	return e.Find(func(el *Element) bool { return el.Attr("id") == id })
}

// Num formats a coordinate rounded to two decimals without trailing zeros.
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
