package scene

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Document is the root of a retained SVG scene.
type Document struct {
	Root *Element
}

// NewDocument returns an <svg> root of the given pixel size in namespace
// xmlns (SVGNS when empty).
func NewDocument(xmlns string, width, height float64) *Document {
	if xmlns == "" {
		xmlns = SVGNS
	}
	root := NewElement(xmlns, "svg")
	root.SetNum("width", width)
	root.SetNum("height", height)
	root.SetAttr("viewBox", fmt.Sprintf("0 0 %s %s", Num(width), Num(height)))
	return &Document{Root: root}
}

// Append adds el as the last child of the root.
func (d *Document) Append(el *Element) { d.Root.AppendChild(el) }

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	writeDocument(&buf, d.Root)
	return buf.Bytes()
}

// WriteSVG serializes the document to w.
func (d *Document) WriteSVG(w io.Writer) error {
	_, err := w.Write(d.Bytes())
	return err
}

// WriteElement serializes a single subtree without namespace declarations.
func WriteElement(w io.Writer, el *Element) error {
	var buf bytes.Buffer
	writeElement(&buf, el, 0)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeDocument(buf *bytes.Buffer, root *Element) {
	fmt.Fprintf(buf, `<%s xmlns="%s"`, root.Tag, EscapeXML(root.Space))
	if usesXLink(root) {
		fmt.Fprintf(buf, ` xmlns:xlink="%s"`, XLinkNS)
	}
	writeAttrs(buf, root)
	writeBody(buf, root, 0)
}

func writeElement(buf *bytes.Buffer, el *Element, depth int) {
	indent(buf, depth)
	buf.WriteString("<" + el.Tag)
	writeAttrs(buf, el)
	writeBody(buf, el, depth)
}

func writeAttrs(buf *bytes.Buffer, el *Element) {
	for _, a := range el.attrs {
		name := a.Name
		if a.Space == XLinkNS {
			name = "xlink:" + name
		}
		fmt.Fprintf(buf, ` %s="%s"`, name, EscapeXML(a.Value))
	}
}

func writeBody(buf *bytes.Buffer, el *Element, depth int) {
	if len(el.children) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteString(">\n")
	for _, c := range el.children {
		writeElement(buf, c, depth+1)
	}
	indent(buf, depth)
	fmt.Fprintf(buf, "</%s>\n", el.Tag)
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func usesXLink(el *Element) bool {
	return el.Find(func(e *Element) bool {
		for _, a := range e.attrs {
			if a.Space == XLinkNS {
				return true
			}
		}
		return false
	}) != nil
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
