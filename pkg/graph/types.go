package graph

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/nodeshapes/pkg/errors"
)

// Shape names of the built-in parameterised shapes.
const (
	ShapeStar        = "star"
	ShapeEquilateral = "equilateral"
	ShapeCross       = "cross"
)

// Parameter defaults applied when a field is left at zero.
const (
	DefaultStarPoints        = 5
	DefaultStarInnerRatio    = 0.5
	DefaultEquilateralPoints = 5
	DefaultCrossLineWeight   = 5.0

	maxPoints = 1000
)

// =============================================================================
// Graph - Host Data
// =============================================================================

// Graph is the serialization format for the nodes and edges a host hands
// to the renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges,omitempty"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// =============================================================================
// Node - Renderable Node Record
// =============================================================================

// Node is a renderable node. The renderer reads it and never mutates it.
type Node struct {
	ID          string  `json:"id"`
	Label       string  `json:"label,omitempty"`
	Shape       string  `json:"shape,omitempty"` // Registered shape name; empty selects the host default
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size"`
	Color       string  `json:"color,omitempty"`
	BorderColor string  `json:"border_color,omitempty"`
	Hidden      bool    `json:"hidden,omitempty"`
	Image       *Image  `json:"image,omitempty"`

	// Params carries the shape-specific parameter record, if any.
	Params ShapeParams `json:"-"`

	// Layouts holds additional coordinate spaces keyed by prefix, e.g. the
	// source and target positions of an animated layout transition.
	Layouts map[string]Placement `json:"layouts,omitempty"`
}

// Placement is a node position and size in one coordinate space.
type Placement struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Position returns the node's coordinates and size for the given prefix.
// An empty prefix, or a prefix the node has no placement for, selects the
// base fields.
func (n *Node) Position(prefix string) (x, y, size float64) {
	if prefix != "" {
		if p, ok := n.Layouts[prefix]; ok {
			return p.X, p.Y, p.Size
		}
	}
	return n.X, n.Y, n.Size
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// ImageURL returns the overlay URL, or "" when the node has no overlay.
func (n *Node) ImageURL() string {
	if n.Image == nil {
		return ""
	}
	return n.Image.URL
}

// Image describes a circular image overlay drawn on top of a node.
// Zero fields mean "use the default": W and H default to 1 (square),
// Scale and Clip default to 1 (node-sized).
type Image struct {
	URL   string  `json:"url"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
	Scale float64 `json:"scale,omitempty"`
	Clip  float64 `json:"clip,omitempty"`
}

// =============================================================================
// Edge
// =============================================================================

// Edge connects two nodes. Edges are drawn by the host, not by the shape
// renderer.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Color string `json:"color,omitempty"`
}

// =============================================================================
// Shape Parameters
// =============================================================================

// ShapeParams is a typed parameter record for one shape. Each concrete type
// names the shape it belongs to, so a record attached to a node of another
// shape can be rejected when the graph is loaded.
type ShapeParams interface {
	ShapeName() string
	Validate() error
}

// StarParams configures the "star" shape.
type StarParams struct {
	NumPoints  int     `json:"num_points,omitempty"`
	InnerRatio float64 `json:"inner_ratio,omitempty"`
}

func (StarParams) ShapeName() string { return ShapeStar }

func (p StarParams) Validate() error {
	if p.NumPoints != 0 && (p.NumPoints < 2 || p.NumPoints > maxPoints) {
		return errors.New(errors.ErrCodeInvalidParams, "star: num_points must be between 2 and %d, got %d", maxPoints, p.NumPoints)
	}
	if p.InnerRatio < 0 || !finite(p.InnerRatio) {
		return errors.New(errors.ErrCodeInvalidParams, "star: inner_ratio must be a non-negative number")
	}
	return nil
}

// WithDefaults fills zero fields with their defaults.
func (p StarParams) WithDefaults() StarParams {
	if p.NumPoints == 0 {
		p.NumPoints = DefaultStarPoints
	}
	if p.InnerRatio == 0 {
		p.InnerRatio = DefaultStarInnerRatio
	}
	return p
}

// EquilateralParams configures the "equilateral" regular polygon.
// Rotate is in degrees, clockwise from 12 o'clock.
type EquilateralParams struct {
	NumPoints int     `json:"num_points,omitempty"`
	Rotate    float64 `json:"rotate,omitempty"`
}

func (EquilateralParams) ShapeName() string { return ShapeEquilateral }

func (p EquilateralParams) Validate() error {
	if p.NumPoints != 0 && (p.NumPoints < 3 || p.NumPoints > maxPoints) {
		return errors.New(errors.ErrCodeInvalidParams, "equilateral: num_points must be between 3 and %d, got %d", maxPoints, p.NumPoints)
	}
	if !finite(p.Rotate) {
		return errors.New(errors.ErrCodeInvalidParams, "equilateral: rotate must be a finite number")
	}
	return nil
}

// WithDefaults fills zero fields with their defaults.
func (p EquilateralParams) WithDefaults() EquilateralParams {
	if p.NumPoints == 0 {
		p.NumPoints = DefaultEquilateralPoints
	}
	return p
}

// CrossParams configures the "cross" shape. LineWeight is half the bar
// thickness in surface units.
type CrossParams struct {
	LineWeight float64 `json:"line_weight,omitempty"`
}

func (CrossParams) ShapeName() string { return ShapeCross }

func (p CrossParams) Validate() error {
	if p.LineWeight < 0 || !finite(p.LineWeight) {
		return errors.New(errors.ErrCodeInvalidParams, "cross: line_weight must be a non-negative number")
	}
	return nil
}

// WithDefaults fills zero fields with their defaults.
func (p CrossParams) WithDefaults() CrossParams {
	if p.LineWeight == 0 {
		p.LineWeight = DefaultCrossLineWeight
	}
	return p
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// =============================================================================
// JSON Encoding
// =============================================================================

// nodeAlias drops Node's methods so the wire struct can embed it without
// recursing into MarshalJSON/UnmarshalJSON.
type nodeAlias Node

// nodeJSON is the wire form of Node: the parameter record travels as one of
// the per-shape sub-objects.
type nodeJSON struct {
	nodeAlias
	Star        *StarParams        `json:"star,omitempty"`
	Equilateral *EquilateralParams `json:"equilateral,omitempty"`
	Cross       *CrossParams       `json:"cross,omitempty"`
}

// MarshalJSON writes Params as its per-shape sub-object.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{nodeAlias: nodeAlias(n)}
	switch p := n.Params.(type) {
	case StarParams:
		out.Star = &p
	case EquilateralParams:
		out.Equilateral = &p
	case CrossParams:
		out.Cross = &p
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads at most one per-shape sub-object into Params. A
// parameter object that belongs to another shape is an INVALID_PARAMS error;
// a node without a shape takes the shape its parameters name.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*n = Node(in.nodeAlias)

	var params []ShapeParams
	if in.Star != nil {
		params = append(params, *in.Star)
	}
	if in.Equilateral != nil {
		params = append(params, *in.Equilateral)
	}
	if in.Cross != nil {
		params = append(params, *in.Cross)
	}

	switch len(params) {
	case 0:
		return nil
	case 1:
		n.Params = params[0]
	default:
		return errors.New(errors.ErrCodeInvalidParams, "node %q: more than one shape parameter object", n.ID)
	}

	if n.Shape == "" {
		n.Shape = n.Params.ShapeName()
	} else if n.Shape != n.Params.ShapeName() {
		return errors.New(errors.ErrCodeInvalidParams, "node %q: %s parameters on a %q node", n.ID, n.Params.ShapeName(), n.Shape)
	}
	return nil
}
