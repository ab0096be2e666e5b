// Package shapes holds the registry of drawable node shapes.
//
// A shape is a named [Descriptor]: a fill [Painter], an optional border
// Painter and, for outline-based shapes, the [Tracer] both painters were
// built from. Renderers enumerate a registry once and bind one set of
// functions per shape name.
//
// # Outline Shapes
//
// Most shapes only describe their outline. [FillAdapter] and [BorderAdapter]
// turn one tracer into a matching pair of painters, so the filled body and
// its border always follow the same path:
//
//	reg := shapes.NewRegistry()
//	reg.MustRegisterOutline("triangle", func(n *graph.Node, x, y, size float64, p surface.Path) {
//	    p.MoveTo(x, y-size)
//	    p.LineTo(x+size, y+size)
//	    p.LineTo(x-size, y+size)
//	})
//
// # Built-in Shapes
//
// [Default] and [Builtin] provide square, circle, diamond, cross,
// equilateral, star and pacman. Cross, equilateral and star read typed
// parameters ([graph.CrossParams], [graph.EquilateralParams],
// [graph.StarParams]) from the node; missing parameters take their defaults.
//
// # Duplicate Names
//
// Registering a name twice is allowed by default: [Registry.Enumerate]
// returns both descriptors and the later one wins wherever names are
// resolved. A registry created with [WithStrictNames] rejects duplicates
// with an ErrCodeDuplicateShape error instead.
package shapes
