// Package graph defines the node and edge records a host hands to the shape
// renderer, together with their JSON serialization.
//
// # Nodes
//
// A [Node] carries everything the renderer reads: a position and size (and
// optionally further positions keyed by prefix, see [Node.Position]), fill
// and border colours, an optional [Image] overlay and an optional typed
// parameter record for its shape.
//
// # Shape Parameters
//
// Shape-specific parameters are a tagged variant: [ShapeParams] is
// implemented by [StarParams], [EquilateralParams] and [CrossParams]. On the
// wire each record travels as its own sub-object:
//
//	{"id": "a", "shape": "star", "size": 10, "star": {"num_points": 6}}
//
// A parameter object that does not belong to the node's shape is rejected
// when the graph is decoded, so renderers never see mismatched parameters.
// Zero fields fall back to documented defaults.
//
// # Placement
//
// Graphs exported without coordinates can be placed with [AutoLayout], which
// runs the Graphviz "dot" engine and reads the node centres back from its
// output:
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	if graph.NeedsLayout(g) {
//	    _ = graph.AutoLayout(ctx, g, graph.DefaultLayoutScale)
//	}
package graph
