// Package render binds registered shapes to the two node backends a host
// draws with.
//
// # Overview
//
// A [Renderer] enumerates a [shapes.Registry] once and produces, per shape
// name:
//
//   - a [CanvasFunc] for immediate-mode surfaces, called every frame
//   - an [SVGFuncs] pair for retained scenes: Create builds a node group
//     once, Update mutates it in place on every change
//
// Both backends paint the same outline. The retained backend replays the
// shape's fill and border painters into a [surface.Recorder] and turns each
// recorded fill or stroke into one persistent element, so a shape only ever
// has to be written against [surface.Surface].
//
// # Image Overlays
//
// Nodes with an image get a disc-clipped overlay. The canvas backend draws it
// from an [imagecache.Cache] once loaded and asks the host to repaint when a
// load completes; the retained backend emits a clip path and an <image>
// element that references the URL directly.
//
// # Usage
//
//	r := render.New(shapes.Default(), render.WithRefresh(host.Refresh))
//	defer r.Close()
//
//	canvas := r.Canvas()     // map[string]render.CanvasFunc
//	svg := r.SVG()           // map[string]render.SVGFuncs
//	canvas["star"](node, surf, settings)
//
// [DrawNode], [CreateNode] and [UpdateNode] dispatch on the node's shape.
//
// # Settings
//
// Hosts pass a [Settings] lookup; see the Key constants for the keys read
// and their defaults.
package render
