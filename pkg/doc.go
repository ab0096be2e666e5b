// Package pkg provides the libraries behind nodeshapes node rendering.
//
// # Overview
//
// nodeshapes draws graph nodes as registered shapes. Every shape can be
// painted on an immediate-mode canvas and built as retained SVG elements
// from the same outline, and nodes may carry a circular image overlay that
// is loaded asynchronously. The pkg directory is organized into four areas:
//
//  1. [shapes] - The shape registry, the built-in shapes and the adapters
//     that turn one outline into a fill and a border painter
//  2. [render] - The dual-backend renderer: canvas functions and SVG
//     create/update functions per registered shape
//  3. [surface], [scene] - The drawing targets: a gg-backed raster and a
//     recorder for the canvas side, an element tree for the retained side
//  4. [imagecache], [cache] - Overlay images: the per-URL status cache with
//     its eviction policy, and the byte stores behind the HTTP loader
//
// # Architecture
//
//	graph.Node (position, size, colours, image, shape parameters)
//	         ↓
//	    [shapes] registry lookup by name
//	         ↓
//	    [render] canvas function          [render] SVG create / update
//	         ↓                                     ↓
//	    [surface] Raster (PNG)            [scene] Element tree (SVG)
//	         ↑                                     ↑
//	         └──────── [imagecache] overlay ───────┘
//
// # Quick Start
//
//	r := render.New(shapes.Builtin(), render.WithRefresh(repaint))
//	defer r.Close()
//
//	canvas := r.Canvas()
//	px := surface.NewRaster(200, 200)
//	canvas["star"](node, px, settings)
//
//	svg := r.SVG()
//	g := svg["star"].Create(node, settings)
//	// ... later, after the node moved:
//	svg["star"].Update(node, g, settings)
//
// # Supporting Packages
//
// [graph] - JSON graph files, typed shape parameters and Graphviz placement
// for graphs without coordinates.
//
// [config] - TOML settings files mapped onto the renderer's setting keys.
//
// [errors] - Coded errors shared by the renderer, the CLI and the preview
// server.
//
// [observability] - Hooks for paints, element creation and image loads.
//
// [buildinfo] - Version information set at link time.
//
// [shapes]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/shapes
// [render]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/render
// [surface]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/surface
// [scene]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/scene
// [imagecache]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/imagecache
// [cache]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/cache
// [graph]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/graph
// [config]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/nodeshapes/pkg/buildinfo
package pkg
