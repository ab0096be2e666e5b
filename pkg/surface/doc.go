// Package surface defines the immediate-mode drawing contract node painters
// are written against, and the backends that implement it.
//
// # Contract
//
// [Path] is the path-construction subset (MoveTo, LineTo, Arc). Outline
// tracers receive a Path and therefore cannot change colours, fill or stroke.
// [Surface] adds the state bracket (Save/Restore), paint state, fill, stroke,
// clipping and image drawing, mirroring the 2D canvas model: filling or
// stroking does not consume the current path, and Arc connects to the
// current point with a straight line.
//
// # Backends
//
//   - [Raster] draws into an RGBA image through github.com/fogleman/gg.
//   - [Recorder] records every call and collects each fill or stroke as a
//     [Mark]. The retained-mode renderer replays painters into a Recorder to
//     obtain the exact outlines the raster backend would paint.
//
// # Colours
//
// [ParseColor] accepts CSS-style colours ("#f00", "#ff0000", "rgb(255,0,0)",
// "rgba(255,0,0,0.5)" and named colours); [FormatColor] goes the other way.
package surface
