// Package scene is a small retained-mode element tree with SVG output.
//
// Elements are created once and then mutated in place: attributes change,
// identity does not. Hosts keep the tree across frames and serialize it on
// demand with [Document.WriteSVG]. The tree models only what node renderers
// need (namespaced attributes, ordered children, a display toggle); it is not
// a DOM.
package scene
