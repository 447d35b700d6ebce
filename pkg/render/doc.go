// Package render turns a schematic's display list into image files.
//
// The editor draws into a [scene.Canvas]; the items it holds are everything
// needed to reproduce the board. This package writes those items out:
//
//   - [SVG] emits one SVG element per item, in drawing order
//   - [PNG] rasterizes the same items with github.com/fogleman/gg
//
// Both take the board size in pixels and ignore nothing: grid crosses, the
// border, previews and labels all appear exactly as on screen.
//
//	items := surface.Canvas().Items()
//	w, h := surface.Size()
//	svg := render.SVG(items, w, h)
//	png, err := render.PNG(items, w, h, 2.0)
//
// The [nodelink] subpackage draws the connectivity of a schematic instead:
// modules as Graphviz nodes and nets as edges from driver to sinks.
package render
