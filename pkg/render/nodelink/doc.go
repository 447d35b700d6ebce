// Package nodelink draws the connectivity of a schematic with Graphviz.
//
// Where the board rendering shows where modules sit, a node-link diagram
// shows what drives what: every placed module becomes a box and every net
// becomes edges from the module owning its output pin to each module with
// an input pin on it. Nets without a driver, or without any sink, meet at a
// small point node named after the net.
//
//	nets := netlist.Build(g)
//	dot := nodelink.ToDOT(g, nets, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: box labels list the module's pins and edges carry pin names
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external tools are needed for SVG or PNG output.
package nodelink
