package schematic

import (
	"slices"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/scene"
)

// DefaultTolerance is the half-width of the band used by Wire.ContainsPoint.
const DefaultTolerance = 5

// Wire is a routed wire: an ordered list of distinct lattice vertices.
type Wire struct {
	id     int
	g      grid.Grid
	nodes  []grid.Point
	handle scene.Handle
}

func newWire(id int, g grid.Grid, raw []grid.Point) *Wire {
	w := &Wire{id: id, g: g}
	for _, p := range raw {
		w.addPoint(p)
	}
	return w
}

func (w *Wire) ID() int { return w.id }

// Nodes returns a copy of the vertex list.
func (w *Wire) Nodes() []grid.Point { return slices.Clone(w.nodes) }

// Len returns the number of vertices.
func (w *Wire) Len() int { return len(w.nodes) }

// Drawable reports whether the wire has enough vertices to render.
func (w *Wire) Drawable() bool { return len(w.nodes) >= 2 }

// Touches reports whether p is one of the wire's vertices.
func (w *Wire) Touches(p grid.Point) bool { return slices.Contains(w.nodes, p) }

// AddVertex snaps (x, y) and appends it unless already present.
// It reports whether the vertex was appended.
func (w *Wire) AddVertex(x, y float64) bool {
	return w.addPoint(w.g.Snap(x, y))
}

func (w *Wire) addPoint(p grid.Point) bool {
	p = w.g.SnapPoint(p)
	if slices.Contains(w.nodes, p) {
		return false
	}
	w.nodes = append(w.nodes, p)
	return true
}

// intersects reports whether any of pts is a vertex of w.
func (w *Wire) intersects(pts []grid.Point) bool {
	for _, p := range pts {
		if w.Touches(p) {
			return true
		}
	}
	return false
}

// ContainsPoint reports whether (x, y) lies inside the axis-aligned box of
// some consecutive vertex pair, grown by tol on every side. This is a
// proximity band, not a distance-to-segment test.
func (w *Wire) ContainsPoint(x, y, tol float64) bool {
	for i := 0; i+1 < len(w.nodes); i++ {
		a, b := w.nodes[i], w.nodes[i+1]
		minX := float64(min(a.X, b.X)) - tol
		maxX := float64(max(a.X, b.X)) + tol
		minY := float64(min(a.Y, b.Y)) - tol
		maxY := float64(max(a.Y, b.Y)) + tol
		if minX <= x && x <= maxX && minY <= y && y <= maxY {
			return true
		}
	}
	return false
}

// Export returns a detached snapshot.
func (w *Wire) Export() graph.Connection {
	return graph.Connection{UUID: w.id, Nodes: slices.Clone(w.nodes)}
}

// coords flattens the vertex list for a canvas polyline.
func (w *Wire) coords() []float64 {
	return flatten(w.nodes)
}

func flatten(pts []grid.Point) []float64 {
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, float64(p.X), float64(p.Y))
	}
	return out
}
