package grid

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultCell is the cell size used when none is configured.
const DefaultCell = 40

// Point is a lattice coordinate.
type Point struct {
	X int `bson:"x"`
	Y int `bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Sub returns the delta from q to p.
func (p Point) Sub(q Point) (dx, dy int) { return p.X - q.X, p.Y - q.Y }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// MarshalJSON encodes p as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: want 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Grid is a square lattice with a fixed cell size.
type Grid struct {
	Cell int
}

// New returns a grid with the given cell size, falling back to
// DefaultCell for non-positive values.
func New(cell int) Grid {
	if cell <= 0 {
		cell = DefaultCell
	}
	return Grid{Cell: cell}
}

func (g Grid) cell() int {
	if g.Cell <= 0 {
		return DefaultCell
	}
	return g.Cell
}

// Snap maps a pointer coordinate to the nearest lattice vertex.
func (g Grid) Snap(x, y float64) Point {
	c := float64(g.cell())
	return Point{
		X: int(math.Round(x/c)) * g.cell(),
		Y: int(math.Round(y/c)) * g.cell(),
	}
}

// SnapPoint snaps an integer coordinate that may be off-lattice.
func (g Grid) SnapPoint(p Point) Point {
	return g.Snap(float64(p.X), float64(p.Y))
}

// Aligned reports whether p already lies on the lattice.
func (g Grid) Aligned(p Point) bool {
	c := g.cell()
	return p.X%c == 0 && p.Y%c == 0
}

// Span converts a span in cells to units.
func (g Grid) Span(cells int) int { return cells * g.cell() }

// Center returns the lattice vertex nearest the centre of the w×h box
// anchored at p.
func (g Grid) Center(p Point, w, h int) Point {
	return g.Snap(float64(p.X)+float64(w)/2, float64(p.Y)+float64(h)/2)
}

// Vertices returns every vertex of a cols×rows board, row-major, including
// both far edges.
func (g Grid) Vertices(cols, rows int) []Point {
	if cols < 0 || rows < 0 {
		return nil
	}
	c := g.cell()
	out := make([]Point, 0, (cols+1)*(rows+1))
	for j := 0; j <= rows; j++ {
		for i := 0; i <= cols; i++ {
			out = append(out, Point{X: i * c, Y: j * c})
		}
	}
	return out
}
