package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/gridwire/pkg/grid"
)

// =============================================================================
// Constants
// =============================================================================

// Pin directions.
const (
	PinInput  = "input"
	PinOutput = "output"
)

// =============================================================================
// Graph - Schematic Serialization
// =============================================================================

// Graph is the exported connectivity graph of a schematic.
// It is a value snapshot: nothing in it aliases live editor state.
type Graph struct {
	Modules     []Module     `json:"modules" bson:"modules"`
	Connections []Connection `json:"connections" bson:"connections"`
}

// Module looks up a module by id.
func (g Graph) Module(id int) (Module, bool) {
	for _, m := range g.Modules {
		if m.UUID == id {
			return m, true
		}
	}
	return Module{}, false
}

// MaxID returns the largest id used by any module or connection, or 0.
func (g Graph) MaxID() int {
	n := 0
	for _, m := range g.Modules {
		n = max(n, m.UUID)
	}
	for _, c := range g.Connections {
		n = max(n, c.UUID)
	}
	return n
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	out := Graph{
		Modules:     make([]Module, len(g.Modules)),
		Connections: make([]Connection, len(g.Connections)),
	}
	for i, m := range g.Modules {
		m.Pins = slices.Clone(m.Pins)
		out.Modules[i] = m
	}
	for i, c := range g.Connections {
		c.Nodes = slices.Clone(c.Nodes)
		out.Connections[i] = c
	}
	return out
}

// Validate checks structural consistency: positive ids unique across
// modules and connections, non-empty module names, known pin directions and unique pin
// names per module. It does not check electrical correctness.
func (g Graph) Validate() error {
	seen := make(map[int]bool, len(g.Modules)+len(g.Connections))
	for _, m := range g.Modules {
		if m.UUID <= 0 {
			return fmt.Errorf("module %q: invalid id %d", m.Name, m.UUID)
		}
		if seen[m.UUID] {
			return fmt.Errorf("duplicate id %d", m.UUID)
		}
		seen[m.UUID] = true
		if m.Name == "" {
			return fmt.Errorf("module %d: empty name", m.UUID)
		}
		if m.GridW <= 0 || m.GridH <= 0 {
			return fmt.Errorf("module %d: invalid span %dx%d", m.UUID, m.GridW, m.GridH)
		}
		names := make(map[string]bool, len(m.Pins))
		for _, p := range m.Pins {
			if p.Type != PinInput && p.Type != PinOutput {
				return fmt.Errorf("module %d: pin %q: unknown type %q", m.UUID, p.Name, p.Type)
			}
			if names[p.Name] {
				return fmt.Errorf("module %d: duplicate pin %q", m.UUID, p.Name)
			}
			names[p.Name] = true
		}
	}
	for _, c := range g.Connections {
		if c.UUID <= 0 {
			return fmt.Errorf("connection: invalid id %d", c.UUID)
		}
		if seen[c.UUID] {
			return fmt.Errorf("duplicate id %d", c.UUID)
		}
		seen[c.UUID] = true
	}
	return nil
}

// =============================================================================
// Module - Placed Module Symbol
// =============================================================================

// Module is a placed module. X and Y are the top-left anchor; GridW and
// GridH are the span in cells.
type Module struct {
	UUID  int    `json:"uuid" bson:"uuid"`
	Name  string `json:"name" bson:"name"`
	X     int    `json:"x" bson:"x"`
	Y     int    `json:"y" bson:"y"`
	GridW int    `json:"grid_w" bson:"grid_w"`
	GridH int    `json:"grid_h" bson:"grid_h"`
	Pins  []Pin  `json:"pins" bson:"pins"`
}

// Pin returns the named pin.
func (m Module) Pin(name string) (Pin, bool) {
	for _, p := range m.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// Anchor returns the top-left corner as a point.
func (m Module) Anchor() grid.Point { return grid.Pt(m.X, m.Y) }

// =============================================================================
// Pin - Directional Connection Point
// =============================================================================

// Pin is a named connection point on a module boundary.
type Pin struct {
	Name string     `json:"name" bson:"name"`
	Type string     `json:"type" bson:"type"` // PinInput or PinOutput
	Pos  grid.Point `json:"pos" bson:"pos"`
}

// =============================================================================
// Connection - Routed Wire
// =============================================================================

// Connection is a routed wire: an ordered list of distinct lattice vertices.
type Connection struct {
	UUID  int          `json:"uuid" bson:"uuid"`
	Nodes []grid.Point `json:"nodes" bson:"nodes"`
}

// Touches reports whether any vertex equals p.
func (c Connection) Touches(p grid.Point) bool {
	return slices.Contains(c.Nodes, p)
}
