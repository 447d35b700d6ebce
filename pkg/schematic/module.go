package schematic

import (
	"slices"
	"strconv"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/scene"
)

// Direction is a pin's signal direction.
type Direction string

const (
	Input  Direction = graph.PinInput
	Output Direction = graph.PinOutput
)

// Valid reports whether d is Input or Output.
func (d Direction) Valid() bool { return d == Input || d == Output }

// Pin is a named connection point. Pos is absolute.
type Pin struct {
	Name string
	Dir  Direction
	Pos  grid.Point
}

// Names of the synthesized default pins.
const (
	DefaultInputPin  = "left"
	DefaultOutputPin = "right"
)

// Default module span in cells.
const (
	DefaultSpanW = 2
	DefaultSpanH = 1
)

// ModuleSpec describes a module to create. Anchor and pin positions may be
// off-lattice; they are snapped on creation. Nil Pins requests the default
// two-pin layout. Zero spans fall back to DefaultSpanW×DefaultSpanH.
type ModuleSpec struct {
	Name   string
	Anchor grid.Point
	SpanW  int
	SpanH  int
	Pins   []Pin
}

// Module is a placed rectangular module symbol.
type Module struct {
	id     int
	name   string
	g      grid.Grid
	anchor grid.Point
	spanW  int
	spanH  int
	pins   []Pin

	// defaultPins is true while pins are the synthesized left/right pair,
	// so a resize can regenerate them.
	defaultPins bool

	rect, label scene.Handle
	pinHandles  map[string]scene.Handle
}

func newModule(id int, g grid.Grid, spec ModuleSpec) *Module {
	m := &Module{
		id:     id,
		name:   spec.Name,
		g:      g,
		anchor: g.SnapPoint(spec.Anchor),
		spanW:  spec.SpanW,
		spanH:  spec.SpanH,
	}
	if m.spanW <= 0 || m.spanH <= 0 {
		m.spanW, m.spanH = DefaultSpanW, DefaultSpanH
	}
	if spec.Pins == nil {
		m.resetDefaultPins()
	} else {
		m.SetPins(spec.Pins)
	}
	return m
}

// DefaultPins returns the default layout for a w×h box anchored at anchor:
// an input at the left-centre boundary vertex and an output at the
// right-centre one, snapped with g.
func DefaultPins(g grid.Grid, anchor grid.Point, w, h int) []Pin {
	midY := float64(anchor.Y) + float64(h/2)
	return []Pin{
		{Name: DefaultInputPin, Dir: Input, Pos: g.Snap(float64(anchor.X), midY)},
		{Name: DefaultOutputPin, Dir: Output, Pos: g.Snap(float64(anchor.X+w), midY)},
	}
}

func (m *Module) resetDefaultPins() {
	w, h := m.Size()
	m.pins = DefaultPins(m.g, m.anchor, w, h)
	m.defaultPins = true
}

func (m *Module) ID() int              { return m.id }
func (m *Module) Name() string         { return m.name }
func (m *Module) Anchor() grid.Point   { return m.anchor }
func (m *Module) Span() (w, h int)     { return m.spanW, m.spanH }
func (m *Module) HasDefaultPins() bool { return m.defaultPins }

// Size returns width and height in canvas units.
func (m *Module) Size() (w, h int) {
	return m.g.Span(m.spanW), m.g.Span(m.spanH)
}

// Bounds returns the bounding box corners.
func (m *Module) Bounds() (x0, y0, x1, y1 int) {
	w, h := m.Size()
	return m.anchor.X, m.anchor.Y, m.anchor.X + w, m.anchor.Y + h
}

// Pins returns a copy of the pin list in order.
func (m *Module) Pins() []Pin { return slices.Clone(m.pins) }

// Pin returns the named pin.
func (m *Module) Pin(name string) (Pin, bool) {
	for _, p := range m.pins {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// PinPosition returns the named pin's stored position, or the snapped centre
// of the module when there is no such pin. Use Pin to test existence.
func (m *Module) PinPosition(name string) grid.Point {
	if p, ok := m.Pin(name); ok {
		return p.Pos
	}
	w, h := m.Size()
	return m.g.Center(m.anchor, w, h)
}

// PinPositions returns the distinct positions of all pins.
func (m *Module) PinPositions() []grid.Point {
	out := make([]grid.Point, 0, len(m.pins))
	for _, p := range m.pins {
		if !slices.Contains(out, p.Pos) {
			out = append(out, p.Pos)
		}
	}
	return out
}

// SetPins replaces the whole pin set. Positions are snapped. A later pin
// with the same name replaces the earlier one in place. Pins with an
// unknown direction are stored as inputs.
func (m *Module) SetPins(pins []Pin) {
	out := make([]Pin, 0, len(pins))
	for i, p := range pins {
		if p.Name == "" {
			p.Name = pinName(i + 1)
		}
		if !p.Dir.Valid() {
			p.Dir = Input
		}
		p.Pos = m.g.SnapPoint(p.Pos)
		if j := slices.IndexFunc(out, func(q Pin) bool { return q.Name == p.Name }); j >= 0 {
			out[j] = p
			continue
		}
		out = append(out, p)
	}
	m.pins = out
	m.defaultPins = false
}

// ContainsPoint is an inclusive bounding-box test.
func (m *Module) ContainsPoint(x, y float64) bool {
	x0, y0, x1, y1 := m.Bounds()
	return float64(x0) <= x && x <= float64(x1) && float64(y0) <= y && y <= float64(y1)
}

// Move translates the anchor and every stored pin position by (dx, dy).
// Pins are shifted, not re-derived. Rendering is the surface's job.
func (m *Module) Move(dx, dy int) {
	m.anchor = m.anchor.Add(dx, dy)
	for i := range m.pins {
		m.pins[i].Pos = m.pins[i].Pos.Add(dx, dy)
	}
}

func (m *Module) rename(name string) { m.name = name }

// resize changes the span. Default pins follow the new size.
func (m *Module) resize(spanW, spanH int) {
	m.spanW, m.spanH = spanW, spanH
	if m.defaultPins {
		m.resetDefaultPins()
	}
}

// Export returns a detached snapshot.
func (m *Module) Export() graph.Module {
	pins := make([]graph.Pin, len(m.pins))
	for i, p := range m.pins {
		pins[i] = graph.Pin{Name: p.Name, Type: string(p.Dir), Pos: p.Pos}
	}
	return graph.Module{
		UUID:  m.id,
		Name:  m.name,
		X:     m.anchor.X,
		Y:     m.anchor.Y,
		GridW: m.spanW,
		GridH: m.spanH,
		Pins:  pins,
	}
}

func pinName(n int) string {
	return "pin" + strconv.Itoa(n)
}
