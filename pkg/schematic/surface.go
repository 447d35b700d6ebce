package schematic

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/observability"
	"github.com/matzehuels/gridwire/pkg/scene"
)

// Default board size in cells.
const (
	DefaultColumns = 20
	DefaultRows    = 15
)

// ExportSink receives exported graphs.
type ExportSink func(graph.Graph)

// Options configures a Surface. Zero values select defaults.
type Options struct {
	Cell      int          // lattice cell size (default grid.DefaultCell)
	Columns   int          // board width in cells (default DefaultColumns)
	Rows      int          // board height in cells (default DefaultRows)
	Tolerance float64      // wire hit band (default DefaultTolerance)
	IDs       IDGenerator  // id source (default NewCounter(FirstID))
	Canvas    scene.Canvas // render target (default scene.NewDisplayList())
	Logger    *log.Logger  // default discards
	Sink      ExportSink   // called by Export, may be nil
}

// Surface owns modules and wires and keeps the canvas in sync with them.
type Surface struct {
	g      grid.Grid
	cols   int
	rows   int
	tol    float64
	ids    IDGenerator
	canvas scene.Canvas
	log    *log.Logger
	sink   ExportSink

	modules []*Module
	wires   []*Wire
	preview preview
}

// Removal describes what DeleteAt removed. A zero Removal means nothing.
type Removal struct {
	ModuleID int   // 0 when a wire was hit instead
	WireIDs  []int // wires removed with the module, or the single hit wire
}

// Removed reports whether anything was removed.
func (r Removal) Removed() bool { return r.ModuleID != 0 || len(r.WireIDs) > 0 }

// New creates an empty surface and draws the base grid layer.
func New(opts Options) *Surface {
	s := &Surface{
		g:      grid.New(opts.Cell),
		cols:   opts.Columns,
		rows:   opts.Rows,
		tol:    opts.Tolerance,
		ids:    opts.IDs,
		canvas: opts.Canvas,
		log:    opts.Logger,
		sink:   opts.Sink,
	}
	if s.cols <= 0 {
		s.cols = DefaultColumns
	}
	if s.rows <= 0 {
		s.rows = DefaultRows
	}
	if s.tol <= 0 {
		s.tol = DefaultTolerance
	}
	if s.ids == nil {
		s.ids = NewCounter(FirstID)
	}
	if s.canvas == nil {
		s.canvas = scene.NewDisplayList()
	}
	if s.log == nil {
		s.log = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.drawBase()
	return s
}

// =============================================================================
// Accessors
// =============================================================================

func (s *Surface) Grid() grid.Grid      { return s.g }
func (s *Surface) Canvas() scene.Canvas { return s.canvas }

// Board returns the board size in cells.
func (s *Surface) Board() (cols, rows int) { return s.cols, s.rows }

// Size returns the board size in canvas units.
func (s *Surface) Size() (w, h int) { return s.g.Span(s.cols), s.g.Span(s.rows) }

// Modules returns the modules in insertion order.
func (s *Surface) Modules() []*Module { return slices.Clone(s.modules) }

// Wires returns the wires in insertion order.
func (s *Surface) Wires() []*Wire { return slices.Clone(s.wires) }

// Module looks up a module by id.
func (s *Surface) Module(id int) (*Module, bool) {
	for _, m := range s.modules {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

// Wire looks up a wire by id.
func (s *Surface) Wire(id int) (*Wire, bool) {
	for _, w := range s.wires {
		if w.id == id {
			return w, true
		}
	}
	return nil, false
}

// ModuleAt returns the top-most module (last inserted) containing (x, y).
func (s *Surface) ModuleAt(x, y float64) (*Module, bool) {
	for i := len(s.modules) - 1; i >= 0; i-- {
		if s.modules[i].ContainsPoint(x, y) {
			return s.modules[i], true
		}
	}
	return nil, false
}

// PinAt returns the first pin, in module insertion order, whose marker
// covers (x, y).
func (s *Surface) PinAt(x, y float64) (*Module, Pin, bool) {
	for _, m := range s.modules {
		for _, p := range m.pins {
			if abs(x-float64(p.Pos.X)) <= PinRadius && abs(y-float64(p.Pos.Y)) <= PinRadius {
				return m, p, true
			}
		}
	}
	return nil, Pin{}, false
}

// WireAt returns the first wire, in insertion order, whose band covers (x, y).
func (s *Surface) WireAt(x, y float64) (*Wire, bool) {
	for _, w := range s.wires {
		if w.ContainsPoint(x, y, s.tol) {
			return w, true
		}
	}
	return nil, false
}

func (s *Surface) owns(m *Module) bool { return m != nil && slices.Contains(s.modules, m) }

// =============================================================================
// Edits
// =============================================================================

// AddModule creates a module from spec, renders it and returns it.
// An empty name becomes "Module<N>" where N is the new module count.
func (s *Surface) AddModule(spec ModuleSpec) *Module {
	if spec.Name == "" {
		spec.Name = fmt.Sprintf("Module%d", len(s.modules)+1)
	}
	m := newModule(s.ids.Next(), s.g, spec)
	s.modules = append(s.modules, m)
	s.renderModule(m, true)
	s.log.Debug("module added", "id", m.id, "name", m.name, "at", m.anchor)
	observability.Editor().OnEdit("add_module", m.id)
	return m
}

// DeleteAt removes at most one entity under (x, y). A module hit (top-most
// first) wins over a wire hit; removing a module also removes every wire
// with a vertex on one of its pin positions.
func (s *Surface) DeleteAt(x, y float64) Removal {
	if m, ok := s.ModuleAt(x, y); ok {
		return s.removeModule(m)
	}
	if w, ok := s.WireAt(x, y); ok {
		s.removeWire(w)
		s.log.Debug("wire deleted", "id", w.id)
		observability.Editor().OnEdit("delete_wire", w.id)
		return Removal{WireIDs: []int{w.id}}
	}
	s.log.Debug("delete: nothing hit", "x", x, "y", y)
	return Removal{}
}

func (s *Surface) removeModule(m *Module) Removal {
	pins := m.PinPositions()
	s.modules = slices.DeleteFunc(s.modules, func(o *Module) bool { return o == m })
	s.eraseModule(m)

	r := Removal{ModuleID: m.id}
	s.wires = slices.DeleteFunc(s.wires, func(w *Wire) bool {
		if !w.intersects(pins) {
			return false
		}
		s.eraseWire(w)
		r.WireIDs = append(r.WireIDs, w.id)
		return true
	})
	s.renderWires()
	s.log.Debug("module deleted", "id", m.id, "name", m.name, "wires", r.WireIDs)
	observability.Editor().OnEdit("delete_module", m.id)
	return r
}

func (s *Surface) removeWire(w *Wire) {
	s.wires = slices.DeleteFunc(s.wires, func(o *Wire) bool { return o == w })
	s.eraseWire(w)
	s.renderWires()
}

// MoveModule moves m so its anchor lands on the vertex nearest (x, y).
// Pins shift with it; wires keep their vertices and are re-rendered.
func (s *Surface) MoveModule(m *Module, x, y float64) {
	if !s.owns(m) {
		s.log.Debug("move: unknown module")
		return
	}
	dx, dy := s.g.Snap(x, y).Sub(m.anchor)
	if dx == 0 && dy == 0 {
		return
	}
	m.Move(dx, dy)
	s.renderModule(m, false)
	s.renderWires()
	observability.Editor().OnEdit("move_module", m.id)
}

// SetPins replaces m's pin set and redraws its pins from scratch.
func (s *Surface) SetPins(m *Module, pins []Pin) {
	if !s.owns(m) {
		return
	}
	m.SetPins(pins)
	s.renderModule(m, true)
	observability.Editor().OnEdit("reconfigure", m.id)
}

// Reconfigure holds optional module changes. Zero fields are left alone.
// SpanW and SpanH apply only when both are positive.
type Reconfigure struct {
	Name  string
	SpanW int
	SpanH int
	Pins  []Pin
}

// Reconfigure renames, resizes or re-pins m. Resizing a module that still
// has its default pins regenerates them for the new size; explicit pins are
// kept unless r.Pins replaces them.
func (s *Surface) Reconfigure(m *Module, r Reconfigure) {
	if !s.owns(m) {
		return
	}
	if r.Name != "" {
		m.rename(r.Name)
	}
	if r.SpanW > 0 && r.SpanH > 0 {
		m.resize(r.SpanW, r.SpanH)
	} else if r.SpanW > 0 || r.SpanH > 0 {
		s.log.Debug("reconfigure: partial resize ignored", "id", m.id, "w", r.SpanW, "h", r.SpanH)
	}
	if r.Pins != nil {
		m.SetPins(r.Pins)
	}
	s.renderModule(m, true)
	observability.Editor().OnEdit("reconfigure", m.id)
}

// CommitRoute turns clicked vertices into wiring. The vertices are snapped
// and de-duplicated. If any existing wire (in insertion order) shares a
// vertex with them, the first such wire is extended; otherwise a new wire
// is created. Fewer than two points is a no-op. Points that collapse to a
// single vertex still commit, leaving an inert wire that is not drawn. The
// returned bool reports whether anything was committed.
func (s *Surface) CommitRoute(points []grid.Point) (*Wire, bool) {
	var pts []grid.Point
	for _, p := range points {
		p = s.g.SnapPoint(p)
		if !slices.Contains(pts, p) {
			pts = append(pts, p)
		}
	}
	if len(points) < 2 {
		s.log.Debug("route ignored: fewer than two vertices", "vertices", len(points))
		return nil, false
	}

	for _, w := range s.wires {
		if !w.intersects(pts) {
			continue
		}
		for _, p := range pts {
			w.addPoint(p)
		}
		s.renderWire(w)
		s.log.Debug("route extended", "id", w.id, "nodes", w.nodes)
		observability.Editor().OnEdit("extend_route", w.id)
		return w, true
	}

	w := newWire(s.ids.Next(), s.g, pts)
	s.wires = append(s.wires, w)
	s.renderWire(w)
	s.log.Debug("route created", "id", w.id, "nodes", w.nodes)
	observability.Editor().OnEdit("commit_route", w.id)
	return w, true
}

// Clear discards every entity and all preview state and resets the canvas
// to the base grid.
func (s *Surface) Clear() {
	s.modules = nil
	s.wires = nil
	s.preview = preview{}
	s.canvas.Clear()
	s.drawBase()
	observability.Editor().OnEdit("clear", 0)
}

// =============================================================================
// Export and import
// =============================================================================

// ExportGraph returns a deep snapshot of modules and wires.
func (s *Surface) ExportGraph() graph.Graph {
	g := graph.Graph{
		Modules:     make([]graph.Module, 0, len(s.modules)),
		Connections: make([]graph.Connection, 0, len(s.wires)),
	}
	for _, m := range s.modules {
		g.Modules = append(g.Modules, m.Export())
	}
	for _, w := range s.wires {
		g.Connections = append(g.Connections, w.Export())
	}
	return g
}

// Export snapshots the surface and hands the graph to the sink, if any.
func (s *Surface) Export() graph.Graph {
	g := s.ExportGraph()
	if s.sink != nil {
		s.sink(g.Clone())
	}
	return g
}

// LoadGraph replaces the surface contents with g. Ids are kept and the id
// generator is advanced past them. Coordinates are snapped on the way in.
func (s *Surface) LoadGraph(g graph.Graph) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	s.modules = nil
	s.wires = nil
	s.preview = preview{}

	for _, gm := range g.Modules {
		s.ids.Observe(gm.UUID)
		spec := ModuleSpec{
			Name:   gm.Name,
			Anchor: gm.Anchor(),
			SpanW:  gm.GridW,
			SpanH:  gm.GridH,
			Pins:   make([]Pin, len(gm.Pins)),
		}
		for i, p := range gm.Pins {
			spec.Pins[i] = Pin{Name: p.Name, Dir: Direction(p.Type), Pos: p.Pos}
		}
		m := newModule(gm.UUID, s.g, spec)
		w, h := m.Size()
		if slices.Equal(m.pins, DefaultPins(s.g, m.anchor, w, h)) {
			m.defaultPins = true
		}
		s.modules = append(s.modules, m)
	}
	for _, c := range g.Connections {
		s.ids.Observe(c.UUID)
		s.wires = append(s.wires, newWire(c.UUID, s.g, c.Nodes))
	}

	s.Rebuild()
	s.log.Debug("graph loaded", "modules", len(s.modules), "wires", len(s.wires))
	observability.Editor().OnEdit("load", 0)
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
