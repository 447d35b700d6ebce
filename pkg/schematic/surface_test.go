package schematic

import (
	"testing"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
)

func pts(xy ...int) []grid.Point {
	out := make([]grid.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, grid.Pt(xy[i], xy[i+1]))
	}
	return out
}

func equalPoints(a, b []grid.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// twoModules builds the A/B board used by the scenario tests.
func twoModules(t *testing.T) (*Surface, *Module, *Module) {
	t.Helper()
	s := New(Options{Cell: 40})
	a := s.AddModule(ModuleSpec{Name: "A", Anchor: grid.Pt(0, 0), SpanW: 2, SpanH: 1})
	b := s.AddModule(ModuleSpec{Name: "B", Anchor: grid.Pt(160, 0), SpanW: 2, SpanH: 1})
	return s, a, b
}

func TestScenarioConnectTwoModules(t *testing.T) {
	s, a, b := twoModules(t)

	if got := a.PinPosition(DefaultInputPin); got != grid.Pt(0, 40) {
		t.Errorf("A.left = %v", got)
	}
	if got := a.PinPosition(DefaultOutputPin); got != grid.Pt(80, 40) {
		t.Errorf("A.right = %v", got)
	}
	if got := b.PinPosition(DefaultInputPin); got != grid.Pt(160, 40) {
		t.Errorf("B.left = %v", got)
	}
	if got := b.PinPosition(DefaultOutputPin); got != grid.Pt(240, 40) {
		t.Errorf("B.right = %v", got)
	}

	w, ok := s.CommitRoute(pts(80, 40, 160, 40))
	if !ok {
		t.Fatal("CommitRoute returned false")
	}

	g := s.ExportGraph()
	if len(g.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(g.Connections))
	}
	c := g.Connections[0]
	if c.UUID != w.ID() || !equalPoints(c.Nodes, pts(80, 40, 160, 40)) {
		t.Errorf("connection = %+v", c)
	}
	if a.ID() != 1001 || b.ID() != 1002 || w.ID() != 1003 {
		t.Errorf("ids = %d, %d, %d", a.ID(), b.ID(), w.ID())
	}
}

func TestScenarioExtendExistingWire(t *testing.T) {
	s, _, _ := twoModules(t)
	first, _ := s.CommitRoute(pts(80, 40, 160, 40))

	w, ok := s.CommitRoute(pts(160, 40, 300, 100))
	if !ok {
		t.Fatal("CommitRoute returned false")
	}
	if w != first {
		t.Error("intersecting route must extend the existing wire")
	}
	if len(s.Wires()) != 1 {
		t.Fatalf("wires = %d, want 1", len(s.Wires()))
	}
	if want := pts(80, 40, 160, 40, 320, 120); !equalPoints(w.Nodes(), want) {
		t.Errorf("nodes = %v, want %v", w.Nodes(), want)
	}
}

func TestScenarioDeleteModuleRemovesWire(t *testing.T) {
	s, a, b := twoModules(t)
	w, _ := s.CommitRoute(pts(80, 40, 160, 40))

	r := s.DeleteAt(40, 20)
	if r.ModuleID != a.ID() {
		t.Errorf("removed module = %d, want %d", r.ModuleID, a.ID())
	}
	if len(r.WireIDs) != 1 || r.WireIDs[0] != w.ID() {
		t.Errorf("removed wires = %v", r.WireIDs)
	}
	mods := s.Modules()
	if len(mods) != 1 || mods[0] != b {
		t.Errorf("remaining modules = %v", mods)
	}
	if len(s.Wires()) != 0 {
		t.Errorf("wires = %d, want 0", len(s.Wires()))
	}
}

func TestScenarioSingleVertexCommit(t *testing.T) {
	s, _, _ := twoModules(t)
	before := s.ExportGraph()

	if w, ok := s.CommitRoute(pts(80, 40)); ok || w != nil {
		t.Error("single-vertex commit must be a no-op")
	}
	if _, ok := s.CommitRoute(nil); ok {
		t.Error("empty commit must be a no-op")
	}

	after := s.ExportGraph()
	if len(after.Modules) != len(before.Modules) || len(after.Connections) != 0 {
		t.Errorf("collections changed: %+v", after)
	}
}

func TestCommitRouteCollapsedVertices(t *testing.T) {
	s := New(Options{Cell: 40})
	w, ok := s.CommitRoute(pts(80, 40, 80, 40))
	if !ok || w == nil {
		t.Fatal("two clicks on one vertex should commit an inert wire")
	}
	if w.Drawable() {
		t.Error("single-vertex wire must not be drawable")
	}
	if n := countTag(s, TagWire); n != 0 {
		t.Errorf("drawn wire items = %d, want 0", n)
	}

	g := s.ExportGraph()
	if len(g.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(g.Connections))
	}
	if nodes := g.Connections[0].Nodes; len(nodes) != 1 || nodes[0] != grid.Pt(80, 40) {
		t.Errorf("nodes = %v, want [(80,40)]", nodes)
	}

	// Snapping can collapse distinct clicks too.
	if _, ok := s.CommitRoute(pts(200, 40, 201, 41)); !ok {
		t.Error("collapsed clicks should still commit")
	}
}

func TestCommitRouteFirstMatchWins(t *testing.T) {
	s := New(Options{Cell: 40})
	w1, _ := s.CommitRoute(pts(0, 0, 40, 0))
	w2, _ := s.CommitRoute(pts(200, 0, 240, 0))

	got, _ := s.CommitRoute(pts(40, 0, 200, 0))
	if got != w1 {
		t.Errorf("extended wire %d, want first match %d", got.ID(), w1.ID())
	}
	if w2.Len() != 2 {
		t.Errorf("second wire touched: %v", w2.Nodes())
	}
	if len(s.Wires()) != 2 {
		t.Errorf("wires = %d, want 2", len(s.Wires()))
	}
	// Only the first match is extended, so it now shares (200,0) with w2.
	if want := pts(0, 0, 40, 0, 200, 0); !equalPoints(w1.Nodes(), want) {
		t.Errorf("first wire = %v, want %v", w1.Nodes(), want)
	}
	if !w1.Touches(grid.Pt(200, 0)) || !w2.Touches(grid.Pt(200, 0)) {
		t.Error("both wires should hold (200,0)")
	}
}

func TestDeleteRemovesOnlyTouchingWires(t *testing.T) {
	s, a, _ := twoModules(t)
	touching, _ := s.CommitRoute(pts(0, 40, 0, 160))
	elsewhere, _ := s.CommitRoute(pts(40, 200, 80, 200))
	through, _ := s.CommitRoute(pts(400, 0, 80, 40, 400, 80))

	r := s.DeleteAt(float64(a.Anchor().X+1), float64(a.Anchor().Y+1))
	if r.ModuleID != a.ID() {
		t.Fatalf("removal = %+v", r)
	}
	if len(r.WireIDs) != 2 {
		t.Errorf("removed wires = %v, want %d and %d", r.WireIDs, touching.ID(), through.ID())
	}
	wires := s.Wires()
	if len(wires) != 1 || wires[0] != elsewhere {
		t.Errorf("remaining wires = %v", wires)
	}
}

func TestDeleteAtPriorityAndTopMost(t *testing.T) {
	s := New(Options{Cell: 40})
	bottom := s.AddModule(ModuleSpec{Name: "bottom", Anchor: grid.Pt(0, 0), SpanW: 4, SpanH: 4})
	top := s.AddModule(ModuleSpec{Name: "top", Anchor: grid.Pt(40, 40), SpanW: 1, SpanH: 1,
		Pins: []Pin{}})
	s.CommitRoute(pts(0, 40, 200, 40))

	r := s.DeleteAt(60, 42)
	if r.ModuleID != top.ID() {
		t.Errorf("removed %d, want top-most %d", r.ModuleID, top.ID())
	}
	if len(s.Wires()) != 1 {
		t.Error("wire under a module must survive module deletion")
	}

	r = s.DeleteAt(60, 42)
	if r.ModuleID != bottom.ID() {
		t.Errorf("removed %d, want %d", r.ModuleID, bottom.ID())
	}

	r = s.DeleteAt(60, 42)
	if r.ModuleID != 0 || len(r.WireIDs) != 1 {
		t.Errorf("expected the wire to go last, got %+v", r)
	}

	if r := s.DeleteAt(60, 42); r.Removed() {
		t.Errorf("empty hit should remove nothing, got %+v", r)
	}
}

func TestMoveModuleLeavesWires(t *testing.T) {
	s, a, _ := twoModules(t)
	w, _ := s.CommitRoute(pts(80, 40, 160, 40))

	s.MoveModule(a, 35, 118)
	if a.Anchor() != grid.Pt(40, 120) {
		t.Errorf("anchor = %v", a.Anchor())
	}
	if got := a.PinPosition(DefaultOutputPin); got != grid.Pt(120, 160) {
		t.Errorf("right pin = %v", got)
	}
	if !equalPoints(w.Nodes(), pts(80, 40, 160, 40)) {
		t.Errorf("wire moved with module: %v", w.Nodes())
	}

	// The module no longer sits on the wire's end, so deleting it leaves
	// the wire alone.
	r := s.DeleteAt(60, 130)
	if r.ModuleID != a.ID() || len(r.WireIDs) != 0 {
		t.Errorf("removal = %+v", r)
	}
}

func TestMoveModuleUpdatesCanvas(t *testing.T) {
	s, a, _ := twoModules(t)
	s.MoveModule(a, 40, 80)

	it, ok := s.Canvas().Item(a.rect)
	if !ok {
		t.Fatal("module rect missing")
	}
	if it.Coords[0] != 40 || it.Coords[1] != 80 || it.Coords[2] != 120 || it.Coords[3] != 120 {
		t.Errorf("rect coords = %v", it.Coords)
	}
	pin, ok := s.Canvas().Item(a.pinHandles[DefaultInputPin])
	if !ok || pin.Coords[0] != 40-PinRadius || pin.Coords[1] != 120-PinRadius {
		t.Errorf("pin coords = %v", pin.Coords)
	}
}

func TestMoveUnknownModule(t *testing.T) {
	s := New(Options{})
	other := New(Options{})
	m := other.AddModule(ModuleSpec{Name: "x"})
	s.MoveModule(m, 200, 200)
	if m.Anchor() != grid.Pt(0, 0) {
		t.Error("foreign module must not move")
	}
}

func TestAddModuleDefaults(t *testing.T) {
	s := New(Options{})
	m := s.AddModule(ModuleSpec{Anchor: grid.Pt(22, 17)})
	if m.Name() != "Module1" {
		t.Errorf("name = %q", m.Name())
	}
	if m.Anchor() != grid.Pt(40, 0) {
		t.Errorf("anchor = %v", m.Anchor())
	}
	if !m.HasDefaultPins() {
		t.Error("expected default pins")
	}
}

func TestReconfigure(t *testing.T) {
	s := New(Options{Cell: 40})
	m := s.AddModule(ModuleSpec{Name: "A"})

	s.Reconfigure(m, Reconfigure{Name: "B"})
	if m.Name() != "B" {
		t.Errorf("name = %q", m.Name())
	}
	if it, _ := s.Canvas().Item(m.label); it.Text != "B" {
		t.Errorf("label text = %q", it.Text)
	}

	s.Reconfigure(m, Reconfigure{SpanW: 5})
	if w, h := m.Span(); w != 2 || h != 1 {
		t.Errorf("partial resize applied: %dx%d", w, h)
	}

	s.Reconfigure(m, Reconfigure{SpanW: 3, SpanH: 2})
	if w, h := m.Span(); w != 3 || h != 2 {
		t.Errorf("span = %dx%d", w, h)
	}
	if got := m.PinPosition(DefaultOutputPin); got != grid.Pt(120, 40) {
		t.Errorf("default right after resize = %v", got)
	}

	s.Reconfigure(m, Reconfigure{Pins: []Pin{{Name: "q", Dir: Output, Pos: grid.Pt(120, 80)}}})
	if pins := m.Pins(); len(pins) != 1 || pins[0].Name != "q" {
		t.Errorf("pins = %+v", pins)
	}
	if n := countTag(s, TagPin); n != 1 {
		t.Errorf("pin visuals = %d, want 1", n)
	}
}

func TestSetPinsDiscardsOldVisuals(t *testing.T) {
	s := New(Options{})
	m := s.AddModule(ModuleSpec{Name: "A"})
	if n := countTag(s, TagPin); n != 2 {
		t.Fatalf("pin visuals = %d, want 2", n)
	}
	s.SetPins(m, []Pin{
		{Name: "a", Dir: Input, Pos: grid.Pt(0, 0)},
		{Name: "b", Dir: Input, Pos: grid.Pt(0, 40)},
		{Name: "y", Dir: Output, Pos: grid.Pt(80, 0)},
	})
	if n := countTag(s, TagPin); n != 3 {
		t.Errorf("pin visuals = %d, want 3", n)
	}
	if n := countTag(s, TagOutput); n != 1 {
		t.Errorf("output visuals = %d, want 1", n)
	}
}

func TestExportGraphIsSnapshot(t *testing.T) {
	s, a, _ := twoModules(t)
	s.CommitRoute(pts(80, 40, 160, 40))

	g := s.ExportGraph()
	g.Modules[0].Pins[0].Pos = grid.Pt(-1, -1)
	g.Connections[0].Nodes[0] = grid.Pt(-1, -1)

	if a.PinPosition(DefaultInputPin) != grid.Pt(0, 40) {
		t.Error("export aliases module pins")
	}
	if s.Wires()[0].Nodes()[0] != grid.Pt(80, 40) {
		t.Error("export aliases wire nodes")
	}
}

func TestExportCallsSink(t *testing.T) {
	var got []graph.Graph
	s := New(Options{Sink: func(g graph.Graph) { got = append(got, g) }})
	s.AddModule(ModuleSpec{Name: "A"})
	s.Export()
	if len(got) != 1 || len(got[0].Modules) != 1 {
		t.Errorf("sink received %+v", got)
	}

	quiet := New(Options{})
	if g := quiet.Export(); len(g.Modules) != 0 {
		t.Error("export without sink should still return the graph")
	}
}

func TestClear(t *testing.T) {
	s, _, _ := twoModules(t)
	s.CommitRoute(pts(80, 40, 160, 40))
	s.ShowRouteMarker(grid.Pt(0, 0))
	base := New(Options{Cell: 40}).Canvas().Items()

	s.Clear()

	if len(s.Modules()) != 0 || len(s.Wires()) != 0 {
		t.Error("entities survived Clear")
	}
	if s.PreviewActive() {
		t.Error("preview survived Clear")
	}
	if got := len(s.Canvas().Items()); got != len(base) {
		t.Errorf("canvas items = %d, want base layer %d", got, len(base))
	}
	if m := s.AddModule(ModuleSpec{Name: "A"}); m.ID() != 1004 {
		t.Errorf("ids must not be reused after Clear, got %d", m.ID())
	}
}

func TestRefreshAfterExternalClear(t *testing.T) {
	s, a, _ := twoModules(t)
	w, _ := s.CommitRoute(pts(80, 40, 160, 40))
	want := len(s.Canvas().Items())

	s.Canvas().Clear()
	s.Refresh()

	if got := len(s.Canvas().Items()); got != want {
		t.Errorf("items after Refresh = %d, want %d", got, want)
	}
	if len(s.Modules()) != 2 || len(s.Wires()) != 1 {
		t.Error("Refresh lost logical state")
	}
	if _, ok := s.Canvas().Item(a.rect); !ok {
		t.Error("module rect not recreated")
	}
	if _, ok := s.Canvas().Item(w.handle); !ok {
		t.Error("wire line not recreated")
	}
}

func TestStaleWireHandleIsRecreated(t *testing.T) {
	s, _, _ := twoModules(t)
	w, _ := s.CommitRoute(pts(80, 40, 160, 40))

	// Something else wiped all lines.
	s.Canvas().DeleteTag(TagWire)
	s.CommitRoute(pts(160, 40, 200, 40))

	it, ok := s.Canvas().Item(w.handle)
	if !ok {
		t.Fatal("wire not redrawn after stale handle")
	}
	if len(it.Coords) != 6 {
		t.Errorf("coords = %v", it.Coords)
	}
	if n := countTag(s, TagWire); n != 1 {
		t.Errorf("wire items = %d, want 1", n)
	}
}

func TestInvalidateRebuild(t *testing.T) {
	s, _, _ := twoModules(t)
	s.CommitRoute(pts(80, 40, 160, 40))
	want := len(s.Canvas().Items())

	s.Invalidate()
	if got := len(s.Canvas().Items()); got != want {
		t.Error("Invalidate must not touch the canvas")
	}
	s.Rebuild()
	if got := len(s.Canvas().Items()); got != want {
		t.Errorf("items after Rebuild = %d, want %d (no duplicates)", got, want)
	}
}

func TestLoadGraph(t *testing.T) {
	src, _, _ := twoModules(t)
	src.CommitRoute(pts(80, 40, 160, 40))
	exported := src.ExportGraph()

	s := New(Options{Cell: 40})
	if err := s.LoadGraph(exported); err != nil {
		t.Fatal(err)
	}
	if len(s.Modules()) != 2 || len(s.Wires()) != 1 {
		t.Fatalf("loaded %d modules, %d wires", len(s.Modules()), len(s.Wires()))
	}
	a, ok := s.Module(1001)
	if !ok || !a.HasDefaultPins() {
		t.Errorf("module 1001 = %+v, default=%v", a, ok && a.HasDefaultPins())
	}
	if _, ok := s.Wire(1003); !ok {
		t.Error("wire 1003 missing")
	}
	if m := s.AddModule(ModuleSpec{Name: "C"}); m.ID() != 1004 {
		t.Errorf("next id = %d, want 1004", m.ID())
	}

	bad := graph.Graph{Modules: []graph.Module{{UUID: 1, Name: "", GridW: 1, GridH: 1}}}
	if err := s.LoadGraph(bad); err == nil {
		t.Error("expected validation error")
	}
	// A zero id would make a later delete report nothing removed.
	zero := graph.Graph{Modules: []graph.Module{{UUID: 0, Name: "Z", GridW: 1, GridH: 1}}}
	if err := s.LoadGraph(zero); err == nil {
		t.Error("expected error for module id 0")
	}
	if len(s.Modules()) != 3 {
		t.Error("failed load must leave the surface untouched")
	}
}

func TestHitTests(t *testing.T) {
	s, a, _ := twoModules(t)
	w, _ := s.CommitRoute(pts(80, 40, 160, 40))

	if m, ok := s.ModuleAt(10, 10); !ok || m != a {
		t.Error("ModuleAt missed A")
	}
	if _, ok := s.ModuleAt(120, 200); ok {
		t.Error("ModuleAt hit empty space")
	}
	if m, p, ok := s.PinAt(84, 36); !ok || m != a || p.Name != DefaultOutputPin {
		t.Errorf("PinAt = %v %+v %v", m, p, ok)
	}
	if _, _, ok := s.PinAt(87, 40); ok {
		t.Error("PinAt outside marker")
	}
	if got, ok := s.WireAt(120, 44); !ok || got != w {
		t.Error("WireAt missed wire")
	}
}

func TestPreviewOverlay(t *testing.T) {
	s := New(Options{})
	s.ShowRouteMarker(grid.Pt(40, 40))
	s.ShowRoutePreview(pts(40, 40))
	if n := countTag(s, TagPreview); n != 1 {
		t.Errorf("preview items = %d, want marker only", n)
	}
	s.ShowRoutePreview(pts(40, 40, 80, 40))
	s.ShowRoutePreview(pts(40, 40, 80, 40, 80, 80))
	if n := countTag(s, TagPreview); n != 2 {
		t.Errorf("preview items = %d, want 2", n)
	}
	s.ShowPinDrag(grid.Pt(0, 0), grid.Pt(40, 0))
	if !s.PreviewActive() {
		t.Error("preview should be active")
	}
	s.ClearPreview()
	if n := countTag(s, TagPreview); n != 0 || s.PreviewActive() {
		t.Errorf("preview items after clear = %d", n)
	}
	if len(s.ExportGraph().Connections) != 0 {
		t.Error("preview must never become a wire")
	}
}

func TestBaseLayer(t *testing.T) {
	s := New(Options{Cell: 10, Columns: 2, Rows: 1})
	// 6 vertices × 2 strokes + border
	if n := countTag(s, TagGrid); n != 13 {
		t.Errorf("grid items = %d, want 13", n)
	}
	if w, h := s.Size(); w != 20 || h != 10 {
		t.Errorf("size = %dx%d", w, h)
	}
}

func countTag(s *Surface, tag string) int {
	n := 0
	for _, it := range s.Canvas().Items() {
		if it.HasTag(tag) {
			n++
		}
	}
	return n
}
