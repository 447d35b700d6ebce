package editor

import (
	"testing"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/observability"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

func newController() (*Controller, *schematic.Surface) {
	s := schematic.New(schematic.Options{Cell: 40})
	return New(s, Options{}), s
}

func and2() Component {
	return SpecComponent{
		Name:  "and",
		SpanW: 2,
		SpanH: 2,
		Pins: []schematic.Pin{
			{Name: "a", Dir: schematic.Input, Pos: grid.Pt(0, 40)},
			{Name: "b", Dir: schematic.Input, Pos: grid.Pt(0, 80)},
			{Name: "y", Dir: schematic.Output, Pos: grid.Pt(80, 40)},
		},
	}
}

func TestInitialModeIsNormal(t *testing.T) {
	c, _ := newController()
	if _, ok := c.Mode().(Normal); !ok {
		t.Errorf("initial mode = %T", c.Mode())
	}
}

func TestPlaceReturnsToNormal(t *testing.T) {
	c, s := newController()
	c.SetMode(Place{Component: and2()})

	c.Press(205, 118)

	mods := s.Modules()
	if len(mods) != 1 {
		t.Fatalf("modules = %d, want 1", len(mods))
	}
	m := mods[0]
	if m.Name() != "and" || m.Anchor() != grid.Pt(200, 120) {
		t.Errorf("placed %q at %v", m.Name(), m.Anchor())
	}
	if p, _ := m.Pin("b"); p.Pos != grid.Pt(200, 200) {
		t.Errorf("pin b = %v, want (200,200)", p.Pos)
	}
	if _, ok := c.Mode().(Normal); !ok {
		t.Errorf("mode after place = %s, want normal", c.Mode().Name())
	}

	// The next press is a normal press, not another placement.
	c.Press(600, 500)
	if len(s.Modules()) != 1 {
		t.Error("place must only happen once")
	}
}

func TestPlaceWithoutComponent(t *testing.T) {
	c, s := newController()
	c.SetMode(Place{})
	c.Press(40, 40)
	if len(s.Modules()) != 0 {
		t.Error("place without component must be a no-op")
	}
	if _, ok := c.Mode().(Place); !ok {
		t.Error("mode should stay place when nothing was placed")
	}
}

func TestConnectScenario(t *testing.T) {
	c, s := newController()
	s.AddModule(schematic.ModuleSpec{Name: "A", Anchor: grid.Pt(0, 0)})
	s.AddModule(schematic.ModuleSpec{Name: "B", Anchor: grid.Pt(160, 0)})

	c.SetMode(&Connect{})
	c.Press(80, 40)
	if !s.PreviewActive() {
		t.Error("first click should draw a marker")
	}
	c.Press(158, 43)
	if got := c.RoutePoints(); len(got) != 2 || got[1] != grid.Pt(160, 40) {
		t.Errorf("buffer = %v", got)
	}
	c.Commit()

	wires := s.Wires()
	if len(wires) != 1 {
		t.Fatalf("wires = %d, want 1", len(wires))
	}
	if n := wires[0].Nodes(); len(n) != 2 || n[0] != grid.Pt(80, 40) || n[1] != grid.Pt(160, 40) {
		t.Errorf("nodes = %v", n)
	}
	if _, ok := c.Mode().(*Connect); !ok {
		t.Error("connect mode must persist after commit")
	}
	if len(c.RoutePoints()) != 0 || s.PreviewActive() {
		t.Error("buffer and preview must be cleared after commit")
	}

	// Second route sharing (160,40) extends the first wire.
	c.Press(160, 40)
	c.Press(300, 100)
	c.Commit()
	wires = s.Wires()
	if len(wires) != 1 {
		t.Fatalf("wires = %d, want 1", len(wires))
	}
	if n := wires[0].Nodes(); len(n) != 3 || n[2] != grid.Pt(320, 120) {
		t.Errorf("nodes = %v", n)
	}
}

func TestConnectSingleClickDiscarded(t *testing.T) {
	c, s := newController()
	c.SetMode(&Connect{})
	c.Press(80, 40)
	c.Commit()
	if len(s.Wires()) != 0 {
		t.Error("single-vertex route must not create a wire")
	}
	if len(c.RoutePoints()) != 0 {
		t.Error("buffer must be discarded")
	}
}

func TestConnectDoubleClickDuplicate(t *testing.T) {
	// A double click delivers two presses at the same spot before Commit.
	c, s := newController()
	c.SetMode(&Connect{})
	c.Press(0, 0)
	c.Press(80, 0)
	c.Press(80, 0)
	c.Commit()
	w := s.Wires()
	if len(w) != 1 || w[0].Len() != 2 {
		t.Errorf("wires = %v", w)
	}
}

func TestDeleteModeRepeats(t *testing.T) {
	c, s := newController()
	s.AddModule(schematic.ModuleSpec{Name: "A", Anchor: grid.Pt(0, 0)})
	s.AddModule(schematic.ModuleSpec{Name: "B", Anchor: grid.Pt(160, 0)})
	s.CommitRoute([]grid.Point{grid.Pt(80, 40), grid.Pt(160, 40)})

	c.SetMode(Delete{})
	c.Press(40, 20)
	if len(s.Modules()) != 1 || len(s.Wires()) != 0 {
		t.Errorf("after delete: %d modules, %d wires", len(s.Modules()), len(s.Wires()))
	}
	c.Press(200, 20)
	if len(s.Modules()) != 0 {
		t.Error("delete mode should remain active")
	}
	c.Press(500, 500)
	if _, ok := c.Mode().(Delete); !ok {
		t.Error("mode changed on empty hit")
	}
}

func TestNormalDragModule(t *testing.T) {
	c, s := newController()
	m := s.AddModule(schematic.ModuleSpec{Name: "A", Anchor: grid.Pt(0, 0)})

	c.Press(10, 10)
	if !c.Dragging() {
		t.Fatal("press on module should start a drag")
	}
	c.Drag(130, 90)
	if m.Anchor() != grid.Pt(120, 80) {
		t.Errorf("anchor = %v, want (120,80)", m.Anchor())
	}
	c.Release(130, 90)
	if c.Dragging() {
		t.Error("release should end the drag")
	}
	c.Drag(400, 400)
	if m.Anchor() != grid.Pt(120, 80) {
		t.Error("drag after release must not move the module")
	}
}

func TestNormalDragTopMost(t *testing.T) {
	c, s := newController()
	bottom := s.AddModule(schematic.ModuleSpec{Name: "bottom", SpanW: 4, SpanH: 4})
	top := s.AddModule(schematic.ModuleSpec{Name: "top", Anchor: grid.Pt(40, 40), Pins: []schematic.Pin{}})

	c.Press(50, 50)
	c.Drag(250, 50)
	c.Release(250, 50)
	if top.Anchor() != grid.Pt(240, 40) {
		t.Errorf("top anchor = %v", top.Anchor())
	}
	if bottom.Anchor() != grid.Pt(0, 0) {
		t.Error("bottom module must not move")
	}
}

func TestNormalPinDragNeverPersists(t *testing.T) {
	c, s := newController()
	// Pins outside the module box so the press misses the rectangle.
	s.AddModule(schematic.ModuleSpec{
		Name:   "A",
		Anchor: grid.Pt(40, 40),
		Pins:   []schematic.Pin{{Name: "p", Dir: schematic.Output, Pos: grid.Pt(200, 40)}},
	})

	c.Press(202, 38)
	if !c.Dragging() || !s.PreviewActive() {
		t.Fatal("press on pin should start a pin drag preview")
	}
	c.Drag(300, 200)
	c.Release(300, 200)

	if s.PreviewActive() {
		t.Error("pin drag preview must be discarded on release")
	}
	if len(s.Wires()) != 0 {
		t.Error("pin drag must not create a wire")
	}
}

func TestSecondaryPress(t *testing.T) {
	c, s := newController()
	c.SecondaryPress(95, 50)
	c.SecondaryPress(300, 300)
	mods := s.Modules()
	if len(mods) != 2 || mods[0].Name() != "Module1" || mods[1].Name() != "Module2" {
		t.Fatalf("modules = %v", mods)
	}
	if mods[0].Anchor() != grid.Pt(80, 40) {
		t.Errorf("anchor = %v", mods[0].Anchor())
	}

	c.SetMode(Delete{})
	c.SecondaryPress(500, 500)
	if len(s.Modules()) != 2 {
		t.Error("secondary press only adds in normal mode")
	}
}

func TestSetModeClearsTransientState(t *testing.T) {
	c, s := newController()
	c.SetMode(&Connect{})
	c.Press(0, 0)
	c.Press(40, 0)

	c.SetMode(Delete{})
	if s.PreviewActive() {
		t.Error("preview must be cleared on mode change")
	}

	cm := &Connect{}
	c.SetMode(cm)
	if len(cm.Points()) != 0 {
		t.Error("fresh connect mode must start empty")
	}
	c.Commit()
	if len(s.Wires()) != 0 {
		t.Error("abandoned route must not be committed")
	}

	c.SetMode(nil)
	if _, ok := c.Mode().(Normal); !ok {
		t.Error("SetMode(nil) should select normal")
	}
	c.SetMode(&Delete{})
	if _, ok := c.Mode().(Delete); !ok {
		t.Errorf("pointer modes are normalized, got %T", c.Mode())
	}
}

func TestSetModeTypedNil(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
	}{
		{"connect", (*Connect)(nil)},
		{"place", (*Place)(nil)},
		{"delete", (*Delete)(nil)},
		{"normal", (*Normal)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController()
			c.SetMode(&Connect{})
			c.SetMode(tt.mode)
			if _, ok := c.Mode().(Normal); !ok {
				t.Errorf("mode = %T, want Normal", c.Mode())
			}
		})
	}
}

func TestApply(t *testing.T) {
	c, s := newController()
	gestures := []Gesture{
		{Type: GestureSecondary, X: 0, Y: 0},
		{Type: GesturePress, X: 10, Y: 10},
		{Type: GestureDrag, X: 170, Y: 90},
		{Type: GestureRelease, X: 170, Y: 90},
	}
	for _, g := range gestures {
		if err := c.Apply(g); err != nil {
			t.Fatalf("Apply(%+v) = %v", g, err)
		}
	}
	if m := s.Modules()[0]; m.Anchor() != grid.Pt(160, 80) {
		t.Errorf("anchor = %v", m.Anchor())
	}

	err := c.Apply(Gesture{Type: "wiggle"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Apply(unknown) = %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		comp    Component
		want    string
		wantErr bool
	}{
		{"normal", nil, ModeNormal, false},
		{"", nil, ModeNormal, false},
		{"connect", nil, ModeConnect, false},
		{"delete", nil, ModeDelete, false},
		{"place", and2(), ModePlace, false},
		{"place", nil, "", true},
		{"erase", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMode(tt.name, tt.comp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidMode) {
					t.Errorf("code = %v", errors.GetCode(err))
				}
				return
			}
			if m.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", m.Name(), tt.want)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopEditorHooks
	gestures []string
	edits    []string
}

func (r *recordingHooks) OnGesture(mode, gesture string) {
	r.gestures = append(r.gestures, mode+":"+gesture)
}

func (r *recordingHooks) OnEdit(op string, _ int) { r.edits = append(r.edits, op) }

func TestHooksReceiveEvents(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetEditorHooks(rec)
	defer observability.Reset()

	c, _ := newController()
	c.SetMode(&Connect{})
	c.Press(0, 0)
	c.Press(40, 0)
	c.Commit()

	if len(rec.gestures) != 3 || rec.gestures[0] != "connect:press" || rec.gestures[2] != "connect:commit" {
		t.Errorf("gestures = %v", rec.gestures)
	}
	if len(rec.edits) != 1 || rec.edits[0] != "commit_route" {
		t.Errorf("edits = %v", rec.edits)
	}
}
