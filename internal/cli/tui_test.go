package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gridwire/pkg/editor"
	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/library"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

func newTestModel(save SaveFunc) EditorModel {
	s := schematic.New(schematic.Options{})
	ctrl := editor.New(s, editor.Options{})
	return NewEditorModel(ctrl, library.WithBuiltins().Components(), "test", save)
}

func update(t *testing.T, m EditorModel, msgs ...tea.Msg) EditorModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(EditorModel); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// click presses and releases the left button over canvas point (x, y).
func click(x, y int) []tea.Msg {
	col, row := x*cellChars/grid.DefaultCell, boardTop+y*cellLines/grid.DefaultCell
	return []tea.Msg{
		tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	}
}

func TestRasterModule(t *testing.T) {
	s := schematic.New(schematic.Options{Columns: 8, Rows: 5})
	comp, _ := library.WithBuiltins().Get("and_gate")
	s.AddModule(comp.ModuleSpec(grid.Pt(40, 40), grid.DefaultCell))
	cols, rows := s.Board()

	r := rasterize(s.Canvas().Items(), cols, rows, grid.DefaultCell)
	if r.w != cols*cellChars+1 || r.h != rows*cellLines+1 {
		t.Fatalf("raster size = %dx%d", r.w, r.h)
	}
	lines := strings.Split(r.Plain(), "\n")

	// The module box spans cells 1..4 horizontally and 1..4 vertically.
	if got := []rune(lines[2])[4]; got != '┌' {
		t.Errorf("top-left corner = %q, want ┌", got)
	}
	if got := []rune(lines[8])[16]; got != '┘' {
		t.Errorf("bottom-right corner = %q, want ┘", got)
	}
	if !strings.Contains(lines[5], "and_gate") {
		t.Errorf("label row = %q", lines[5])
	}
	// Output pin y sits at (160, 80): column 16, row 4.
	if got := []rune(lines[4])[16]; got != '●' {
		t.Errorf("output pin = %q, want ●", got)
	}
	// A vertex outside the module shows a grid dot.
	if got := []rune(lines[6])[24]; got != '·' {
		t.Errorf("grid vertex = %q, want ·", got)
	}
}

func TestRasterWire(t *testing.T) {
	s := schematic.New(schematic.Options{Columns: 6, Rows: 3})
	s.CommitRoute([]grid.Point{grid.Pt(40, 40), grid.Pt(160, 40), grid.Pt(160, 80)})
	cols, rows := s.Board()
	lines := strings.Split(rasterize(s.Canvas().Items(), cols, rows, grid.DefaultCell).Plain(), "\n")

	if got := []rune(lines[2])[10]; got != '─' {
		t.Errorf("horizontal run = %q, want ─", got)
	}
	if got := []rune(lines[3])[16]; got != '│' {
		t.Errorf("vertical run = %q, want │", got)
	}
}

func TestEditorPlaceAndConnect(t *testing.T) {
	m := newTestModel(nil)

	m = update(t, m, key("p"))
	if _, ok := m.ctrl.Mode().(editor.Place); !ok {
		t.Fatalf("mode = %s, want place", m.ctrl.Mode().Name())
	}
	m = update(t, m, click(40, 40)...)
	if n := len(m.surf.Modules()); n != 1 {
		t.Fatalf("modules = %d, want 1", n)
	}
	if got := m.surf.Modules()[0].Name(); got != "and_gate" {
		t.Errorf("placed %q, want and_gate", got)
	}
	if m.ctrl.Mode().Name() != editor.ModeNormal {
		t.Errorf("mode after place = %s, want normal", m.ctrl.Mode().Name())
	}

	m = update(t, m, key("c"))
	m = update(t, m, click(160, 80)...)
	m = update(t, m, click(240, 80)...)
	if n := len(m.ctrl.RoutePoints()); n != 2 {
		t.Fatalf("route points = %d, want 2", n)
	}
	if !strings.Contains(m.View(), "route: 2 vertices") {
		t.Error("view lacks route progress")
	}
	m = update(t, m, key("enter"))
	wires := m.surf.Wires()
	if len(wires) != 1 {
		t.Fatalf("wires = %d, want 1", len(wires))
	}
	if nodes := wires[0].Nodes(); nodes[0] != grid.Pt(160, 80) || nodes[1] != grid.Pt(240, 80) {
		t.Errorf("wire nodes = %v", nodes)
	}
	if m.ctrl.Mode().Name() != editor.ModeConnect {
		t.Error("commit should stay in connect mode")
	}
}

func TestEditorCycleComponent(t *testing.T) {
	m := newTestModel(nil)
	first, _ := m.component()
	m = update(t, m, key("p"), key("tab"))
	second, _ := m.component()
	if first.Name == second.Name {
		t.Fatal("tab did not change component")
	}
	place, ok := m.ctrl.Mode().(editor.Place)
	if !ok || place.Component.(library.Component).Name != second.Name {
		t.Errorf("place mode not updated to %s", second.Name)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got, _ := m.component(); got.Name != first.Name {
		t.Errorf("shift+tab = %s, want %s", got.Name, first.Name)
	}
}

func TestEditorDeleteAndClear(t *testing.T) {
	m := newTestModel(nil)
	m = update(t, m, tea.MouseMsg{X: 4, Y: boardTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m = update(t, m, tea.MouseMsg{X: 20, Y: boardTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if n := len(m.surf.Modules()); n != 2 {
		t.Fatalf("modules = %d, want 2", n)
	}

	m = update(t, m, key("d"))
	m = update(t, m, click(60, 60)...)
	if n := len(m.surf.Modules()); n != 1 {
		t.Errorf("modules after delete = %d, want 1", n)
	}

	m = update(t, m, key("x"))
	if n := len(m.surf.Modules()); n != 0 {
		t.Errorf("modules after clear = %d", n)
	}
	if m.ctrl.Mode().Name() != editor.ModeDelete {
		t.Error("clear should keep the mode")
	}
}

func TestEditorDragModule(t *testing.T) {
	m := newTestModel(nil)
	m = update(t, m, tea.MouseMsg{X: 4, Y: boardTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})

	// Grab inside the module at (50, 60), drop one cell right and down.
	m = update(t, m,
		tea.MouseMsg{X: 5, Y: boardTop + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 9, Y: boardTop + 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
	)
	if !m.ctrl.Dragging() {
		t.Fatal("expected drag in progress")
	}
	m = update(t, m, tea.MouseMsg{X: 9, Y: boardTop + 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := m.surf.Modules()[0].Anchor(); got != grid.Pt(80, 80) {
		t.Errorf("anchor = %v, want (80,80)", got)
	}
}

func TestEditorSaveAndQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.json")
	m := newTestModel(fileSaver(path))
	m = update(t, m, tea.MouseMsg{X: 4, Y: boardTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if !m.Dirty() {
		t.Fatal("expected dirty after edit")
	}

	// A dirty quit needs confirmation.
	next, cmd := m.Update(key("q"))
	m = next.(EditorModel)
	if cmd != nil || m.quit {
		t.Fatal("first q should not quit with unsaved changes")
	}

	m = update(t, m, key("s"))
	if m.Dirty() || m.Err() != nil {
		t.Fatalf("dirty=%v err=%v after save", m.Dirty(), m.Err())
	}
	g, err := graph.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Modules) != 1 {
		t.Errorf("saved %d modules, want 1", len(g.Modules))
	}

	next, cmd = m.Update(key("q"))
	if cmd == nil || !next.(EditorModel).quit {
		t.Error("q on a clean drawing should quit")
	}
}

func TestEditorSaveError(t *testing.T) {
	m := newTestModel(func(graph.Graph) (string, error) { return "", errors.New("disk full") })
	m = update(t, m, key("s"))
	if m.Err() == nil || !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q, err = %v", m.status, m.Err())
	}

	m = newTestModel(nil)
	m = update(t, m, key("s"))
	if !strings.Contains(m.status, "nowhere to save") {
		t.Errorf("status = %q", m.status)
	}
}
