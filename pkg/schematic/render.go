package schematic

import (
	"errors"
	"strconv"

	"github.com/matzehuels/gridwire/pkg/scene"
)

// Canvas tags applied to rendered items.
const (
	TagGrid    = "grid"
	TagModule  = "module"
	TagLabel   = "label"
	TagPin     = "pin"
	TagInput   = "input"
	TagOutput  = "output"
	TagWire    = "line"
	TagPreview = "preview"
)

// PinRadius is the half-size of a pin marker and of its hit box.
const PinRadius = 6

const (
	crossSize    = 4
	borderInset  = 4
	markerRadius = 8
)

var (
	styleCross   = scene.Style{Stroke: "#aaa", Width: 1}
	styleBorder  = scene.Style{Stroke: "black", Width: 2}
	styleModule  = scene.Style{Stroke: "blue", Fill: "#e0e0ff", Width: 2}
	styleLabel   = scene.Style{Stroke: "black", Size: 12}
	styleInput   = scene.Style{Fill: "red"}
	styleOutput  = scene.Style{Fill: "green"}
	styleWire    = scene.Style{Stroke: "black", Width: 3}
	styleMarker  = scene.Style{Stroke: "orange", Fill: "orange", Width: 2}
	stylePreview = scene.Style{Stroke: "orange", Width: 2, Dash: []float64{4, 2}}
)

// ModuleTag is the per-module canvas tag.
func ModuleTag(id int) string { return "m" + strconv.Itoa(id) }

// WireTag is the per-wire canvas tag.
func WireTag(id int) string { return "w" + strconv.Itoa(id) }

// =============================================================================
// Render cache
// =============================================================================

// Invalidate forgets every cached canvas handle without touching the
// canvas. Call it after the canvas was cleared behind the surface's back;
// the next render recreates everything.
func (s *Surface) Invalidate() {
	for _, m := range s.modules {
		m.rect, m.label = 0, 0
		m.pinHandles = nil
	}
	for _, w := range s.wires {
		w.handle = 0
	}
	s.preview = preview{}
}

// Rebuild clears the canvas and redraws the base layer and every entity
// from logical state.
func (s *Surface) Rebuild() {
	s.Invalidate()
	s.canvas.Clear()
	s.drawBase()
	for _, m := range s.modules {
		s.renderModule(m, true)
	}
	s.renderWires()
}

// Refresh is a full re-render with no loss of logical state.
func (s *Surface) Refresh() {
	s.Rebuild()
	s.log.Debug("surface refreshed", "modules", len(s.modules), "wires", len(s.wires))
}

// =============================================================================
// Drawing
// =============================================================================

func (s *Surface) drawBase() {
	for _, v := range s.g.Vertices(s.cols, s.rows) {
		x, y := float64(v.X), float64(v.Y)
		s.canvas.CreateLine([]float64{x - crossSize, y, x + crossSize, y}, styleCross, TagGrid)
		s.canvas.CreateLine([]float64{x, y - crossSize, x, y + crossSize}, styleCross, TagGrid)
	}
	w, h := s.Size()
	s.canvas.CreateRect(borderInset, borderInset, float64(w), float64(h), styleBorder, TagGrid)
}

// renderModule brings m's rectangle, label and pins up to date. With
// repin, old pin visuals are discarded and recreated.
func (s *Surface) renderModule(m *Module, repin bool) {
	x0, y0, x1, y1 := m.Bounds()
	fx0, fy0, fx1, fy1 := float64(x0), float64(y0), float64(x1), float64(y1)
	tag := ModuleTag(m.id)

	if !s.update(m.rect, fx0, fy0, fx1, fy1) {
		m.rect = s.canvas.CreateRect(fx0, fy0, fx1, fy1, styleModule, TagModule, tag)
	}

	cx, cy := (fx0+fx1)/2, (fy0+fy1)/2
	if !s.update(m.label, cx, cy) || s.canvas.SetText(m.label, m.name) != nil {
		m.label = s.canvas.CreateText(cx, cy, m.name, styleLabel, TagLabel, tag)
	}

	if repin {
		for _, h := range m.pinHandles {
			s.forget(h)
		}
		m.pinHandles = nil
	}
	if m.pinHandles == nil {
		m.pinHandles = make(map[string]scene.Handle, len(m.pins))
	}
	for _, p := range m.pins {
		px, py := float64(p.Pos.X), float64(p.Pos.Y)
		bx0, by0, bx1, by1 := px-PinRadius, py-PinRadius, px+PinRadius, py+PinRadius
		if s.update(m.pinHandles[p.Name], bx0, by0, bx1, by1) {
			continue
		}
		style, dirTag := styleInput, TagInput
		if p.Dir == Output {
			style, dirTag = styleOutput, TagOutput
		}
		m.pinHandles[p.Name] = s.canvas.CreateOval(bx0, by0, bx1, by1, style, TagPin, dirTag, tag)
	}
}

func (s *Surface) eraseModule(m *Module) {
	s.forget(m.rect)
	s.forget(m.label)
	for _, h := range m.pinHandles {
		s.forget(h)
	}
	m.rect, m.label, m.pinHandles = 0, 0, nil
}

// renderWire draws w, updating its polyline in place when the handle is
// still live. Wires with fewer than two vertices are not drawn.
func (s *Surface) renderWire(w *Wire) {
	if !w.Drawable() {
		s.forget(w.handle)
		w.handle = 0
		s.log.Debug("wire not drawn: fewer than two vertices", "id", w.id, "nodes", len(w.nodes))
		return
	}
	coords := w.coords()
	if s.update(w.handle, coords...) {
		return
	}
	w.handle = s.canvas.CreateLine(coords, styleWire, TagWire, WireTag(w.id))
}

func (s *Surface) renderWires() {
	for _, w := range s.wires {
		s.renderWire(w)
	}
}

func (s *Surface) eraseWire(w *Wire) {
	s.forget(w.handle)
	w.handle = 0
}

// update sets coords on h. It reports false when h is unset or stale, in
// which case the caller creates a fresh item.
func (s *Surface) update(h scene.Handle, coords ...float64) bool {
	if h == 0 {
		return false
	}
	if err := s.canvas.SetCoords(h, coords...); err != nil {
		if errors.Is(err, scene.ErrStaleHandle) {
			s.log.Debug("stale canvas handle, recreating", "handle", h)
		} else {
			s.log.Warn("canvas update failed", "handle", h, "err", err)
		}
		return false
	}
	return true
}

// forget deletes h, treating a stale handle as already gone.
func (s *Surface) forget(h scene.Handle) {
	if h == 0 {
		return
	}
	if err := s.canvas.Delete(h); err != nil && !errors.Is(err, scene.ErrStaleHandle) {
		s.log.Warn("canvas delete failed", "handle", h, "err", err)
	}
}
