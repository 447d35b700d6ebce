package schematic

import (
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/scene"
)

// preview holds transient overlay handles. None of it is exported.
type preview struct {
	marker  scene.Handle
	route   scene.Handle
	pinDrag scene.Handle
}

// ShowRouteMarker draws the first-vertex marker of an in-progress route at
// p, replacing any previous marker.
func (s *Surface) ShowRouteMarker(p grid.Point) {
	s.forget(s.preview.marker)
	x, y := float64(p.X), float64(p.Y)
	s.preview.marker = s.canvas.CreateOval(x-markerRadius, y-markerRadius, x+markerRadius, y+markerRadius,
		styleMarker, TagPreview)
}

// ShowRoutePreview draws the dashed in-progress polyline through pts.
// Fewer than two points removes it.
func (s *Surface) ShowRoutePreview(pts []grid.Point) {
	if len(pts) < 2 {
		s.forget(s.preview.route)
		s.preview.route = 0
		return
	}
	coords := flatten(pts)
	if s.update(s.preview.route, coords...) {
		return
	}
	s.preview.route = s.canvas.CreateLine(coords, stylePreview, TagPreview)
}

// ShowPinDrag draws the temporary line of a pin drag from one vertex to
// another. It is never turned into a wire.
func (s *Surface) ShowPinDrag(from, to grid.Point) {
	coords := flatten([]grid.Point{from, to})
	if s.update(s.preview.pinDrag, coords...) {
		return
	}
	s.preview.pinDrag = s.canvas.CreateLine(coords, stylePreview, TagPreview)
}

// ClearPreview removes every transient overlay.
func (s *Surface) ClearPreview() {
	s.forget(s.preview.marker)
	s.forget(s.preview.route)
	s.forget(s.preview.pinDrag)
	s.preview = preview{}
}

// PreviewActive reports whether any overlay is drawn.
func (s *Surface) PreviewActive() bool {
	return s.preview != (preview{})
}
