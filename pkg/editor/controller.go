package editor

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/observability"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// Gesture kinds.
const (
	GesturePress     = "press"
	GestureDrag      = "drag"
	GestureRelease   = "release"
	GestureCommit    = "commit"
	GestureSecondary = "secondary"
)

// Gesture is a pointer event in canvas coordinates.
type Gesture struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Validate reports an unknown gesture type.
func (g Gesture) Validate() error {
	switch g.Type {
	case GesturePress, GestureDrag, GestureRelease, GestureCommit, GestureSecondary:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown gesture %q", g.Type)
}

// Options configures a Controller.
type Options struct {
	Logger *log.Logger // default discards
}

// Controller turns gestures into surface edits according to its mode.
type Controller struct {
	s    *schematic.Surface
	mode Mode
	log  *log.Logger

	drag    *schematic.Module
	dragOff [2]float64
	pinDrag *pinDrag
}

type pinDrag struct {
	module *schematic.Module
	pin    string
}

// New returns a controller in Normal mode.
func New(s *schematic.Surface, opts Options) *Controller {
	c := &Controller{s: s, mode: Normal{}, log: opts.Logger}
	if c.log == nil {
		c.log = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

func (c *Controller) Surface() *schematic.Surface { return c.s }
func (c *Controller) Mode() Mode                  { return c.mode }

// SetMode switches mode, dropping any in-progress route, drag and preview.
// A nil mode, including a typed nil pointer, means Normal.
func (c *Controller) SetMode(m Mode) {
	switch mm := m.(type) {
	case nil, *Normal:
		m = Normal{}
	case *Place:
		if mm == nil {
			m = Normal{}
		} else {
			m = *mm
		}
	case *Delete:
		if mm == nil {
			m = Normal{}
		} else {
			m = Delete{}
		}
	case *Connect:
		if mm == nil {
			m = Normal{}
		} else {
			mm.points = nil
		}
	}
	c.mode = m
	c.drag = nil
	c.pinDrag = nil
	c.s.ClearPreview()
	c.log.Debug("mode changed", "mode", m.Name())
}

// Apply dispatches a gesture by type.
func (c *Controller) Apply(g Gesture) error {
	switch g.Type {
	case GesturePress:
		c.Press(g.X, g.Y)
	case GestureDrag:
		c.Drag(g.X, g.Y)
	case GestureRelease:
		c.Release(g.X, g.Y)
	case GestureCommit:
		c.Commit()
	case GestureSecondary:
		c.SecondaryPress(g.X, g.Y)
	default:
		return g.Validate()
	}
	return nil
}

// Press handles the primary pointer button going down.
func (c *Controller) Press(x, y float64) {
	observability.Editor().OnGesture(c.mode.Name(), GesturePress)
	switch m := c.mode.(type) {
	case Place:
		c.place(m, x, y)
	case Delete:
		c.s.DeleteAt(x, y)
	case *Connect:
		c.addRoutePoint(m, x, y)
	case Normal:
		c.beginDrag(x, y)
	}
}

func (c *Controller) place(m Place, x, y float64) {
	if m.Component == nil {
		c.log.Debug("place: no component")
		return
	}
	anchor := c.s.Grid().Snap(x, y)
	mod := c.s.AddModule(m.Component.ModuleSpec(anchor, c.s.Grid().Cell))
	c.log.Info("module placed", "id", mod.ID(), "name", mod.Name(), "at", mod.Anchor())
	c.SetMode(Normal{})
}

func (c *Controller) addRoutePoint(m *Connect, x, y float64) {
	p := c.s.Grid().Snap(x, y)
	m.points = append(m.points, p)
	if len(m.points) == 1 {
		c.s.ShowRouteMarker(p)
		return
	}
	c.s.ShowRoutePreview(m.points)
}

func (c *Controller) beginDrag(x, y float64) {
	if mod, ok := c.s.ModuleAt(x, y); ok {
		a := mod.Anchor()
		c.drag = mod
		c.dragOff = [2]float64{x - float64(a.X), y - float64(a.Y)}
		return
	}
	if mod, pin, ok := c.s.PinAt(x, y); ok {
		c.pinDrag = &pinDrag{module: mod, pin: pin.Name}
		c.s.ShowPinDrag(pin.Pos, pin.Pos)
		return
	}
	c.log.Debug("press: nothing hit", "x", x, "y", y)
}

// Drag handles pointer motion with the primary button held.
func (c *Controller) Drag(x, y float64) {
	observability.Editor().OnGesture(c.mode.Name(), GestureDrag)
	switch {
	case c.drag != nil:
		c.s.MoveModule(c.drag, x-c.dragOff[0], y-c.dragOff[1])
	case c.pinDrag != nil:
		from := c.pinDrag.module.PinPosition(c.pinDrag.pin)
		c.s.ShowPinDrag(from, c.s.Grid().Snap(x, y))
	}
}

// Release ends a module drag or discards a pin-drag preview. Pin drags never
// create wires.
func (c *Controller) Release(x, y float64) {
	observability.Editor().OnGesture(c.mode.Name(), GestureRelease)
	switch {
	case c.drag != nil:
		c.log.Debug("drag finished", "id", c.drag.ID(), "at", c.drag.Anchor())
		c.drag = nil
	case c.pinDrag != nil:
		c.pinDrag = nil
		c.s.ClearPreview()
	}
}

// Commit finalizes the route being built in Connect mode. The buffer and
// preview are cleared either way; Connect mode stays active.
func (c *Controller) Commit() {
	observability.Editor().OnGesture(c.mode.Name(), GestureCommit)
	m, ok := c.mode.(*Connect)
	if !ok {
		return
	}
	points := m.points
	m.points = nil
	c.s.ClearPreview()
	if len(points) < 2 {
		c.log.Debug("route discarded: fewer than two vertices", "vertices", len(points))
		return
	}
	if w, ok := c.s.CommitRoute(points); ok {
		c.log.Info("route committed", "id", w.ID(), "nodes", len(w.Nodes()))
	}
}

// SecondaryPress adds a default module at the pointer in Normal mode.
func (c *Controller) SecondaryPress(x, y float64) {
	observability.Editor().OnGesture(c.mode.Name(), GestureSecondary)
	if _, ok := c.mode.(Normal); !ok {
		return
	}
	name := fmt.Sprintf("Module%d", len(c.s.Modules())+1)
	c.s.AddModule(schematic.ModuleSpec{Name: name, Anchor: c.s.Grid().Snap(x, y)})
}

// RoutePoints returns the in-progress route, empty outside Connect mode.
func (c *Controller) RoutePoints() []grid.Point {
	if m, ok := c.mode.(*Connect); ok {
		return m.Points()
	}
	return nil
}

// Dragging reports whether a module or pin drag is in progress.
func (c *Controller) Dragging() bool { return c.drag != nil || c.pinDrag != nil }
