package library

import (
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/hdl"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// PinDef places a pin at a cell offset from the component's top-left corner.
type PinDef struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Direction string `json:"direction" yaml:"direction" toml:"direction"`
	Col       int    `json:"col" yaml:"col" toml:"col"`
	Row       int    `json:"row" yaml:"row" toml:"row"`
}

// Component is a placeable module template.
type Component struct {
	Name  string      `json:"name" yaml:"name" toml:"name"`
	SpanW int         `json:"span_w" yaml:"span_w" toml:"span_w"`
	SpanH int         `json:"span_h" yaml:"span_h" toml:"span_h"`
	Pins  []PinDef    `json:"pins,omitempty" yaml:"pins,omitempty" toml:"pins,omitempty"`
	HDL   *hdl.Module `json:"hdl,omitempty" yaml:"hdl,omitempty" toml:"hdl,omitempty"`
}

// ModuleSpec converts c to a spec anchored at anchor on a grid with the
// given cell size. A component without pins gets the default pin pair.
func (c Component) ModuleSpec(anchor grid.Point, cell int) schematic.ModuleSpec {
	spec := schematic.ModuleSpec{
		Name:   c.Name,
		Anchor: anchor,
		SpanW:  c.SpanW,
		SpanH:  c.SpanH,
	}
	if len(c.Pins) == 0 {
		return spec
	}
	spec.Pins = make([]schematic.Pin, len(c.Pins))
	for i, p := range c.Pins {
		spec.Pins[i] = schematic.Pin{
			Name: p.Name,
			Dir:  schematic.Direction(p.Direction),
			Pos:  anchor.Add(p.Col*cell, p.Row*cell),
		}
	}
	return spec
}

// Validate checks the name, spans and pin placement. Pins must lie on the
// component's boundary lattice, inclusive of its far edges.
func (c Component) Validate() error {
	if err := errors.ValidateModuleName(c.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidComponent, err, "component")
	}
	if c.SpanW <= 0 || c.SpanH <= 0 {
		return errors.New(errors.ErrCodeInvalidComponent, "component %q: span must be positive, got %dx%d", c.Name, c.SpanW, c.SpanH)
	}
	seen := make(map[string]bool, len(c.Pins))
	for _, p := range c.Pins {
		if err := errors.ValidatePinName(p.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidComponent, err, "component %q", c.Name)
		}
		if seen[p.Name] {
			return errors.New(errors.ErrCodeInvalidComponent, "component %q: duplicate pin %q", c.Name, p.Name)
		}
		seen[p.Name] = true
		if !schematic.Direction(p.Direction).Valid() {
			return errors.New(errors.ErrCodeInvalidComponent, "component %q: pin %q has direction %q", c.Name, p.Name, p.Direction)
		}
		if p.Col < 0 || p.Col > c.SpanW || p.Row < 0 || p.Row > c.SpanH {
			return errors.New(errors.ErrCodeInvalidComponent, "component %q: pin %q at (%d,%d) is outside %dx%d", c.Name, p.Name, p.Col, p.Row, c.SpanW, c.SpanH)
		}
	}
	return nil
}

// FromHDL derives a component from a module definition. The body is
// max(ports, 2) cells wide and one cell taller than the longer pin column.
// Inputs (and inouts) run down the left edge from row 1, outputs down the
// right edge. Internal wires are not pins.
func FromHDL(m *hdl.Module) (Component, error) {
	if err := m.Validate(); err != nil {
		return Component{}, err
	}
	var ins, outs []hdl.Port
	for _, p := range m.Ports {
		switch p.Direction {
		case hdl.Input, hdl.Inout:
			ins = append(ins, p)
		case hdl.Output:
			outs = append(outs, p)
		}
	}

	c := Component{
		Name:  m.Name,
		SpanW: max(len(ins)+len(outs), 2),
		SpanH: max(len(ins), len(outs)) + 1,
		HDL:   m,
	}
	for i, p := range ins {
		c.Pins = append(c.Pins, PinDef{Name: p.Name, Direction: string(schematic.Input), Col: 0, Row: i + 1})
	}
	for i, p := range outs {
		c.Pins = append(c.Pins, PinDef{Name: p.Name, Direction: string(schematic.Output), Col: c.SpanW, Row: i + 1})
	}
	return c, nil
}
