package editor

import (
	"slices"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/schematic"
)

// Mode names.
const (
	ModeNormal  = "normal"
	ModePlace   = "place"
	ModeConnect = "connect"
	ModeDelete  = "delete"
)

// Mode is the controller's gesture interpretation context. The set of modes
// is closed: Normal, Place, *Connect and Delete.
type Mode interface {
	Name() string
	mode()
}

// Component supplies the module to create in place mode.
type Component interface {
	// ModuleSpec returns a spec for a module anchored at anchor on a grid
	// with the given cell size.
	ModuleSpec(anchor grid.Point, cell int) schematic.ModuleSpec
}

// Normal drags modules and previews pin drags.
type Normal struct{}

// Place adds one Component at the next click.
type Place struct {
	Component Component
}

// Connect accumulates route vertices until Commit.
type Connect struct {
	points []grid.Point
}

// Delete removes the entity under each click.
type Delete struct{}

func (Normal) Name() string   { return ModeNormal }
func (Place) Name() string    { return ModePlace }
func (*Connect) Name() string { return ModeConnect }
func (Delete) Name() string   { return ModeDelete }

func (Normal) mode()   {}
func (Place) mode()    {}
func (*Connect) mode() {}
func (Delete) mode()   {}

// Points returns a copy of the buffered vertices.
func (c *Connect) Points() []grid.Point { return slices.Clone(c.points) }

// ParseMode builds a mode from its name. comp is required for place mode
// and ignored otherwise.
func ParseMode(name string, comp Component) (Mode, error) {
	switch name {
	case ModeNormal, "":
		return Normal{}, nil
	case ModePlace:
		if comp == nil {
			return nil, errors.New(errors.ErrCodeInvalidMode, "place mode needs a component")
		}
		return Place{Component: comp}, nil
	case ModeConnect:
		return &Connect{}, nil
	case ModeDelete:
		return Delete{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", name)
}

// SpecComponent adapts a fixed ModuleSpec to Component. Pin positions are
// taken relative to the spec's own anchor and moved to the placement point.
type SpecComponent schematic.ModuleSpec

func (c SpecComponent) ModuleSpec(anchor grid.Point, _ int) schematic.ModuleSpec {
	spec := schematic.ModuleSpec(c)
	dx, dy := anchor.Sub(spec.Anchor)
	spec.Anchor = anchor
	if spec.Pins != nil {
		pins := make([]schematic.Pin, len(spec.Pins))
		for i, p := range spec.Pins {
			p.Pos = p.Pos.Add(dx, dy)
			pins[i] = p
		}
		spec.Pins = pins
	}
	return spec
}
