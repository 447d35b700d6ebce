package hdl

import (
	"slices"
	"sort"
	"strconv"

	"github.com/matzehuels/gridwire/pkg/errors"
)

// Direction is a port direction. The empty direction marks an internal wire.
type Direction string

const (
	Input    Direction = "input"
	Output   Direction = "output"
	Inout    Direction = "inout"
	Internal Direction = ""
)

// IsPort reports whether d appears in the module header.
func (d Direction) IsPort() bool { return d == Input || d == Output || d == Inout }

// Port is a module port or internal wire.
type Port struct {
	Name      string    `json:"name" yaml:"name" toml:"name" bson:"name"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty" bson:"direction,omitempty"`
	Type      string    `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty" bson:"type,omitempty"`
	Width     int       `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" bson:"width,omitempty"`
}

// Declaration returns the port's declaration without trailing punctuation,
// e.g. "input wire [7:0] data" or "wire carry".
func (p Port) Declaration() string {
	typ := p.Type
	if typ == "" {
		typ = "wire"
	}
	decl := typ
	if p.Direction != Internal {
		decl = string(p.Direction) + " " + typ
	}
	if p.Width > 1 {
		decl += " [" + strconv.Itoa(p.Width-1) + ":0]"
	}
	return decl + " " + p.Name
}

// PortMap binds a submodule port to a signal in the parent.
type PortMap struct {
	Port   string `json:"port" yaml:"port" toml:"port" bson:"port"`
	Signal string `json:"signal" yaml:"signal" toml:"signal" bson:"signal"`
}

// Instance is a submodule instantiation.
type Instance struct {
	Name   string    `json:"name" yaml:"name" toml:"name" bson:"name"`
	Module string    `json:"module" yaml:"module" toml:"module" bson:"module"`
	Ports  []PortMap `json:"ports,omitempty" yaml:"ports,omitempty" toml:"ports,omitempty" bson:"ports,omitempty"`
}

// Module is a hardware module definition.
type Module struct {
	Name       string     `json:"name" yaml:"name" toml:"name" bson:"name"`
	Ports      []Port     `json:"ports" yaml:"ports" toml:"ports" bson:"ports"`
	Logic      []string   `json:"logic,omitempty" yaml:"logic,omitempty" toml:"logic,omitempty" bson:"logic,omitempty"`
	Submodules []Instance `json:"submodules,omitempty" yaml:"submodules,omitempty" toml:"submodules,omitempty" bson:"submodules,omitempty"`
}

// New returns an empty module.
func New(name string) *Module { return &Module{Name: name} }

// AddPort appends a port.
func (m *Module) AddPort(p Port) { m.Ports = append(m.Ports, p) }

// Port returns the named port.
func (m *Module) Port(name string) (Port, error) {
	for _, p := range m.Ports {
		if p.Name == name {
			return p, nil
		}
	}
	return Port{}, errors.New(errors.ErrCodePinNotFound, "module %q has no port %q", m.Name, name)
}

// AddLogic appends a logic statement.
func (m *Module) AddLogic(line string) { m.Logic = append(m.Logic, line) }

// AddInstance appends a submodule instance.
func (m *Module) AddInstance(inst Instance) { m.Submodules = append(m.Submodules, inst) }

// Inputs returns the input ports in declaration order.
func (m *Module) Inputs() []Port { return m.portsWith(Input) }

// Outputs returns the output ports in declaration order.
func (m *Module) Outputs() []Port { return m.portsWith(Output) }

func (m *Module) portsWith(d Direction) []Port {
	var out []Port
	for _, p := range m.Ports {
		if p.Direction == d {
			out = append(out, p)
		}
	}
	return out
}

// Resolver looks up module definitions by name.
type Resolver interface {
	Lookup(name string) (*Module, bool)
}

// Modules is a map-backed Resolver.
type Modules map[string]*Module

func (ms Modules) Lookup(name string) (*Module, bool) {
	m, ok := ms[name]
	return m, ok
}

// SubmoduleNames returns the names of every module instantiated by m,
// directly or through resolvable submodules, sorted and de-duplicated.
// A nil resolver yields direct submodules only.
func (m *Module) SubmoduleNames(r Resolver) []string {
	seen := make(map[string]bool)
	var walk func(mod *Module)
	walk = func(mod *Module) {
		for _, inst := range mod.Submodules {
			if seen[inst.Module] {
				continue
			}
			seen[inst.Module] = true
			if r == nil {
				continue
			}
			if sub, ok := r.Lookup(inst.Module); ok {
				walk(sub)
			}
		}
	}
	walk(m)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks identifiers and uniqueness.
func (m *Module) Validate() error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidModule, "module is nil")
	}
	if err := errors.ValidateModuleName(m.Name); err != nil {
		return err
	}
	var names []string
	for _, p := range m.Ports {
		if err := errors.ValidatePinName(p.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModule, err, "module %q", m.Name)
		}
		if !p.Direction.IsPort() && p.Direction != Internal {
			return errors.New(errors.ErrCodeInvalidModule, "module %q: port %q has unknown direction %q", m.Name, p.Name, p.Direction)
		}
		if p.Width < 0 {
			return errors.New(errors.ErrCodeInvalidModule, "module %q: port %q has negative width", m.Name, p.Name)
		}
		if slices.Contains(names, p.Name) {
			return errors.New(errors.ErrCodeInvalidModule, "module %q: duplicate port %q", m.Name, p.Name)
		}
		names = append(names, p.Name)
	}
	var insts []string
	for _, inst := range m.Submodules {
		if err := errors.ValidateModuleName(inst.Module); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModule, err, "module %q: instance %q", m.Name, inst.Name)
		}
		if err := errors.ValidatePinName(inst.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModule, err, "module %q: instance name", m.Name)
		}
		if slices.Contains(insts, inst.Name) {
			return errors.New(errors.ErrCodeInvalidModule, "module %q: duplicate instance %q", m.Name, inst.Name)
		}
		insts = append(insts, inst.Name)
	}
	return nil
}

// Clone returns a deep copy.
func (m *Module) Clone() *Module {
	c := &Module{
		Name:  m.Name,
		Ports: slices.Clone(m.Ports),
		Logic: slices.Clone(m.Logic),
	}
	for _, inst := range m.Submodules {
		inst.Ports = slices.Clone(inst.Ports)
		c.Submodules = append(c.Submodules, inst)
	}
	return c
}
