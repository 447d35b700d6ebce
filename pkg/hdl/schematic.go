package hdl

import (
	"strconv"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/netlist"
)

// InstanceName returns the instance name used for a placed module.
func InstanceName(moduleID int) string { return "u" + strconv.Itoa(moduleID) }

// FromSchematic builds a top-level module named name from an exported
// schematic. Each net becomes an internal wire and each placed module an
// instance of the module type matching its name, with one port mapping
// per attached pin. A pin on several nets ties them together with assign
// statements. If r resolves a module type, every attached pin must be one
// of its ports.
func FromSchematic(name string, g graph.Graph, nets []netlist.Net, r Resolver) (*Module, error) {
	top := New(name)
	for _, n := range nets {
		top.AddPort(Port{Name: n.Name})
	}

	pinNets := netlist.PinNets(nets)
	tied := make(map[string]bool)
	for _, m := range g.Modules {
		if err := errors.ValidateModuleName(m.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModule, err, "module %d", m.UUID)
		}
		var def *Module
		if r != nil {
			def, _ = r.Lookup(m.Name)
		}
		inst := Instance{Name: InstanceName(m.UUID), Module: m.Name}
		for _, p := range m.Pins {
			names := pinNets[m.UUID][p.Name]
			if len(names) == 0 {
				continue
			}
			if def != nil {
				if _, err := def.Port(p.Name); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidPin, err, "instance %s", inst.Name)
				}
			}
			inst.Ports = append(inst.Ports, PortMap{Port: p.Name, Signal: names[0]})
			for _, alias := range names[1:] {
				stmt := "assign " + alias + " = " + names[0] + ";"
				if !tied[stmt] {
					tied[stmt] = true
					top.AddLogic(stmt)
				}
			}
		}
		top.AddInstance(inst)
	}

	if err := top.Validate(); err != nil {
		return nil, err
	}
	return top, nil
}
