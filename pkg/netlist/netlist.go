// Package netlist derives electrical nets from an exported schematic graph.
//
// Wires are positional, so a net is simply a connection together with every
// module pin whose position equals one of the connection's vertices. No
// validation is done: floating nets, undriven inputs and multiple drivers
// are reported as they are.
package netlist

import (
	"fmt"
	"slices"

	"github.com/matzehuels/gridwire/pkg/graph"
)

// PinRef identifies a module pin attached to a net.
type PinRef struct {
	ModuleID  int    `json:"module_id"`
	Module    string `json:"module"`
	Pin       string `json:"pin"`
	Direction string `json:"direction"`
}

// Net is one connection and the pins it touches.
type Net struct {
	Name       string   `json:"name"`
	Connection int      `json:"connection"`
	Pins       []PinRef `json:"pins"`
}

// Drivers returns the output pins on the net.
func (n Net) Drivers() []PinRef {
	return n.filter(graph.PinOutput)
}

// Sinks returns the input pins on the net.
func (n Net) Sinks() []PinRef {
	return n.filter(graph.PinInput)
}

func (n Net) filter(dir string) []PinRef {
	var out []PinRef
	for _, p := range n.Pins {
		if p.Direction == dir {
			out = append(out, p)
		}
	}
	return out
}

// NetName returns the canonical name of the net for a connection id.
func NetName(connection int) string { return fmt.Sprintf("net_%d", connection) }

// Build returns one net per connection, in connection order. Pins are
// listed in module order, then pin order.
func Build(g graph.Graph) []Net {
	nets := make([]Net, 0, len(g.Connections))
	for _, c := range g.Connections {
		n := Net{Name: NetName(c.UUID), Connection: c.UUID}
		for _, m := range g.Modules {
			for _, p := range m.Pins {
				if slices.Contains(c.Nodes, p.Pos) {
					n.Pins = append(n.Pins, PinRef{
						ModuleID:  m.UUID,
						Module:    m.Name,
						Pin:       p.Name,
						Direction: p.Type,
					})
				}
			}
		}
		nets = append(nets, n)
	}
	return nets
}

// PinNets maps each attached pin to the names of the nets it is on, keyed by
// module id then pin name. A pin on several nets lists them in net order.
func PinNets(nets []Net) map[int]map[string][]string {
	out := make(map[int]map[string][]string)
	for _, n := range nets {
		for _, p := range n.Pins {
			if out[p.ModuleID] == nil {
				out[p.ModuleID] = make(map[string][]string)
			}
			out[p.ModuleID][p.Pin] = append(out[p.ModuleID][p.Pin], n.Name)
		}
	}
	return out
}
