package library

import "github.com/matzehuels/gridwire/pkg/hdl"

var gateLogic = []struct {
	name  string
	logic string
	unary bool
}{
	{"and_gate", "assign y = a & b;", false},
	{"or_gate", "assign y = a | b;", false},
	{"not_gate", "assign y = ~a;", true},
	{"xor_gate", "assign y = a ^ b;", false},
	{"nand_gate", "assign y = ~(a & b);", false},
	{"nor_gate", "assign y = ~(a | b);", false},
}

// BuiltinModules returns fresh definitions of the basic gates, with inputs
// a and b (a only for not_gate) and output y.
func BuiltinModules() []*hdl.Module {
	mods := make([]*hdl.Module, 0, len(gateLogic))
	for _, g := range gateLogic {
		m := hdl.New(g.name)
		m.AddPort(hdl.Port{Name: "a", Direction: hdl.Input})
		if !g.unary {
			m.AddPort(hdl.Port{Name: "b", Direction: hdl.Input})
		}
		m.AddPort(hdl.Port{Name: "y", Direction: hdl.Output})
		m.AddLogic(g.logic)
		mods = append(mods, m)
	}
	return mods
}

// Builtin returns the gate components derived from BuiltinModules.
func Builtin() []Component {
	mods := BuiltinModules()
	out := make([]Component, 0, len(mods))
	for _, m := range mods {
		c, err := FromHDL(m)
		if err != nil {
			panic("library: invalid builtin " + m.Name + ": " + err.Error())
		}
		out = append(out, c)
	}
	return out
}
