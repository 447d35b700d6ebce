// Package library holds the placeable components offered by the editor.
//
// A [Component] is a module template: a name, a span in grid cells, and pins
// at cell offsets from the top-left corner. Components come from three
// places:
//
//   - [Builtin]: the basic two-input gates plus an inverter
//   - component files loaded with [Registry.LoadFile] or [Registry.LoadDir]
//   - HDL module definitions read from a module store with [Registry.LoadStore]
//
// A component file is TOML, YAML or JSON and may list components directly,
// HDL modules to derive components from, or both:
//
//	[[component]]
//	name = "latch"
//	span_w = 3
//	span_h = 3
//	pins = [
//	    { name = "s", direction = "input", col = 0, row = 1 },
//	    { name = "r", direction = "input", col = 0, row = 2 },
//	    { name = "q", direction = "output", col = 3, row = 1 },
//	]
//
//	[[module]]
//	name = "buffer"
//	ports = [
//	    { name = "a", direction = "input" },
//	    { name = "y", direction = "output" },
//	]
//	logic = ["assign y = a;"]
//
// A [Registry] is created explicitly and passed to whoever needs it. It also
// implements [hdl.Resolver], so Verilog synthesis can check instance ports
// against the definitions components were derived from.
package library
