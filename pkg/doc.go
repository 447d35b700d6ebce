// Package pkg provides the core libraries of gridwire, a grid-addressed
// hardware schematic editor.
//
// # Overview
//
// Module symbols and wires live on a square lattice. Every stored
// coordinate is a lattice vertex, so connectivity is plain coordinate
// equality. The pkg directory is organized into four areas:
//
//  1. Editing - [grid], [schematic], [editor], [scene]
//  2. Interchange - [graph], [netlist], [hdl], [library]
//  3. Output - [render], [render/nodelink], [pipeline]
//  4. Infrastructure - [cache], [store], [session], [config], [server], [httputil]
//
// # Architecture
//
// The typical data flow through gridwire:
//
//	pointer gestures
//	       ↓
//	  [editor] Controller (mode state machine)
//	       ↓
//	  [schematic] Surface (modules, wires, canvas items)
//	       ↓
//	  [graph] export (modules + connections JSON)
//	       ↓
//	  [pipeline] netlist → SVG/PNG/DOT/Verilog
//
// # Quick Start
//
// Draw two gates, wire them and render Verilog:
//
//	reg := library.WithBuiltins()
//	and, _ := reg.Get("and_gate")
//
//	s := schematic.New(schematic.Options{})
//	c := editor.New(s, editor.Options{})
//
//	c.SetMode(editor.Place{Component: and})
//	c.Press(0, 0)
//	c.SetMode(editor.Place{Component: and})
//	c.Press(200, 0)
//
//	c.SetMode(&editor.Connect{})
//	c.Press(120, 40)
//	c.Press(200, 40)
//	c.Commit()
//
//	res, _ := pipeline.NewRunner(nil, nil, nil).Render(ctx, s.Export(), pipeline.Options{
//	    Formats:  []string{pipeline.FormatVerilog},
//	    Resolver: reg,
//	})
//	os.Stdout.Write(res.Artifacts[pipeline.FormatVerilog])
//
// # Main Packages
//
// [grid] - Lattice points and snapping. Snap rounds to the nearest vertex,
// half-way cases away from zero.
//
// [schematic] - The editing surface. It owns modules and wires, keeps a
// [scene] canvas in sync with them and exports a [graph].
//
// [editor] - The interaction controller: Normal, Place, Connect and Delete
// modes, and the gestures they interpret.
//
// [netlist] - Nets derived from a graph: wires joined through shared
// vertices, with the pins they touch.
//
// [hdl] - Verilog module definitions and emission, including the top module
// built from a schematic.
//
// [library] - Placeable components from builtin gates and TOML, YAML or JSON
// files.
//
// [pipeline] - Render orchestration with artifact caching, used by the CLI
// and the HTTP server alike.
//
// [server] - A JSON HTTP API over one shared editor.
package pkg
