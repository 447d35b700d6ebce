// Package hdl models hardware modules and emits them as Verilog.
//
// A [Module] has ports, free-form logic statements, and submodule
// [Instance]s with named port maps. [Emit] renders it through a fixed
// template:
//
//	module and_gate (
//	    input wire a,
//	    input wire b,
//	    output wire y
//	);
//
//	    assign y = a & b;
//
//	endmodule
//
// Ports without a direction are declared as internal wires after the
// header. [FromSchematic] builds a top-level module from an exported
// schematic: one instance per placed module and one wire per net.
//
// Modules are plain data with json, yaml and toml tags so they can be
// stored (pkg/store) and authored by hand (pkg/library).
package hdl
