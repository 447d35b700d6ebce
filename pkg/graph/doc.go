// Package graph provides the serialization types for exported schematics.
//
// This package defines the canonical wire format for gridwire's
// connectivity graph, used for JSON files, API responses, saved sessions,
// cache keys, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between the live editor
// state and external formats:
//
//   - [Graph]: Serialization type (this package)
//   - pkg/schematic.Surface: Live entity collections and render state
//
// Use schematic.Surface.ExportGraph and schematic.Surface.LoadGraph to
// convert between them.
//
// # Core Types
//
//   - [Graph]: Modules plus connections
//   - [Module]: A placed module symbol with its pins
//   - [Pin]: Named, directional connection point at a lattice vertex
//   - [Connection]: A routed wire as an ordered vertex list
//
// # Format
//
//	{
//	  "modules": [
//	    {"uuid": 1001, "name": "A", "x": 0, "y": 0, "grid_w": 2, "grid_h": 1,
//	     "pins": [{"name": "left", "type": "input", "pos": [0, 40]}]}
//	  ],
//	  "connections": [
//	    {"uuid": 1003, "nodes": [[80, 40], [160, 40]]}
//	  ]
//	}
//
// Module and connection ids share one id space. Coordinates are lattice
// points; this package does not know the cell size and never snaps.
//
// # Reading and Writing
//
//	g, err := graph.ReadFile("board.json")
//	data, err := graph.Marshal(g)
//	err = graph.WriteFile(g, "board.json")
package graph
