// Package schematic implements the entity model of the grid-addressed
// schematic editor: placed modules, routed wires, and the surface that owns
// them.
//
// # Entities
//
//   - [Module]: a movable, resizable rectangle anchored on the lattice with
//     an ordered set of named, directional pins on its boundary
//   - [Wire]: an ordered list of distinct lattice vertices drawn as a
//     polyline
//   - [Surface]: owns both collections in insertion order, renders them into
//     a [scene.Canvas], and exports [graph.Graph] snapshots
//
// Every coordinate stored in an entity has been snapped with the surface's
// [grid.Grid]. Module and wire ids come from one [IDGenerator], so a module
// and a wire never share an id.
//
// # Wires are positional
//
// A wire stores vertex coordinates, not references to pins. Moving a module
// leaves attached wires where they are; deleting a module removes every wire
// with a vertex on one of its pin positions at the moment of deletion.
//
// # Failure semantics
//
// Nothing here returns an error for lookup misses, empty hit-tests or
// routes with fewer than two vertices. Those are no-ops, logged at debug
// level. Only [Surface.LoadGraph] can fail, on structurally invalid input.
//
// # Render cache
//
// Each entity remembers the canvas handles that draw it. [Surface.Invalidate]
// forgets them (use after something else cleared the canvas) and
// [Surface.Rebuild] redraws everything from logical state. A handle that
// turns out to be gone during an incremental render is recreated on the spot.
//
// # Concurrency
//
// A Surface is not safe for concurrent use. Callers with more than one event
// source serialize gestures, mutation and re-render under one lock.
package schematic
