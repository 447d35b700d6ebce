// Package grid implements the lattice addressing used by every schematic
// coordinate.
//
// A [Grid] is an implicit integer lattice with a fixed cell size. Pointer
// coordinates are floats; everything stored in the entity model is a
// [Point] whose components are multiples of the cell size.
//
// # Rounding
//
// [Grid.Snap] computes round(x/c)*c using [math.Round], which rounds ties
// half away from zero. With the default 40-unit cell:
//
//	Snap(20, 60)   → (40, 80)
//	Snap(19.9, 59) → (0, 40)
//	Snap(-20, -20) → (-40, -40)
//
// Snapping is total and idempotent: Snap(Snap(p)) == Snap(p). Two raw
// points address the same vertex exactly when their snapped [Point] values
// are equal, which is the equality used for wire de-duplication and pin
// matching.
//
// # Serialization
//
// [Point] marshals to JSON as a two-element array, matching the persisted
// graph format:
//
//	[80, 40]
package grid
