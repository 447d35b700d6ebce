// Package scene provides the retained-mode drawing surface the schematic
// renders into.
//
// A [Canvas] is a display list of primitive items (rectangles, ovals,
// polylines, text) addressed by integer [Handle]s and grouped by string
// tags. The schematic surface is its only writer; render sinks in
// pkg/render read the finished list with [Canvas.Items].
//
// # Handles
//
// Handles are allocated monotonically and never reused. Once an item is
// deleted, individually or through [Canvas.DeleteTag] or [Canvas.Clear],
// every operation on its handle returns [ErrStaleHandle]. Callers treat
// that as "handle gone" and create a fresh item on the next render.
package scene
