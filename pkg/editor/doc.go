// Package editor interprets pointer gestures against a schematic surface.
//
// A [Controller] is a small state machine. Its [Mode] is one of
//
//   - [Normal]: drag modules, preview pin drags
//   - [Place]: drop one component, then return to Normal
//   - [Connect]: collect clicked vertices and commit them as a route
//   - [Delete]: remove whatever is under the pointer, repeatedly
//
// Modes change only through [Controller.SetMode], except that Place returns
// to Normal after one successful placement.
//
// Gestures are processed to completion one at a time. The controller is not
// safe for concurrent use; wrap it in a mutex when gestures arrive from
// several goroutines (see pkg/server).
package editor
