// Package render draws the cube through a softgl context.
//
// New performs the strict startup sequence: context, buffers, shaders,
// program, attribute and uniform locations. Any failure aborts with one of
// the sentinel errors below and leaves nothing half-started. After that,
// Loop.Tick draws one frame per call from the tracker's current rotation.
package render
