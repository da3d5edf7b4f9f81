// Package formats provides readers and writers for the demo's on-disk formats:
// Wavefront OBJ meshes and VD material-record streams.
package formats
