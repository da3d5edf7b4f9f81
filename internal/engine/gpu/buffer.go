// Package gpu is the thin GPU resource layer used by the surface store.
//
// Data is staged on the CPU side and then handed to a Buffer as a byte
// Range. The GL implementation (renderer.GLBuffer) maps each Write to one
// glBufferSubData call; tests use Recorder instead.
package gpu

// Range is a staged write: Data replaces the bytes starting at Offset.
type Range struct {
	Offset int
	Data   []byte
}

// End returns the first byte past the range.
func (r Range) End() int {
	return r.Offset + len(r.Data)
}

// Buffer is a GPU vertex buffer that accepts whole or partial uploads.
type Buffer interface {
	// Create allocates storage sized to data and uploads it.
	Create(data []byte)
	// Write replaces a byte range of previously created storage.
	Write(r Range)
	// Delete frees the storage. The buffer may be created again.
	Delete()
}
