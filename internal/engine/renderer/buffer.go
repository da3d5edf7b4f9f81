package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/engine/gpu"
	"github.com/Faultbox/surface-decals/internal/logger"
)

// GLBuffer is a gpu.Buffer backed by an OpenGL array buffer.
// All methods must run on the thread owning the GL context.
type GLBuffer struct {
	id    uint32
	size  int
	usage uint32
}

// NewGLBuffer returns an empty buffer. The GL object is created on the
// first Create call.
func NewGLBuffer() *GLBuffer {
	return &GLBuffer{usage: gl.DYNAMIC_DRAW}
}

// ID returns the GL buffer name, 0 before Create.
func (b *GLBuffer) ID() uint32 {
	return b.id
}

// Size returns the allocated size in bytes.
func (b *GLBuffer) Size() int {
	return b.size
}

// Create implements gpu.Buffer.
func (b *GLBuffer) Create(data []byte) {
	if b.id == 0 {
		gl.GenBuffers(1, &b.id)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data), unsafe.Pointer(&data[0]), b.usage)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, b.usage)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	b.size = len(data)

	logger.Named("gpu").Debug("buffer created",
		zap.Uint32("id", b.id),
		zap.Int("bytes", b.size),
	)
}

// Write implements gpu.Buffer. Ranges outside the allocation are dropped.
func (b *GLBuffer) Write(r gpu.Range) {
	if b.id == 0 || len(r.Data) == 0 {
		return
	}
	if r.Offset < 0 || r.End() > b.size {
		logger.Named("gpu").Warn("buffer write out of bounds",
			zap.Uint32("id", b.id),
			zap.Int("offset", r.Offset),
			zap.Int("bytes", len(r.Data)),
			zap.Int("size", b.size),
		)
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.BufferSubData(gl.ARRAY_BUFFER, r.Offset, len(r.Data), unsafe.Pointer(&r.Data[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Delete implements gpu.Buffer.
func (b *GLBuffer) Delete() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
	b.size = 0
}

var _ gpu.Buffer = (*GLBuffer)(nil)
