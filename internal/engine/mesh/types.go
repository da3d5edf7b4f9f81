// Package mesh holds indexed triangle meshes as assembled for rendering and
// painting, including provoking-vertex assignment.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/surface-decals/pkg/math"
)

// Mesh validation errors.
var (
	ErrBadComponentCount = errors.New("vertex stream length is not a multiple of the component count")
	ErrBadIndexCount     = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// IndexFormat is the element width of the GPU index buffer.
type IndexFormat int

// Index formats.
const (
	Index32 IndexFormat = iota
	Index16
)

// MaxVertices returns the largest vertex count the format can address.
// A 16-bit buffer is capped at 65535 vertices.
func (f IndexFormat) MaxVertices() int {
	if f == Index16 {
		return 65535
	}
	return int(^uint(0) >> 1)
}

// String returns the GL-style type name.
func (f IndexFormat) String() string {
	if f == Index16 {
		return "uint16"
	}
	return "uint32"
}

// Stream semantic names.
const (
	StreamPosition = "position"
	StreamTexCoord = "texcoord"
	StreamNormal   = "normal"
)

// Stream locates one attribute inside the interleaved vertex.
type Stream struct {
	Offset     int // in float components
	Components int
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Mesh is an indexed triangle list with an interleaved float vertex stream.
// The first three components of every vertex are its position.
type Mesh struct {
	Vertices       []float32
	ComponentCount int
	Streams        map[string]Stream
	Indices        []uint32
	IndexFormat    IndexFormat
	Bounds         Bounds
}

// New validates the buffers and builds a mesh with a position-only stream map.
func New(vertices []float32, componentCount int, indices []uint32) (*Mesh, error) {
	if componentCount <= 0 || len(vertices)%componentCount != 0 {
		return nil, fmt.Errorf("%w: %d floats, %d components", ErrBadComponentCount, len(vertices), componentCount)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadIndexCount, len(indices))
	}

	m := &Mesh{
		Vertices:       vertices,
		ComponentCount: componentCount,
		Streams:        make(map[string]Stream),
		Indices:        indices,
	}
	if componentCount >= 3 {
		m.Streams[StreamPosition] = Stream{Offset: 0, Components: 3}
	}

	vc := m.VertexCount()
	for i, idx := range indices {
		if int(idx) >= vc {
			return nil, fmt.Errorf("%w: index %d = %d, %d vertices", ErrIndexOutOfRange, i, idx, vc)
		}
	}
	if vc <= Index16.MaxVertices() {
		m.IndexFormat = Index16
	}
	m.updateBounds()
	return m, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	if m == nil || m.ComponentCount <= 0 {
		return 0
	}
	return len(m.Vertices) / m.ComponentCount
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// HasPositions reports whether vertices carry at least three leading
// position components.
func (m *Mesh) HasPositions() bool {
	return m != nil && m.ComponentCount >= 3 && len(m.Vertices) > 0
}

// Position returns the position of vertex i. The caller checks the range.
func (m *Mesh) Position(i int) math.Vec3 {
	return math.V3(m.Vertices[i*m.ComponentCount:])
}

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c uint32) {
	return m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
}

// TriangleNormal returns the unit face normal of triangle t using
// counter-clockwise winding.
func (m *Mesh) TriangleNormal(t int) math.Vec3 {
	a, b, c := m.Triangle(t)
	p0, p1, p2 := m.Position(int(a)), m.Position(int(b)), m.Position(int(c))
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func (m *Mesh) updateBounds() {
	if !m.HasPositions() {
		m.Bounds = Bounds{}
		return
	}
	b := Bounds{Min: m.Position(0), Max: m.Position(0)}
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	m.Bounds = b
}
