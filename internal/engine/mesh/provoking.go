package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/logger"
)

// AssignProvokingVertices reorders each triangle of indices in place so its
// last index (the provoking vertex under GL's default convention) is a vertex
// no earlier triangle has claimed.
//
// Triangles are visited in order. The current last vertex is kept when free;
// otherwise the triangle is rotated to put its second, then its first vertex
// last. Rotation is cyclic so winding is preserved. When all three vertices
// are claimed the triangle is left alone and shares its provoking vertex.
// The pass never backtracks and never adds vertices.
//
// It returns the number of triangles left with a shared provoking vertex.
func AssignProvokingVertices(indices []uint32, vertexCount int) int {
	used := make([]bool, vertexCount)
	shared := 0

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]

		switch {
		case !used[c]:
			used[c] = true
		case !used[b]:
			used[b] = true
			indices[i], indices[i+1], indices[i+2] = c, a, b
		case !used[a]:
			used[a] = true
			indices[i], indices[i+1], indices[i+2] = b, c, a
		default:
			shared++
		}
	}
	return shared
}

// AssignProvokingVertices runs the provoking-vertex pass over the mesh's
// index buffer. Call it once, after assembly and before the buffers are
// uploaded.
func (m *Mesh) AssignProvokingVertices() int {
	shared := AssignProvokingVertices(m.Indices, m.VertexCount())
	if shared > 0 {
		logger.Named("mesh").Debug("triangles sharing a provoking vertex",
			zap.Int("shared", shared),
			zap.Int("triangles", m.TriangleCount()),
		)
	}
	return shared
}

// ProvokingVertex returns the vertex that carries flat attributes for
// triangle t.
func (m *Mesh) ProvokingVertex(t int) uint32 {
	return m.Indices[t*3+2]
}
