package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/surface-decals/pkg/formats"
	"github.com/Faultbox/surface-decals/pkg/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		vertices   []float32
		components int
		indices    []uint32
		want       error
	}{
		{"ragged stream", []float32{0, 0, 0, 1}, 3, nil, ErrBadComponentCount},
		{"zero components", []float32{0}, 0, nil, ErrBadComponentCount},
		{"partial triangle", []float32{0, 0, 0}, 3, []uint32{0, 0}, ErrBadIndexCount},
		{"index out of range", []float32{0, 0, 0}, 3, []uint32{0, 0, 1}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vertices, tt.components, tt.indices)
			assert.True(t, errors.Is(err, tt.want), "expected %v, got %v", tt.want, err)
		})
	}
}

func TestNew_BoundsAndFormat(t *testing.T) {
	m, err := New([]float32{
		-1, 0, 2,
		3, -4, 0,
		0, 5, 1,
	}, 3, []uint32{0, 1, 2})
	require.NoError(t, err)

	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, Index16, m.IndexFormat)
	assert.Equal(t, math.Vec3{X: -1, Y: -4, Z: 0}, m.Bounds.Min)
	assert.Equal(t, math.Vec3{X: 3, Y: 5, Z: 2}, m.Bounds.Max)
	assert.True(t, m.HasPositions())
}

func TestIndexFormat_MaxVertices(t *testing.T) {
	assert.Equal(t, 65535, Index16.MaxVertices())
	assert.Greater(t, Index32.MaxVertices(), 65535)
}

const quadOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
usemtl stone
f 1 2 3 4
`

const twoMaterialOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 2 0 0
v 2 1 0
v 3 0 0
usemtl zinc
f 1 2 3
usemtl brass
f 4 6 5
`

func TestFromOBJ_KeepsFileOrder(t *testing.T) {
	obj, err := formats.ParseOBJ(strings.NewReader(twoMaterialOBJ))
	require.NoError(t, err)

	m, err := FromOBJ(obj)
	require.NoError(t, err)

	// The zinc face comes first in the file and keeps the first triangle
	// even though brass sorts before it.
	require.Equal(t, 2, m.TriangleCount())
	sumX := func(tri int) float32 {
		a, b, c := m.Triangle(tri)
		return m.Position(int(a)).X + m.Position(int(b)).X + m.Position(int(c)).X
	}
	assert.Equal(t, float32(2), sumX(0))
	assert.Equal(t, float32(7), sumX(1))
}

func TestFromOBJ_Quad(t *testing.T) {
	obj, err := formats.ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	m, err := FromOBJ(obj)
	require.NoError(t, err)

	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, objComponents, m.ComponentCount)

	// Fan triangles (0,1,2) and (0,2,3) already end on distinct vertices
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.NotEqual(t, m.ProvokingVertex(0), m.ProvokingVertex(1))

	// Missing normals were filled from the face
	normal := m.Streams[StreamNormal]
	for i := 0; i < m.VertexCount(); i++ {
		base := i*m.ComponentCount + normal.Offset
		n := math.V3(m.Vertices[base:])
		assert.InDelta(t, 1, n.Z, 1e-5, "vertex %d normal %v", i, n)
	}
	assert.Equal(t, math.Vec3{Z: 1}, m.TriangleNormal(0))
}

func TestFromOBJ_SharedCornersDeduplicated(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 1
f 1/1 2/1 3/1
f 1/2 3/1 2/1
`
	obj, err := formats.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	m, err := FromOBJ(obj)
	require.NoError(t, err)

	// Corner 1 differs by texcoord between faces, so it splits
	assert.Equal(t, 4, m.VertexCount())
}

func TestFromOBJ_NoFaces(t *testing.T) {
	_, err := FromOBJ(&formats.OBJ{Positions: [][3]float32{{0, 0, 0}}})
	assert.Error(t, err)
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0644))

	m, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())

	_, err = LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
