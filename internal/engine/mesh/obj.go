package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/logger"
	"github.com/Faultbox/surface-decals/pkg/formats"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// objComponents is the interleaved layout FromOBJ produces:
// position(3) texcoord(2) normal(3).
const objComponents = 8

// FromOBJ assembles a render-ready mesh from parsed OBJ data.
// Corners sharing position, texcoord and normal become one vertex, polygons
// are fan triangulated in file order, and the provoking-vertex pass is
// applied. The surface is drawn in one call, so OBJ material groups are
// ignored. Vertices without an OBJ normal get the area-weighted average of
// their face normals.
func FromOBJ(obj *formats.OBJ) (*Mesh, error) {
	if len(obj.Faces) == 0 {
		return nil, fmt.Errorf("OBJ has no faces")
	}

	var vertices []float32
	indices := make([]uint32, 0, obj.TriangleCount()*3)
	vertexMap := make(map[formats.OBJFaceVertex]uint32)
	var missingNormals []bool

	corner := func(fv formats.OBJFaceVertex) uint32 {
		if idx, ok := vertexMap[fv]; ok {
			return idx
		}
		idx := uint32(len(vertices) / objComponents)
		p := obj.Positions[fv.Position]
		var uv [2]float32
		if fv.TexCoord >= 0 {
			uv = obj.TexCoords[fv.TexCoord]
		}
		var n [3]float32
		if fv.Normal >= 0 {
			n = obj.Normals[fv.Normal]
		}
		vertices = append(vertices, p[0], p[1], p[2], uv[0], uv[1], n[0], n[1], n[2])
		missingNormals = append(missingNormals, fv.Normal < 0)
		vertexMap[fv] = idx
		return idx
	}

	for _, face := range obj.Faces {
		first := corner(face.Vertices[0])
		for k := 1; k+1 < len(face.Vertices); k++ {
			indices = append(indices, first, corner(face.Vertices[k]), corner(face.Vertices[k+1]))
		}
	}

	m, err := New(vertices, objComponents, indices)
	if err != nil {
		return nil, err
	}
	m.Streams[StreamTexCoord] = Stream{Offset: 3, Components: 2}
	m.Streams[StreamNormal] = Stream{Offset: 5, Components: 3}

	m.fillMissingNormals(missingNormals)
	shared := m.AssignProvokingVertices()

	logger.Named("mesh").Info("mesh assembled",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Stringer("indexFormat", m.IndexFormat),
		zap.Int("sharedProvoking", shared),
	)
	return m, nil
}

// LoadOBJ parses and assembles an OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}
	m, err := FromOBJ(obj)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", path, err)
	}
	return m, nil
}

// fillMissingNormals accumulates unnormalized face normals (area weighted)
// into the flagged vertices.
func (m *Mesh) fillMissingNormals(missing []bool) {
	normal := m.Streams[StreamNormal]
	needed := false
	for _, v := range missing {
		needed = needed || v
	}
	if !needed {
		return
	}

	sums := make([]math.Vec3, m.VertexCount())
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		p0, p1, p2 := m.Position(int(a)), m.Position(int(b)), m.Position(int(c))
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, v := range [3]uint32{a, b, c} {
			sums[v] = sums[v].Add(n)
		}
	}

	for i, isMissing := range missing {
		if !isMissing {
			continue
		}
		n := sums[i].Normalize()
		base := i*m.ComponentCount + normal.Offset
		m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2] = n.X, n.Y, n.Z
	}
}
