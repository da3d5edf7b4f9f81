package picking

import (
	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// Hit is the first surface point found along a segment.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3 // unit face normal
	Triangle int
	Distance float32
}

// Segment is the part of a ray between two points.
type Segment struct {
	Start, End math.Vec3
}

// Ray returns the ray from Start toward End and the segment length.
func (s Segment) Ray() (Ray, float32) {
	d := s.End.Sub(s.Start)
	return Ray{Origin: s.Start, Direction: d.Normalize()}, d.Length()
}

// IntersectMesh returns the hit closest to origin on the segment from origin
// to target.
func IntersectMesh(m *mesh.Mesh, origin, target math.Vec3) (Hit, bool) {
	if !m.HasPositions() || m.TriangleCount() == 0 {
		return Hit{}, false
	}

	ray, length := Segment{Start: origin, End: target}.Ray()
	if length == 0 {
		return Hit{}, false
	}
	if _, ok := ray.IntersectAABB(BoundsAABB(m.Bounds).Expand(1e-3)); !ok {
		return Hit{}, false
	}

	best := Hit{Triangle: -1, Distance: length}
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c := m.Triangle(tri)
		t, ok := ray.IntersectTriangle(m.Position(int(a)), m.Position(int(b)), m.Position(int(c)))
		if ok && t <= best.Distance {
			best.Triangle = tri
			best.Distance = t
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}

	best.Point = ray.At(best.Distance)
	best.Normal = m.TriangleNormal(best.Triangle)
	return best, true
}
