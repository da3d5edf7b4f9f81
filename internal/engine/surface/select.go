package surface

import "github.com/Faultbox/surface-decals/pkg/math"

// SelectInSphere returns, in ascending order, every vertex whose position
// lies strictly inside the sphere. It returns nil when the mesh carries no
// position stream.
func (s *Store) SelectInSphere(center math.Vec3, radius float32) []int {
	m := s.mesh
	if !m.HasPositions() {
		return nil
	}

	r2 := radius * radius
	var out []int
	for i := 0; i < m.VertexCount(); i++ {
		if m.Position(i).Sub(center).LengthSq() < r2 {
			out = append(out, i)
		}
	}
	return out
}
