package picking

import "github.com/Faultbox/surface-decals/pkg/math"

// triangleEpsilon rejects rays parallel to the triangle plane.
const triangleEpsilon = 1e-7

// IntersectTriangle returns the distance along r to triangle (a, b, c) using
// the Möller-Trumbore test. Both faces are hit.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -triangleEpsilon && det < triangleEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
