// Package picking casts rays from the screen and intersects them with meshes.
package picking

import (
	gomath "math"

	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// BoundsAABB converts mesh bounds to a box.
func BoundsAABB(b mesh.Bounds) AABB {
	return AABB{Min: b.Min, Max: b.Max}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	s := ScreenToSegment(screenX, screenY, viewportW, viewportH, invViewProj)
	return Ray{Origin: s.Start, Direction: s.End.Sub(s.Start).Normalize()}
}

// ScreenToSegment returns the points under a screen position on the near
// and far clip planes.
func ScreenToSegment(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Segment {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	return Segment{
		Start: unprojectNDC(ndcX, ndcY, -1, invViewProj),
		End:   unprojectNDC(ndcX, ndcY, 1, invViewProj),
	}
}

func unprojectNDC(x, y, z float32, invViewProj math.Mat4) math.Vec3 {
	p := invViewProj.MulVec4(math.Vec4{x, y, z, 1})
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return p.XYZ()
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Expand returns the box grown by pad on every side.
func (b AABB) Expand(pad float32) AABB {
	p := math.Vec3{X: pad, Y: pad, Z: pad}
	return AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}
