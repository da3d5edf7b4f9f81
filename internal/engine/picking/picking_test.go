package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// planeMesh builds two triangles covering [0,size]^2 on the XZ plane at
// height y, facing +Y.
func planeMesh(t *testing.T, y, size float32) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New([]float32{
		0, y, 0,
		0, y, size,
		size, y, 0,
		size, y, size,
	}, 3, []uint32{0, 1, 2, 2, 1, 3})
	require.NoError(t, err)
	return m
}

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: 0, Y: 0, Z: 0}
	b := math.Vec3{X: 1, Y: 0, Z: 0}
	c := math.Vec3{X: 0, Y: 1, Z: 0}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"front", Ray{Origin: math.Vec3{X: 0.2, Y: 0.2, Z: 5}, Direction: math.Vec3{Z: -1}}, true, 5},
		{"back face", Ray{Origin: math.Vec3{X: 0.2, Y: 0.2, Z: -2}, Direction: math.Vec3{Z: 1}}, true, 2},
		{"outside", Ray{Origin: math.Vec3{X: 0.8, Y: 0.8, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
		{"behind origin", Ray{Origin: math.Vec3{X: 0.2, Y: 0.2, Z: 5}, Direction: math.Vec3{Z: 1}}, false, 0},
		{"parallel", Ray{Origin: math.Vec3{X: -1, Y: 0.2, Z: 0}, Direction: math.Vec3{X: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectTriangle(a, b, c)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.InDelta(t, tt.wantT, got, 1e-5)
			}
		})
	}
}

func TestIntersectAABB(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	d, ok := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}.IntersectAABB(box)
	assert.True(t, ok)
	assert.InDelta(t, 4, d, 1e-6)

	d, ok = Ray{Direction: math.Vec3{X: 1}}.IntersectAABB(box)
	assert.True(t, ok, "ray starting inside")
	assert.InDelta(t, 1, d, 1e-6)

	_, ok = Ray{Origin: math.Vec3{Y: 3}, Direction: math.Vec3{X: 1}}.IntersectAABB(box)
	assert.False(t, ok)

	_, ok = Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}.IntersectAABB(box)
	assert.False(t, ok, "box behind ray")
}

func TestIntersectMesh(t *testing.T) {
	m := planeMesh(t, 0, 10)

	hit, ok := IntersectMesh(m, math.Vec3{X: 2, Y: 5, Z: 7}, math.Vec3{X: 2, Y: -5, Z: 7})
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Point.X, 1e-5)
	assert.InDelta(t, 0, hit.Point.Y, 1e-5)
	assert.InDelta(t, 7, hit.Point.Z, 1e-5)
	assert.InDelta(t, 5, hit.Distance, 1e-5)
	assert.Equal(t, math.Vec3{Y: 1}, hit.Normal)
	assert.Contains(t, []int{0, 1}, hit.Triangle)

	// Point (8, 0, 8) lies only in the second triangle
	hit, ok = IntersectMesh(m, math.Vec3{X: 8, Y: 1, Z: 8}, math.Vec3{X: 8, Y: -1, Z: 8})
	require.True(t, ok)
	assert.Equal(t, 1, hit.Triangle)
}

func TestIntersectMesh_SegmentTooShort(t *testing.T) {
	m := planeMesh(t, 0, 10)
	_, ok := IntersectMesh(m, math.Vec3{X: 2, Y: 5, Z: 2}, math.Vec3{X: 2, Y: 1, Z: 2})
	assert.False(t, ok)

	_, ok = IntersectMesh(m, math.Vec3{X: 2, Y: 5, Z: 2}, math.Vec3{X: 2, Y: 5, Z: 2})
	assert.False(t, ok)
}

func TestIntersectMesh_Closest(t *testing.T) {
	lower := planeMesh(t, 0, 10)
	upper := planeMesh(t, 3, 10)

	// Merge the two planes into one mesh, upper plane indexed last
	vertices := append(append([]float32{}, lower.Vertices...), upper.Vertices...)
	indices := append([]uint32{}, lower.Indices...)
	for _, i := range upper.Indices {
		indices = append(indices, i+4)
	}
	m, err := mesh.New(vertices, 3, indices)
	require.NoError(t, err)

	hit, ok := IntersectMesh(m, math.Vec3{X: 1, Y: 10, Z: 1}, math.Vec3{X: 1, Y: -10, Z: 1})
	require.True(t, ok)
	assert.InDelta(t, 3, hit.Point.Y, 1e-5)
	assert.GreaterOrEqual(t, hit.Triangle, 2)
}

func TestIntersectMesh_MissesBounds(t *testing.T) {
	m := planeMesh(t, 0, 10)
	_, ok := IntersectMesh(m, math.Vec3{X: 20, Y: 5, Z: 20}, math.Vec3{X: 20, Y: -5, Z: 20})
	assert.False(t, ok)
}

func TestScreenToRay_Center(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 10, Z: 10}
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(1.0, 4.0/3.0, 1, 1000)
	inv := proj.Mul(view).Inverse()

	ray := ScreenToRay(400, 300, 800, 600, inv)
	want := math.Vec3{}.Sub(eye).Normalize()

	assert.InDelta(t, want.X, ray.Direction.X, 1e-3)
	assert.InDelta(t, want.Y, ray.Direction.Y, 1e-3)
	assert.InDelta(t, want.Z, ray.Direction.Z, 1e-3)
}

// unproject maps window coordinates (origin top-left) and a depth in [0, 1]
// back to world space through mgl32, independently of pkg/math.
func unproject(t *testing.T, x, y, depth float32, view, proj math.Mat4, width, height int) math.Vec3 {
	t.Helper()
	win := mgl32.Vec3{x, float32(height) - y, depth}
	obj, err := mgl32.UnProject(win, mgl32.Mat4(view), mgl32.Mat4(proj), 0, 0, width, height)
	require.NoError(t, err)
	return math.Vec3{X: obj[0], Y: obj[1], Z: obj[2]}
}

func TestScreenToRay_MatchesUnProject(t *testing.T) {
	eye := math.Vec3{X: 5, Y: 20, Z: 30}
	view := math.LookAt(eye, math.Vec3{X: 1, Z: -2}, math.Vec3{Y: 1})
	proj := math.Perspective(1.2, 1.5, 2, 500)
	inv := proj.Mul(view).Inverse()

	x, y := float32(610), float32(144)
	near := unproject(t, x, y, 0, view, proj, 900, 600)
	far := unproject(t, x, y, 1, view, proj, 900, 600)

	ray := ScreenToRay(x, y, 900, 600, inv)
	dir := far.Sub(near).Normalize()

	assert.InDelta(t, ray.Origin.X, near.X, 1e-2)
	assert.InDelta(t, ray.Origin.Y, near.Y, 1e-2)
	assert.InDelta(t, ray.Origin.Z, near.Z, 1e-2)
	assert.InDelta(t, ray.Direction.X, dir.X, 1e-3)
	assert.InDelta(t, ray.Direction.Y, dir.Y, 1e-3)
	assert.InDelta(t, ray.Direction.Z, dir.Z, 1e-3)
}

func TestScreenToSegment_PicksPlane(t *testing.T) {
	m := planeMesh(t, 0, 10)
	eye := math.Vec3{X: 3, Y: 20, Z: 4}
	view := math.LookAt(eye, math.Vec3{X: 3, Y: 0, Z: 4}, math.Vec3{Z: -1})
	proj := math.Perspective(1.0, 1.0, 1, 1000)

	seg := ScreenToSegment(200, 200, 400, 400, proj.Mul(view).Inverse())
	assert.InDelta(t, 19, seg.Start.Y, 1e-2)
	assert.Less(t, seg.End.Y, float32(0))

	hit, ok := IntersectMesh(m, eye, seg.End)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Point.Y, 1e-3)
	assert.InDelta(t, 3, hit.Point.X, 1e-2)
	assert.InDelta(t, 4, hit.Point.Z, 1e-2)
}
