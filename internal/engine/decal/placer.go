// Package decal places circular stains on a surface and ages them out.
package decal

import (
	gomath "math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/Faultbox/surface-decals/pkg/math"
)

const (
	// DefaultIntensity is the starting intensity of a decal. It doubles as
	// the lifetime in seconds.
	DefaultIntensity = 10.0

	// DefaultMinRadius and DefaultMaxRadius bound the random decal radius.
	DefaultMinRadius = 120.0
	DefaultMaxRadius = 200.0

	// degenerateLenSq is the squared length below which a basis vector is
	// treated as zero.
	degenerateLenSq = 1e-4
)

// fallbackAxes are tried in order when building the right vector.
var fallbackAxes = [3]math.Vec3{math.UnitZ, math.UnitX, math.UnitY}

// Decal is one stain projected onto the surface.
type Decal struct {
	ID        string
	Position  math.Vec3
	Radius    float32
	Intensity float32

	// Projector maps world space into the unit cube centered on the decal.
	Projector math.Mat4
	// Orientation holds the tangent basis at the hit point as rows up, right, fwd.
	Orientation math.Mat4
}

// Alive reports whether the decal still has intensity left.
func (d Decal) Alive() bool {
	return d.Intensity > 0
}

// Placer builds decals from surface hits.
type Placer struct {
	MinRadius float32
	MaxRadius float32
	Intensity float32

	rng *rand.Rand
}

// NewPlacer returns a placer with the default radius range and intensity.
// rng drives the random rotation and radius; pass a seeded source for
// reproducible placement.
func NewPlacer(rng *rand.Rand) *Placer {
	return &Placer{
		MinRadius: DefaultMinRadius,
		MaxRadius: DefaultMaxRadius,
		Intensity: DefaultIntensity,
		rng:       rng,
	}
}

// Place creates a decal at hitPoint on a surface with the given normal,
// seen along cameraForward.
func (p *Placer) Place(cameraForward, hitPoint, normal math.Vec3) Decal {
	right, up, fwd := Frame(cameraForward, normal)

	x := p.angle()
	y := p.angle()
	z := p.angle()
	radius := p.MinRadius + p.rng.Float32()*(p.MaxRadius-p.MinRadius)

	return Decal{
		ID:          uuid.NewString(),
		Position:    hitPoint,
		Radius:      radius,
		Intensity:   p.Intensity,
		Projector:   Projector(hitPoint, radius, x, y, z),
		Orientation: Orientation(right, up, fwd),
	}
}

func (p *Placer) angle() float32 {
	a := p.rng.Float32() * 2 * gomath.Pi
	// Float32 rounding can land exactly on 2*Pi
	if a >= 2*gomath.Pi {
		a = 0
	}
	return a
}

// Frame returns an orthonormal basis facing the viewer at a surface point.
// fwd points from the surface normal toward the camera direction; degenerate
// inputs fall back to fixed axes so the result is always valid.
func Frame(cameraForward, normal math.Vec3) (right, up, fwd math.Vec3) {
	fwd = cameraForward.Sub(normal)
	if fwd.LengthSq() < degenerateLenSq {
		fwd = math.UnitZ
	}
	fwd = fwd.Normalize()

	for _, axis := range fallbackAxes {
		right = fwd.Cross(axis)
		if right.LengthSq() >= degenerateLenSq {
			break
		}
	}
	right = right.Normalize()
	up = right.Cross(fwd)
	return right, up, fwd
}

// Projector returns T(0.5) * S(0.5/radius) * Rzxy(x, y, z) * T(-position).
func Projector(position math.Vec3, radius, x, y, z float32) math.Mat4 {
	return math.Translate(0.5, 0.5, 0.5).
		Mul(math.ScaleUniform(0.5 / radius)).
		Mul(math.RotateZXY(x, y, z)).
		Mul(math.TranslateV(position.Negate()))
}

// Orientation packs a frame into a matrix with rows up, right, fwd.
func Orientation(right, up, fwd math.Vec3) math.Mat4 {
	return math.FromRows(
		math.Homogeneous(up, 0),
		math.Homogeneous(right, 0),
		math.Homogeneous(fwd, 0),
		math.Vec4{0, 0, 0, 1},
	)
}
