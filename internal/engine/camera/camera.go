// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/surface-decals/pkg/math"
)

// FlyCamera is a free-look camera driven by pitch and yaw.
// With zero angles it looks down +Z.
type FlyCamera struct {
	Position math.Vec3

	Pitch float32 // rotation about X, radians; positive looks down
	Yaw   float32 // rotation about Y, radians

	// Horizontal field of view in radians
	FovX float32
	Near float32
	Far  float32

	// Constraints
	MaxPitch float32

	// Sensitivity
	LookSensitivity float32
	Speed           float32
}

// NewFlyCamera creates a fly camera at its start position.
func NewFlyCamera() *FlyCamera {
	c := &FlyCamera{
		FovX:            1.5,
		Near:            5,
		Far:             4000,
		MaxPitch:        gomath.Pi/2 - 0.01,
		LookSensitivity: 0.004,
		Speed:           400,
	}
	c.Reset()
	return c
}

// Reset moves the camera back to its start pose.
func (c *FlyCamera) Reset() {
	c.Position = math.Vec3{X: -557, Y: 135, Z: 5.8}
	c.Pitch = 0.0634
	c.Yaw = -1.58
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	cosX := float32(gomath.Cos(float64(c.Pitch)))
	sinX := float32(gomath.Sin(float64(c.Pitch)))
	cosY := float32(gomath.Cos(float64(c.Yaw)))
	sinY := float32(gomath.Sin(float64(c.Yaw)))
	return math.Vec3{X: -cosX * sinY, Y: -sinX, Z: cosX * cosY}
}

// Right returns the horizontal unit vector to the right of the view.
func (c *FlyCamera) Right() math.Vec3 {
	return c.Forward().Cross(math.UnitY).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Forward()), math.UnitY)
}

// ProjectionMatrix returns the perspective projection for the given aspect
// ratio (width / height).
func (c *FlyCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY(aspect), aspect, c.Near, c.Far)
}

// FovY converts the horizontal field of view to a vertical one.
func (c *FlyCamera) FovY(aspect float32) float32 {
	if aspect <= 0 {
		aspect = 1
	}
	return float32(2 * gomath.Atan(gomath.Tan(float64(c.FovX)/2)/float64(aspect)))
}

// HandleLook updates pitch and yaw from a relative mouse motion.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.LookSensitivity
	c.Pitch = math.Clamp(c.Pitch+deltaY*c.LookSensitivity, -c.MaxPitch, c.MaxPitch)
}

// Step returns the displacement for one frame of movement. forward, right
// and up are in [-1, 1].
func (c *FlyCamera) Step(forward, right, up, dt float32) math.Vec3 {
	dir := c.Forward().Scale(forward).
		Add(c.Right().Scale(right)).
		Add(math.UnitY.Scale(up))
	if dir.LengthSq() == 0 {
		return math.Vec3{}
	}
	return dir.Normalize().Scale(c.Speed * dt)
}
