// Package lighting provides the directional light used to shade the surface.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/surface-decals/pkg/math"
)

// Sun is a directional light placed by longitude and latitude in degrees.
// Longitude rotates around Y, latitude is the elevation above the horizon.
type Sun struct {
	Longitude float32
	Latitude  float32
}

// DefaultSun returns a light high above the scene, slightly off axis.
func DefaultSun() Sun {
	return Sun{Longitude: 215, Latitude: 65}
}

// Direction returns the unit vector pointing toward the sun.
func (s Sun) Direction() math.Vec3 {
	lon := float64(s.Longitude) * gomath.Pi / 180.0
	lat := float64(s.Latitude) * gomath.Pi / 180.0

	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// LightDir returns the direction light travels, away from the sun.
func (s Sun) LightDir() math.Vec3 {
	return s.Direction().Negate()
}
