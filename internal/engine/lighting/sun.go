// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/beltline/pkg/math"
)

// Sun is a directional light given as compass angles in degrees.
type Sun struct {
	Azimuth   float32 // rotation around Y, 0 points along +Z
	Elevation float32 // angle above the horizon, 0-90
}

// DefaultSun lights the belt from above and slightly to the side.
func DefaultSun() Sun {
	return Sun{Azimuth: 35, Elevation: 65}
}

// Direction returns the normalized vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	az := float64(s.Azimuth) * gomath.Pi / 180.0
	el := float64(s.Elevation) * gomath.Pi / 180.0

	// Spherical to Cartesian, elevation measured from the XZ plane
	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}
