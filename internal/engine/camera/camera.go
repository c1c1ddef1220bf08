// Package camera provides the orbit camera used to inspect a belt.
package camera

import (
	gomath "math"

	"github.com/Faultbox/beltline/pkg/math"
)

// OrbitCamera looks at Center from a point on a sphere around it.
type OrbitCamera struct {
	Center   math.Vec3
	Distance float32
	Pitch    float32 // radians above the horizontal plane
	Yaw      float32 // radians around +Y, 0 looks down -Z

	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	DragSensitivity float32 // radians per pixel
	ZoomSensitivity float32 // fraction of Distance per wheel step
	PanSensitivity  float32 // fraction of Distance per pixel

	FovY      float32 // radians
	NearPlane float32
	FarPlane  float32
}

// NewOrbitCamera creates an orbit camera sized for a belt a few units long.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        12,
		Pitch:           0.6,
		Yaw:             0.4,
		MinDistance:     2,
		MaxDistance:     200,
		MinPitch:        -1.4,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSensitivity:  0.0015,
		FovY:            float32(gomath.Pi / 4),
		NearPlane:       0.1,
		FarPlane:        500,
	}
}

func clamp(v, lo, hi float32) float32 {
	return float32(gomath.Max(float64(lo), gomath.Min(float64(hi), float64(v))))
}

// offset is the unit vector from Center toward the eye.
func (c *OrbitCamera) offset() math.Vec3 {
	sp, cp := gomath.Sincos(float64(c.Pitch))
	sy, cy := gomath.Sincos(float64(c.Yaw))
	return math.Vec3{X: float32(cp * sy), Y: float32(sp), Z: float32(cp * cy)}
}

// Position returns the eye in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Center.Add(c.offset().Scale(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// ProjectionMatrix returns the perspective projection for aspect. A
// non-positive aspect (minimised window) is treated as square.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FovY, aspect, c.NearPlane, c.FarPlane)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// HandleDrag orbits by a mouse delta in pixels.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves toward the center for positive wheel steps. The step is
// proportional to the distance.
func (c *OrbitCamera) HandleZoom(steps float32) {
	c.Distance = clamp(c.Distance*(1-steps*c.ZoomSensitivity), c.MinDistance, c.MaxDistance)
}

// HandlePan slides the center in the view plane by a mouse delta in pixels.
func (c *OrbitCamera) HandlePan(dx, dy float32) {
	forward := c.offset().Neg()
	right := forward.Cross(math.Up).Normalize()
	up := right.Cross(forward)
	k := c.Distance * c.PanSensitivity
	c.Center = c.Center.Add(right.Scale(-dx * k)).Add(up.Scale(dy * k))
}

// FitToBounds centers on the box and backs off until its bounding sphere
// fills the vertical field of view.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.Center = lo.Lerp(hi, 0.5)
	radius := hi.Sub(lo).Length() / 2
	c.Distance = clamp(radius/float32(gomath.Sin(float64(c.FovY)/2)), c.MinDistance, c.MaxDistance)
}
