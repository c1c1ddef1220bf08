// Package geometry implements the stateless curve samplers and the ribbon mesh
// builder used to turn a belt path into renderable buffers.
package geometry

import (
	"github.com/Faultbox/beltline/pkg/math"
)

// BezierTangentFraction is the fraction of the chord used to place synthesized
// Bezier control points when the caller supplies only endpoints.
const BezierTangentFraction = 0.25

// clampSamples keeps the sample count usable; zero or negative counts would
// otherwise divide by zero when computing t.
func clampSamples(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// SampleLinear returns n+1 points uniformly interpolated from p0 to p1.
func SampleLinear(p0, p1 math.Vec3, n int) []math.Vec3 {
	n = clampSamples(n)
	points := make([]math.Vec3, n+1)
	for i := 0; i <= n; i++ {
		points[i] = p0.Lerp(p1, float32(i)/float32(n))
	}
	// Pin the end exactly so joins match the next segment's first sample.
	points[n] = p1
	return points
}

// BezierPoint evaluates the cubic Bezier curve p0,c1,c2,p3 at t.
func BezierPoint(t float32, p0, c1, c2, p3 math.Vec3) math.Vec3 {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return p0.Scale(b0).Add(c1.Scale(b1)).Add(c2.Scale(b2)).Add(p3.Scale(b3))
}

// SampleBezier returns n+1 points along the cubic Bezier p0,c1,c2,p3.
func SampleBezier(p0, c1, c2, p3 math.Vec3, n int) []math.Vec3 {
	n = clampSamples(n)
	points := make([]math.Vec3, n+1)
	for i := 0; i <= n; i++ {
		points[i] = BezierPoint(float32(i)/float32(n), p0, c1, c2, p3)
	}
	points[0] = p0
	points[n] = p3
	return points
}

// DefaultBezierControls synthesizes straight-tangent control points a quarter
// of the way in from each endpoint.
func DefaultBezierControls(p0, p1 math.Vec3) (c1, c2 math.Vec3) {
	dir := p1.Sub(p0)
	c1 = p0.Add(dir.Scale(BezierTangentFraction))
	c2 = p1.Sub(dir.Scale(BezierTangentFraction))
	return c1, c2
}

// SampleBezierEndpoints samples a Bezier segment between p0 and p1 using
// DefaultBezierControls.
func SampleBezierEndpoints(p0, p1 math.Vec3, n int) []math.Vec3 {
	c1, c2 := DefaultBezierControls(p0, p1)
	return SampleBezier(p0, c1, c2, p1, n)
}

// CatmullRomPoint evaluates the uniform Catmull-Rom segment between p1 and p2
// at t, with p0 and p3 as the outer neighbours.
func CatmullRomPoint(t float32, p0, p1, p2, p3 math.Vec3) math.Vec3 {
	t2 := t * t
	t3 := t2 * t

	a := p1.Scale(2)
	b := p2.Sub(p0).Scale(t)
	c := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(t2)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(t3)

	return a.Add(b).Add(c).Add(d).Scale(0.5)
}

// SampleCatmullRom returns n+1 points on the Catmull-Rom segment from p1 to p2.
// At sequence boundaries callers pass the nearest real point again in place of
// the missing neighbour.
func SampleCatmullRom(p0, p1, p2, p3 math.Vec3, n int) []math.Vec3 {
	n = clampSamples(n)
	points := make([]math.Vec3, n+1)
	for i := 0; i <= n; i++ {
		points[i] = CatmullRomPoint(float32(i)/float32(n), p0, p1, p2, p3)
	}
	points[0] = p1
	points[n] = p2
	return points
}
