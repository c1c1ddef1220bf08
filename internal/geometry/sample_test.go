package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/beltline/pkg/math"
)

func TestSampleLinear(t *testing.T) {
	p0 := math.Vec3{X: 0, Y: 1, Z: 0}
	p1 := math.Vec3{X: 4, Y: 1, Z: 0}

	points := SampleLinear(p0, p1, 4)
	require.Len(t, points, 5)
	for i, p := range points {
		assert.InDelta(t, float32(i), p.X, 1e-6, "sample %d", i)
		assert.Equal(t, float32(1), p.Y)
	}
	assert.Equal(t, p0, points[0])
	assert.Equal(t, p1, points[4])
}

func TestSampleLinearClampsSampleCount(t *testing.T) {
	points := SampleLinear(math.Zero, math.One, 0)
	require.Len(t, points, 2)
	assert.Equal(t, math.Zero, points[0])
	assert.Equal(t, math.One, points[1])
}

func TestBezierDefaultTangents(t *testing.T) {
	p0 := math.Vec3{X: -2, Y: 1, Z: 0}
	p1 := math.Vec3{X: 2, Y: 3, Z: -1}

	c1, c2 := DefaultBezierControls(p0, p1)
	assert.Equal(t, p0.Add(p1.Sub(p0).Scale(0.25)), c1)
	assert.Equal(t, p1.Sub(p1.Sub(p0).Scale(0.25)), c2)

	got := SampleBezierEndpoints(p0, p1, 20)
	want := SampleBezier(p0, c1, c2, p1, 20)
	require.Equal(t, want, got)

	// Deterministic across calls.
	assert.Equal(t, got, SampleBezierEndpoints(p0, p1, 20))
}

func TestBezierWithStraightControlsStaysOnChord(t *testing.T) {
	p0 := math.Vec3{X: 0, Y: 0, Z: 0}
	p1 := math.Vec3{X: 8, Y: 0, Z: 0}

	for _, p := range SampleBezierEndpoints(p0, p1, 16) {
		assert.InDelta(t, 0, p.Y, 1e-6)
		assert.InDelta(t, 0, p.Z, 1e-6)
		assert.True(t, p.X >= 0 && p.X <= 8, "x=%v outside chord", p.X)
	}
}

func TestBezierPointMidpoint(t *testing.T) {
	p0 := math.Vec3{}
	c1 := math.Vec3{X: 0, Y: 4}
	c2 := math.Vec3{X: 4, Y: 4}
	p3 := math.Vec3{X: 4}

	mid := BezierPoint(0.5, p0, c1, c2, p3)
	assert.InDelta(t, 2, mid.X, 1e-6)
	assert.InDelta(t, 3, mid.Y, 1e-6)
}

func TestSampleCatmullRomPassesThroughKnots(t *testing.T) {
	p0 := math.Vec3{X: -1, Y: 0}
	p1 := math.Vec3{X: 0, Y: 1}
	p2 := math.Vec3{X: 1, Y: 1}
	p3 := math.Vec3{X: 2, Y: 0}

	points := SampleCatmullRom(p0, p1, p2, p3, 10)
	require.Len(t, points, 11)
	assert.Equal(t, p1, points[0])
	assert.Equal(t, p2, points[10])

	// Symmetric control polygon bulges above the chord at the midpoint.
	assert.Greater(t, points[5].Y, float32(1))
}

func TestSampleCatmullRomClampedEnds(t *testing.T) {
	p1 := math.Vec3{X: 0}
	p2 := math.Vec3{X: 3}

	// Duplicated neighbours reduce the segment to a straight line.
	for _, p := range SampleCatmullRom(p1, p1, p2, p2, 8) {
		assert.InDelta(t, 0, p.Y, 1e-6)
		assert.InDelta(t, 0, p.Z, 1e-6)
	}
}
