package path

import (
	"github.com/Faultbox/beltline/internal/geometry"
	"github.com/Faultbox/beltline/pkg/math"
)

// DefaultSamples is the number of samples per segment.
const DefaultSamples = 20

// Options controls path sampling.
type Options struct {
	Mode     Mode
	Samples  int
	Topology Topology
}

// DefaultOptions returns linear, open sampling at DefaultSamples.
func DefaultOptions() Options {
	return Options{Mode: ModeLinear, Samples: DefaultSamples, Topology: Open}
}

// Path is a sampled belt path. A closed path does not repeat its first point;
// Closed marks that the last point connects back to the first.
type Path struct {
	Points []math.Vec3
	Closed bool
}

// Len returns the number of sampled points.
func (p Path) Len() int {
	return len(p.Points)
}

// Empty reports whether the path has no usable geometry.
func (p Path) Empty() bool {
	return len(p.Points) < 2
}

// Length returns the arc length of the polyline, including the closing edge.
func (p Path) Length() float32 {
	var total float32
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Distance(p.Points[i])
	}
	if p.Closed && len(p.Points) > 1 {
		total += p.Points[len(p.Points)-1].Distance(p.Points[0])
	}
	return total
}

// Build samples cfg into a path. Fewer than 2 anchors yield an empty path.
//
// Segment outputs are concatenated without their final sample so that joins
// carry a single point; the last segment of an open path keeps its end, and a
// closed path relies on Closed instead of repeating the start.
func Build(cfg Configuration, opts Options) Path {
	knots := cfg.Points()
	n := len(knots)
	if n < 2 {
		return Path{}
	}

	closed := opts.Topology == Closed
	// Two anchors form a degenerate loop that would retrace the same segment.
	if closed && n < 3 {
		closed = false
	}

	mode := opts.Mode
	if mode == ModeAuto {
		mode = ModeCatmullRom
		if n == 2 {
			mode = ModeLinear
		}
	}

	segments := n - 1
	if closed {
		segments = n
	}

	samples := opts.Samples
	if samples < 1 {
		samples = 1
	}

	points := make([]math.Vec3, 0, segments*samples+1)
	for i := 0; i < segments; i++ {
		seg := sampleSegment(knots, i, mode, samples, closed)
		last := i == segments-1
		if last && !closed {
			points = append(points, seg...)
		} else {
			points = append(points, seg[:len(seg)-1]...)
		}
	}

	return Path{Points: points, Closed: closed}
}

// sampleSegment samples the segment from knot i to its successor.
func sampleSegment(knots []math.Vec3, i int, mode Mode, samples int, closed bool) []math.Vec3 {
	n := len(knots)
	p1 := knots[i]
	p2 := knots[(i+1)%n]

	switch mode {
	case ModeBezier:
		return geometry.SampleBezierEndpoints(p1, p2, samples)
	case ModeCatmullRom:
		p0, p3 := neighbours(knots, i, closed)
		return geometry.SampleCatmullRom(p0, p1, p2, p3, samples)
	default:
		return geometry.SampleLinear(p1, p2, samples)
	}
}

// neighbours returns the knots before i and after i+1. Open paths clamp by
// repeating the boundary knot; closed paths wrap.
func neighbours(knots []math.Vec3, i int, closed bool) (before, after math.Vec3) {
	n := len(knots)
	if closed {
		return knots[(i-1+n)%n], knots[(i+2)%n]
	}

	before = knots[i]
	if i > 0 {
		before = knots[i-1]
	}
	after = knots[i+1]
	if i+2 < n {
		after = knots[i+2]
	}
	return before, after
}
