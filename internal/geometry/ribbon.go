package geometry

import (
	"github.com/Faultbox/beltline/pkg/math"
)

// DegenerateEpsilon is the tangent/right-vector length below which a direction
// is treated as undefined and replaced by a fallback.
const DegenerateEpsilon = 1e-5

// RibbonOptions controls ribbon extrusion.
type RibbonOptions struct {
	Width     float32
	Thickness float32
	// Closed stitches the last cross-section back to the first.
	Closed bool
	// Up is the world up axis; zero means +Y.
	Up math.Vec3
}

// Cross-section vertex slots, 4 per path point.
const (
	slotTopRight = iota
	slotTopLeft
	slotBottomRight
	slotBottomLeft
	vertsPerSection
)

// BuildRibbon extrudes a rectangular cross-section of the given width and
// thickness along points. Each path point contributes 4 vertices; each pair of
// consecutive sections is joined by 4 quads (top, bottom, both walls) of two
// triangles each, wound counter-clockwise when seen from outside.
//
// Fewer than 2 points yields an empty mesh: an incomplete belt is an expected
// transient state, not an error.
func BuildRibbon(points []math.Vec3, opts RibbonOptions) *Mesh {
	n := len(points)
	if n < 2 {
		return &Mesh{}
	}

	up := opts.Up
	if up.LengthSq() < DegenerateEpsilon*DegenerateEpsilon {
		up = math.Up
	}
	up = up.Normalize()

	halfWidth := opts.Width * 0.5
	halfThickness := opts.Thickness * 0.5

	vertices := make([]Vertex, 0, n*vertsPerSection)
	bounds := emptyBounds()

	frames := sectionFrames(points, up, opts.Closed)

	vDenom := float32(n - 1)
	if opts.Closed {
		vDenom = float32(n)
	}

	for i, p := range points {
		right := frames[i]
		r := right.Scale(halfWidth)
		h := up.Scale(halfThickness)
		v := float32(i) / vDenom

		corners := [vertsPerSection]math.Vec3{
			slotTopRight:    p.Add(r).Add(h),
			slotTopLeft:     p.Sub(r).Add(h),
			slotBottomRight: p.Add(r).Sub(h),
			slotBottomLeft:  p.Sub(r).Sub(h),
		}
		us := [vertsPerSection]float32{1, 0, 1, 0}

		for s, c := range corners {
			pos := c.Array()
			updateBounds(&bounds, pos)
			vertices = append(vertices, Vertex{
				Position: pos,
				TexCoord: [2]float32{us[s], v},
			})
		}
	}

	pairs := n - 1
	if opts.Closed {
		pairs = n
	}

	indices := make([]uint32, 0, pairs*24)
	for i := 0; i < pairs; i++ {
		cur := uint32(i * vertsPerSection)
		next := uint32(((i + 1) % n) * vertsPerSection)

		// Top
		indices = appendQuad(indices, cur+slotTopRight, cur+slotTopLeft, next+slotTopRight, next+slotTopLeft)
		// Bottom
		indices = appendQuad(indices, next+slotBottomRight, next+slotBottomLeft, cur+slotBottomRight, cur+slotBottomLeft)
		// Right wall
		indices = appendQuad(indices, next+slotTopRight, next+slotBottomRight, cur+slotTopRight, cur+slotBottomRight)
		// Left wall
		indices = appendQuad(indices, cur+slotTopLeft, cur+slotBottomLeft, next+slotTopLeft, next+slotBottomLeft)
	}

	computeNormals(vertices, indices)

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   bounds,
	}
}

// sectionFrames returns the right vector for every path point.
//
// The forward tangent is the direction to the next point (to the previous one
// for the last point of an open path, to the first one for a closed path).
// When the tangent or the resulting right vector collapses, the previous valid
// value is reused, falling back to +Z forward and +X right.
func sectionFrames(points []math.Vec3, up math.Vec3, closed bool) []math.Vec3 {
	n := len(points)
	rights := make([]math.Vec3, n)

	lastTangent := math.Forward
	lastRight := math.Right
	for i := range points {
		var dir math.Vec3
		switch {
		case i < n-1:
			dir = points[i+1].Sub(points[i])
		case closed:
			dir = points[0].Sub(points[i])
		default:
			dir = points[i].Sub(points[i-1])
		}

		tangent := lastTangent
		if dir.Length() >= DegenerateEpsilon {
			tangent = dir.Normalize()
			lastTangent = tangent
		}

		right := lastRight
		if cr := up.Cross(tangent); cr.Length() >= DegenerateEpsilon {
			right = cr.Normalize()
			lastRight = right
		}
		rights[i] = right
	}
	return rights
}

// appendQuad appends two triangles (v0,v1,v2) and (v1,v3,v2).
func appendQuad(indices []uint32, v0, v1, v2, v3 uint32) []uint32 {
	return append(indices, v0, v1, v2, v1, v3, v2)
}

// computeNormals accumulates area-weighted face normals per vertex and
// normalizes them.
func computeNormals(vertices []Vertex, indices []uint32) {
	acc := make([]math.Vec3, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		p0 := toVec(vertices[i0].Position)
		p1 := toVec(vertices[i1].Position)
		p2 := toVec(vertices[i2].Position)
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(face)
		acc[i1] = acc[i1].Add(face)
		acc[i2] = acc[i2].Add(face)
	}
	for i := range vertices {
		vertices[i].Normal = acc[i].Normalize().Array()
	}
}

func toVec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
