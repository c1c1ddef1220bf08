// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/beltline/pkg/math"

// PathLineVertices creates GL_LINES vertices for a polyline, format [x, y, z]
// per vertex. A closed polyline gets an extra segment back to its start.
func PathLineVertices(points []math.Vec3, closed bool) []float32 {
	if len(points) < 2 {
		return nil
	}
	segments := len(points) - 1
	if closed {
		segments++
	}

	out := make([]float32, 0, segments*6)
	for i := 0; i < segments; i++ {
		a := points[i]
		b := points[(i+1)%len(points)]
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}

// MarkerVertices creates a three-axis cross of half-size size at each point.
// Returns MarkerVertexCount vertices per point.
func MarkerVertices(points []math.Vec3, size float32) []float32 {
	out := make([]float32, 0, len(points)*MarkerVertexCount*3)
	for _, p := range points {
		out = append(out,
			p.X-size, p.Y, p.Z, p.X+size, p.Y, p.Z,
			p.X, p.Y-size, p.Z, p.X, p.Y+size, p.Z,
			p.X, p.Y, p.Z-size, p.X, p.Y, p.Z+size,
		)
	}
	return out
}

// MarkerVertexCount is the number of vertices per marker (3 axes × 2).
const MarkerVertexCount = 6

// BBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func BBoxWireframeVertices(lo, hi math.Vec3) []float32 {
	minX, minY, minZ := lo.X, lo.Y, lo.Z
	maxX, maxY, maxZ := hi.X, hi.Y, hi.Z
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24
