package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/beltline/pkg/math"
)

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 1, Y: 5, Z: 2}, Direction: math.Vec3{Y: -1}}
	p, ok := r.IntersectPlaneY(1)
	if !ok {
		t.Fatal("expected hit")
	}
	if p != (math.Vec3{X: 1, Y: 1, Z: 2}) {
		t.Errorf("got %v", p)
	}

	if _, ok := r.IntersectPlaneY(10); ok {
		t.Error("plane behind the ray must miss")
	}

	flat := Ray{Origin: math.Vec3{Y: 1}, Direction: math.Vec3{X: 1}}
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray must miss")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := Cube(math.Vec3{X: 5}, 0.5)
	r := Ray{Origin: math.Zero, Direction: math.Vec3{X: 1}}

	tHit, ok := r.IntersectAABB(box)
	if !ok || gomath.Abs(float64(tHit-4.5)) > 1e-5 {
		t.Errorf("expected hit at 4.5, got %v %v", tHit, ok)
	}

	inside := Ray{Origin: math.Vec3{X: 5}, Direction: math.Vec3{X: 1}}
	if tHit, ok := inside.IntersectAABB(box); !ok || gomath.Abs(float64(tHit-0.5)) > 1e-5 {
		t.Errorf("inside ray should report exit at 0.5, got %v %v", tHit, ok)
	}

	miss := Ray{Origin: math.Vec3{Y: 2}, Direction: math.Vec3{X: 1}}
	if _, ok := miss.IntersectAABB(box); ok {
		t.Error("offset ray must miss")
	}
}

func TestNearest(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}
	points := []math.Vec3{{X: 3}, {Z: -2}, {Z: 2}}

	if got := r.Nearest(points, 0.25); got != 2 {
		t.Errorf("expected the closer marker (2), got %d", got)
	}
	if got := r.Nearest([]math.Vec3{{X: 3}}, 0.25); got != -1 {
		t.Errorf("expected no hit, got %d", got)
	}
}

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{Y: 2, Z: 10}
	view := math.LookAt(eye, math.Vec3{Y: 2}, math.Up)
	proj := math.Perspective(float32(gomath.Pi/4), 1, 0.5, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 400, 800, 800, inv)
	if !r.Direction.ApproxEqual(math.Vec3{Z: -1}, 1e-3) {
		t.Errorf("center ray should look down -Z, got %v", r.Direction)
	}
	if gomath.Abs(float64(r.Origin.Y-2)) > 1e-3 {
		t.Errorf("center ray should start at eye height, got %v", r.Origin)
	}
}
