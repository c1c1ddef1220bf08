package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{3, 4, 5}
	got := a.Add(b)
	want := Vec3{4, 6, 8}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{3, 4, 0}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 12}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if z := (Vec3{}).Normalize(); z != Zero {
		t.Errorf("zero-length Normalize() = %v, want zero vector", z)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3MulComponents(t *testing.T) {
	got := Vec3{2, 3, 4}.MulComponents(Vec3{0, 1, 0.5})
	want := Vec3{0, 3, 2}
	if got != want {
		t.Errorf("Vec3.MulComponents() = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{4, -8, 2}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got, want := a.Lerp(b, 0.25), (Vec3{1, -2, 0.5}); got != want {
		t.Errorf("Lerp(0.25) = %v, want %v", got, want)
	}
}

func TestVec3Angle(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float32
	}{
		{"parallel", Right, Vec3{5, 0, 0}, 0},
		{"perpendicular", Right, Up, 90},
		{"opposite", Right, Right.Neg(), 180},
		{"zero", Right, Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Angle(tt.b)
			if absf(got-tt.want) > 0.01 {
				t.Errorf("Angle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	a := Vec3{1, 2, 3}
	if !a.ApproxEqual(Vec3{1.0005, 2, 2.9995}, 0.001) {
		t.Error("expected vectors within epsilon to be equal")
	}
	if a.ApproxEqual(Vec3{1.1, 2, 3}, 0.001) {
		t.Error("expected vectors outside epsilon to differ")
	}
}
