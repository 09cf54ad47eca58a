package geometry

import (
	"math"
	"testing"
)

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(4, 5, 6)

	tests := []struct {
		name string
		got  Vector3
		want Vector3
	}{
		{"add", a.Add(b), NewVector3(5, 7, 9)},
		{"sub", b.Sub(a), NewVector3(3, 3, 3)},
		{"mul", a.Mul(-2), NewVector3(-2, -4, -6)},
		{"cross", NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)), NewVector3(0, 0, 1)},
		{"cross reversed", NewVector3(0, 1, 0).Cross(NewVector3(1, 0, 0)), NewVector3(0, 0, -1)},
		{"normalize zero", Vector3{}.Normalize(), Vector3{}},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}

	if a.Dot(b) != 32 {
		t.Errorf("Dot failed: expected 32, got %v", a.Dot(b))
	}
}

func TestVector3Lengths(t *testing.T) {
	v := NewVector3(3, 4, 0)

	if v.Length() != 5 {
		t.Errorf("Length failed: expected 5, got %v", v.Length())
	}
	if d := NewVector3(1, 1, 1).Distance(NewVector3(1, 1, 1).Add(v)); d != 5 {
		t.Errorf("Distance failed: expected 5, got %v", d)
	}
	if l := v.Normalize().Length(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Normalize failed: expected unit length, got %v", l)
	}
}

func TestVector3Float32Conversion(t *testing.T) {
	v := FromFloat32([3]float32{1.5, -2, 0.25})

	if v != NewVector3(1.5, -2, 0.25) {
		t.Errorf("FromFloat32 failed: got %v", v)
	}
	if v.Float32() != [3]float32{1.5, -2, 0.25} {
		t.Errorf("Float32 failed: got %v", v.Float32())
	}
}
