package geometry

import (
	"math"
	"testing"
)

func TestBoundingBox(t *testing.T) {
	box := BoundsFromFloat32([3]float32{-1, 0, 2}, [3]float32{3, 6, 4})

	if size := box.Size(); size != NewVector3(4, 6, 2) {
		t.Errorf("Size failed: expected (4, 6, 2), got %v", size)
	}
	if center := box.Center(); center != NewVector3(1, 3, 3) {
		t.Errorf("Center failed: expected (1, 3, 3), got %v", center)
	}
	if box.Volume() != 48 {
		t.Errorf("Volume failed: expected 48, got %v", box.Volume())
	}
	if math.Abs(box.Diagonal()-math.Sqrt(56)) > 1e-10 {
		t.Errorf("Diagonal failed: expected %v, got %v", math.Sqrt(56), box.Diagonal())
	}
}

func TestBoundingBoxZero(t *testing.T) {
	var box BoundingBox

	if box.Size() != (Vector3{}) || box.Volume() != 0 || box.Diagonal() != 0 {
		t.Errorf("expected a zero box to measure zero, got size %v", box.Size())
	}
}
