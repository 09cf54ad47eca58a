package viewer

import (
	"math"
	"testing"
)

func TestInitialState(t *testing.T) {
	s := DefaultLimits().Initial()

	if s.Pitch != 0.5 || s.Yaw != 0.5 || s.Distance != 100 {
		t.Errorf("Initial failed: expected {0.5 0.5 100}, got %+v", s)
	}
}

func TestApplyDrag(t *testing.T) {
	l := DefaultLimits()
	s := ViewState{Pitch: 0, Yaw: 0, Distance: 10}

	s = ApplyDrag(s, 100, -40, l)
	if math.Abs(s.Yaw-0.5) > 1e-12 {
		t.Errorf("Yaw failed: expected 0.5, got %v", s.Yaw)
	}
	if math.Abs(s.Pitch+0.2) > 1e-12 {
		t.Errorf("Pitch failed: expected -0.2, got %v", s.Pitch)
	}
	if s.Distance != 10 {
		t.Errorf("Distance failed: expected 10, got %v", s.Distance)
	}
}

func TestApplyDragClampsPitch(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		name string
		dy   float64
		want float64
	}{
		{"down", 10000, math.Pi / 2},
		{"up", -10000, -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ApplyDrag(ViewState{Distance: 1}, 0, tt.dy, l)
			if s.Pitch != tt.want {
				t.Errorf("expected pitch %v, got %v", tt.want, s.Pitch)
			}
		})
	}
}

func TestApplyZoom(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		name     string
		distance float64
		delta    float64
		want     float64
	}{
		{"scroll down zooms out", 100, 120, 110},
		{"scroll up zooms in", 100, -3, 90},
		{"zero delta", 100, 0, 100},
		{"clamped at max", 9500, 1, 10000},
		{"clamped at min", 1.05, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ApplyZoom(ViewState{Pitch: 0.3, Yaw: 1, Distance: tt.distance}, tt.delta, l)
			if math.Abs(s.Distance-tt.want) > 1e-9 {
				t.Errorf("expected distance %v, got %v", tt.want, s.Distance)
			}
			if s.Pitch != 0.3 || s.Yaw != 1 {
				t.Errorf("zoom changed the angles: %+v", s)
			}
		})
	}
}

func TestReseed(t *testing.T) {
	l := DefaultLimits()
	s := ViewState{Pitch: 0.2, Yaw: -1, Distance: 5}

	if got := Reseed(s, 42, l); got.Distance != 42 || got.Pitch != 0.2 || got.Yaw != -1 {
		t.Errorf("Reseed failed: expected distance 42 with angles kept, got %+v", got)
	}
	if got := Reseed(s, 0.25, l); got.Distance != 1 {
		t.Errorf("Reseed failed: expected floor 1, got %v", got.Distance)
	}
	if got := Reseed(s, 1e9, l); got.Distance != 10000 {
		t.Errorf("Reseed failed: expected ceiling 10000, got %v", got.Distance)
	}
}

func TestEye(t *testing.T) {
	x, y, z := ViewState{Pitch: 0, Yaw: 0, Distance: 10}.Eye()
	if math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 || math.Abs(z-10) > 1e-12 {
		t.Errorf("Eye failed: expected (0, 0, 10), got (%v, %v, %v)", x, y, z)
	}

	x, y, z = ViewState{Pitch: math.Pi / 2, Yaw: 0, Distance: 10}.Eye()
	if math.Abs(x) > 1e-9 || math.Abs(y-10) > 1e-9 || math.Abs(z) > 1e-9 {
		t.Errorf("Eye failed: expected (0, 10, 0), got (%v, %v, %v)", x, y, z)
	}
}
