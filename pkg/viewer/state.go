package viewer

import "math"

// Limits bounds the camera transitions driven by user input
type Limits struct {
	MinDistance     float64
	MaxDistance     float64
	DragSensitivity float64 // radians per pixel
	ZoomInFactor    float64 // applied when the wheel scrolls up
	ZoomOutFactor   float64 // applied when the wheel scrolls down
	InitialPitch    float64
	InitialYaw      float64
	InitialDistance float64
}

// DefaultLimits returns the limits of the browser viewer this tool replaces
func DefaultLimits() Limits {
	return Limits{
		MinDistance:     1,
		MaxDistance:     10000,
		DragSensitivity: 0.005,
		ZoomInFactor:    0.9,
		ZoomOutFactor:   1.1,
		InitialPitch:    0.5,
		InitialYaw:      0.5,
		InitialDistance: 100,
	}
}

// ViewState is the orbit camera around the origin. Pitch rotates around the
// horizontal axis and is kept within [-pi/2, pi/2]; Yaw is unbounded.
type ViewState struct {
	Pitch    float64
	Yaw      float64
	Distance float64
}

// Initial returns the view state a fresh viewer starts with
func (l Limits) Initial() ViewState {
	return ViewState{
		Pitch:    clamp(l.InitialPitch, -math.Pi/2, math.Pi/2),
		Yaw:      l.InitialYaw,
		Distance: clamp(l.InitialDistance, l.MinDistance, l.MaxDistance),
	}
}

// ApplyDrag rotates the view by a pointer movement in pixels
func ApplyDrag(s ViewState, dx, dy float64, l Limits) ViewState {
	s.Yaw += dx * l.DragSensitivity
	s.Pitch = clamp(s.Pitch+dy*l.DragSensitivity, -math.Pi/2, math.Pi/2)
	return s
}

// ApplyZoom moves the camera along its view ray. A positive wheel delta
// moves away from the model, a negative one towards it and zero leaves the
// state unchanged.
func ApplyZoom(s ViewState, delta float64, l Limits) ViewState {
	switch {
	case delta > 0:
		s.Distance *= l.ZoomOutFactor
	case delta < 0:
		s.Distance *= l.ZoomInFactor
	default:
		return s
	}
	s.Distance = clamp(s.Distance, l.MinDistance, l.MaxDistance)
	return s
}

// Reseed replaces the distance with the one a freshly loaded mesh asks for.
// The angles are kept so that browsing files keeps the orientation.
func Reseed(s ViewState, viewDistance float64, l Limits) ViewState {
	s.Distance = clamp(viewDistance, l.MinDistance, l.MaxDistance)
	return s
}

// Eye returns the camera position for the state
func (s ViewState) Eye() (x, y, z float64) {
	x = s.Distance * math.Cos(s.Pitch) * math.Sin(s.Yaw)
	y = s.Distance * math.Sin(s.Pitch)
	z = s.Distance * math.Cos(s.Pitch) * math.Cos(s.Yaw)
	return x, y, z
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
