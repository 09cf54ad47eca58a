package viewer

import (
	"math"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// DefaultFOV is the vertical field of view (45 degrees)
const DefaultFOV = math.Pi / 4

// Camera is a perspective camera orbiting the origin
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // Field of view in radians
	Near     float64
}

// NewCamera places a camera according to the view state
func NewCamera(state ViewState, fov float64) *Camera {
	c := &Camera{
		FOV:  fov,
		Near: 0.1,
	}
	c.Update(state)
	return c
}

// Update moves the camera to the position described by the state
func (c *Camera) Update(state ViewState) {
	x, y, z := state.Eye()
	c.Position = geometry.NewVector3(x, y, z)
	c.Target = geometry.NewVector3(0, 0, 0)

	// The derivative of the eye position along the pitch is perpendicular to
	// the view ray and never vanishes, including straight above or below.
	c.Up = geometry.NewVector3(
		-math.Sin(state.Pitch)*math.Sin(state.Yaw),
		math.Cos(state.Pitch),
		-math.Sin(state.Pitch)*math.Cos(state.Yaw),
	)
}

// basis returns the camera axes in world space
func (c *Camera) basis() (right, up, forward geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return right, up, forward
}

// Project projects a 3D point to 2D screen coordinates. The third value is
// the depth along the view direction; points with depth below Near are
// behind the camera and should be clipped by the caller.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	right, up, forward := c.basis()

	// Transform to camera space
	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z < c.Near {
		return 0, 0, z
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Forward returns the unit view direction
func (c *Camera) Forward() geometry.Vector3 {
	_, _, forward := c.basis()
	return forward
}

// Orient expresses a world direction in screen orientation: x to the right,
// y downwards and depth along the view direction
func (c *Camera) Orient(dir geometry.Vector3) (float64, float64, float64) {
	right, up, forward := c.basis()
	return dir.Dot(right), -dir.Dot(up), dir.Dot(forward)
}
