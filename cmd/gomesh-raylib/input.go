package main

import (
	"fmt"
	"math"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/viewer"
)

// handleInput maps mouse and keyboard input to viewer operations
func handleInput(v *app.Viewer) {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			v.Drag(float64(delta.X), float64(delta.Y))
		}
	}

	// Wheel up moves towards the model
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.Zoom(-float64(wheel))
	}

	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyN) {
		v.Next()
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyP) {
		v.Prev()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.ReloadCurrent()
	}
}

// updateCamera places the raylib camera on the orbit of the view state
func updateCamera(camera *rl.Camera3D, state viewer.ViewState, fov float64) {
	c := viewer.NewCamera(state, fov*math.Pi/180)
	camera.Position = toRaylib(c.Position)
	camera.Target = toRaylib(c.Target)
	camera.Up = toRaylib(c.Up)
	camera.Fovy = float32(fov)
}

func toRaylib(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// statusLine keeps the last load progress for the overlay
type statusLine struct {
	mu      sync.Mutex
	loading bool
	err     error
}

func (s *statusLine) LoadStarted(index, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
}

func (s *statusLine) LoadFinished(index, count int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
}

func (s *statusLine) text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.loading:
		return "Loading..."
	case s.err != nil:
		return fmt.Sprintf("Error: %v", s.err)
	default:
		return ""
	}
}

// drawOverlay draws the file counter and load status in screen space
func drawOverlay(v *app.Viewer, status *statusLine) {
	height := int32(rl.GetScreenHeight())
	label := rl.NewColor(0x9c, 0xa3, 0xaf, 0xff)

	index, count := v.Current()
	if count > 0 {
		caption := fmt.Sprintf("%s  %s", viewer.Caption(index, count), v.Entries()[index].Name())
		rl.DrawText(caption, 10, height-30, 20, label)
	}
	if text := status.text(); text != "" {
		rl.DrawText(text, 10, 10, 20, label)
	}
}
