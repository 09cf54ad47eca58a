package main

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/viewer"
)

// gizmoLine is one edge of the orientation cube in screen space
type gizmoLine struct {
	from, to rl.Vector2
	axis     int // 0=X, 1=Y, 2=Z, -1=none (gray)
	depth    float32
}

var cubeCorners = [8]geometry.Vector3{
	{X: -1, Y: -1, Z: -1}, // 0: back-bottom-left
	{X: 1, Y: -1, Z: -1},  // 1: back-bottom-right
	{X: 1, Y: 1, Z: -1},   // 2: back-top-right
	{X: -1, Y: 1, Z: -1},  // 3: back-top-left
	{X: -1, Y: -1, Z: 1},  // 4: front-bottom-left
	{X: 1, Y: -1, Z: 1},   // 5: front-bottom-right
	{X: 1, Y: 1, Z: 1},    // 6: front-top-right
	{X: -1, Y: 1, Z: 1},   // 7: front-top-left
}

// Edges starting at corner 4 carry the axis colors
var cubeEdges = [12]struct{ from, to, axis int }{
	{4, 5, 0}, {4, 7, 1}, {0, 4, 2},
	{5, 6, -1}, {6, 7, -1}, {0, 1, -1},
	{0, 3, -1}, {1, 2, -1}, {2, 3, -1},
	{3, 7, -1}, {1, 5, -1}, {2, 6, -1},
}

// gizmoLines projects the orientation cube around origin and returns its
// edges ordered back to front
func gizmoLines(camera *viewer.Camera, origin rl.Vector2, size float32) []gizmoLine {
	var screen [8]rl.Vector2
	var depth [8]float32
	for i, corner := range cubeCorners {
		x, y, z := camera.Orient(corner)
		screen[i] = rl.Vector2{X: origin.X + float32(x)*size, Y: origin.Y + float32(y)*size}
		depth[i] = float32(z)
	}

	lines := make([]gizmoLine, 0, len(cubeEdges))
	for _, e := range cubeEdges {
		// Larger depth is further away
		lines = append(lines, gizmoLine{
			from:  screen[e.from],
			to:    screen[e.to],
			axis:  e.axis,
			depth: max(depth[e.from], depth[e.to]),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].depth > lines[j].depth
	})
	return lines
}

// drawAxes draws the orientation cube in the top-right corner
func drawAxes(state viewer.ViewState) {
	const (
		cubeSize      = float32(30.0)
		lineThickness = float32(2.0)
		offset        = float32(20.0)
	)

	origin := rl.Vector2{
		X: float32(rl.GetScreenWidth()) - cubeSize - offset - 20,
		Y: offset + cubeSize + 20,
	}
	camera := viewer.NewCamera(state, viewer.DefaultFOV)

	for _, line := range gizmoLines(camera, origin, cubeSize) {
		switch line.axis {
		case 0:
			rl.DrawLineEx(line.from, line.to, lineThickness, rl.Red)
		case 1:
			rl.DrawLineEx(line.from, line.to, lineThickness, rl.Green)
		case 2:
			rl.DrawLineEx(line.from, line.to, lineThickness, rl.Blue)
		default:
			rl.DrawLineEx(line.from, line.to, lineThickness*0.5, rl.NewColor(90, 90, 90, 150))
		}
	}

	// Labels at the far end of each axis edge
	labels := [3]struct {
		text   string
		corner int
		color  rl.Color
	}{
		{"X", 5, rl.Red},
		{"Y", 7, rl.Green},
		{"Z", 0, rl.Blue},
	}
	for _, label := range labels {
		x, y, _ := camera.Orient(cubeCorners[label.corner])
		px := int32(origin.X + float32(x)*cubeSize*1.25)
		py := int32(origin.Y + float32(y)*cubeSize*1.25)
		rl.DrawText(label.text, px-3, py-5, 10, label.color)
	}
}
