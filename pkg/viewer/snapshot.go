package viewer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Light is a directional light shining from Direction towards the origin
type Light struct {
	Direction geometry.Vector3
	Intensity float64
}

// Lighting is the fixed light rig of the scene
type Lighting struct {
	Ambient     float64
	Directional []Light
}

// DefaultLighting is a grey ambient light (0x404040 at intensity 2), a key
// light from (1,1,1) and a weaker back light from (-1,-1,-1)
func DefaultLighting() Lighting {
	return Lighting{
		Ambient: float64(0x40) / 255 * 2,
		Directional: []Light{
			{Direction: geometry.NewVector3(1, 1, 1).Normalize(), Intensity: 1.5},
			{Direction: geometry.NewVector3(-1, -1, -1).Normalize(), Intensity: 0.5},
		},
	}
}

// Shade returns the light intensity reaching a surface with the given unit
// normal
func (l Lighting) Shade(normal geometry.Vector3) float64 {
	intensity := l.Ambient
	for _, light := range l.Directional {
		if d := normal.Dot(light.Direction); d > 0 {
			intensity += d * light.Intensity
		}
	}
	return intensity
}

// Grid is a square floor grid in the XZ plane centered on the origin
type Grid struct {
	Size      float64
	Divisions int
	Color     color.RGBA
}

// Snapshot is a software renderer for normalized geometry. It holds at most
// one mesh at a time and is safe for concurrent use.
type Snapshot struct {
	Width      int
	Height     int
	FOV        float64
	Background color.RGBA
	Model      color.RGBA
	Label      color.RGBA
	Lighting   Lighting
	Grid       *Grid

	mu       sync.Mutex
	geometry *mesh.NormalizedGeometry
	caption  string
}

// NewSnapshot creates a renderer with the default colors and light rig
func NewSnapshot(width, height int) *Snapshot {
	return &Snapshot{
		Width:      width,
		Height:     height,
		FOV:        DefaultFOV,
		Background: color.RGBA{0x1f, 0x29, 0x37, 0xff},
		Model:      color.RGBA{0x63, 0x66, 0xf1, 0xff},
		Label:      color.RGBA{0x9c, 0xa3, 0xaf, 0xff},
		Lighting:   DefaultLighting(),
		Grid: &Grid{
			Size:      200,
			Divisions: 50,
			Color:     color.RGBA{0x37, 0x41, 0x51, 0xff},
		},
	}
}

// Show makes g the displayed geometry
func (s *Snapshot) Show(g *mesh.NormalizedGeometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geometry = g
}

// Release drops g if it is still displayed
func (s *Snapshot) Release(g *mesh.NormalizedGeometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.geometry == g {
		s.geometry = nil
	}
}

// Geometry returns the displayed geometry, or nil
func (s *Snapshot) Geometry() *mesh.NormalizedGeometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometry
}

// SetCaption sets the overlay text drawn in the bottom left corner
func (s *Snapshot) SetCaption(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caption = text
}

// Caption formats the file counter shown in the overlay
func Caption(index, count int) string {
	return fmt.Sprintf("%d/%d", index+1, count)
}

// Render draws the displayed geometry as seen from the view state
func (s *Snapshot) Render(state ViewState) *image.RGBA {
	return s.RenderAt(state, s.Width, s.Height)
}

// RenderAt is Render with an explicit image size
func (s *Snapshot) RenderAt(state ViewState, width, height int) *image.RGBA {
	s.mu.Lock()
	g := s.geometry
	caption := s.caption
	s.mu.Unlock()

	width, height = max(width, 1), max(height, 1)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = s.Background.R
		img.Pix[i+1] = s.Background.G
		img.Pix[i+2] = s.Background.B
		img.Pix[i+3] = s.Background.A
	}

	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	camera := NewCamera(state, s.FOV)
	if s.Grid != nil {
		s.drawGrid(img, zbuffer, camera)
	}
	if g != nil && g.Soup != nil {
		s.drawMesh(img, zbuffer, camera, g.Soup)
	}
	if caption != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(s.Label),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(8, height-8),
		}
		d.DrawString(caption)
	}

	return img
}

func (s *Snapshot) drawMesh(img *image.RGBA, zbuffer []float64, camera *Camera, soup *mesh.Soup) {
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	limit := screenLimit(w, h)
	forward := camera.Forward()

	for i := 0; i < soup.TriangleCount(); i++ {
		corners := soup.Triangle(i)

		var projected [3]screenVertex
		visible := true
		for k, corner := range corners {
			x, y, z := camera.Project(geometry.FromFloat32(corner), w, h)
			if z < camera.Near || !onScreen(x, y, limit) {
				visible = false
				break
			}
			projected[k] = screenVertex{x, y, z}
		}
		if !visible {
			continue
		}

		normal := geometry.FromFloat32(soup.Normal(i * 3)).
			Add(geometry.FromFloat32(soup.Normal(i*3 + 1))).
			Add(geometry.FromFloat32(soup.Normal(i*3 + 2)))
		if normal.Length() == 0 {
			normal = geometry.FromFloat32(mesh.FaceNormal(corners[0], corners[1], corners[2]))
		}
		normal = normal.Normalize()
		// Both sides are lit; a face turned away is shaded as seen from behind
		if normal.Dot(forward) > 0 {
			normal = normal.Mul(-1)
		}

		fillTriangleWithDepth(img, zbuffer, projected[0], projected[1], projected[2], s.shade(normal))
	}
}

func (s *Snapshot) shade(normal geometry.Vector3) color.RGBA {
	intensity := s.Lighting.Shade(normal)
	scale := func(c uint8) uint8 {
		return uint8(math.Min(255, float64(c)*intensity))
	}
	return color.RGBA{scale(s.Model.R), scale(s.Model.G), scale(s.Model.B), s.Model.A}
}

// screenLimit bounds projected coordinates handed to the rasterizer, so
// pixel indices stay far inside the int range
func screenLimit(w, h float64) float64 {
	return 4 * (w + h)
}

// onScreen reports whether a projected point is within limit on both axes.
// NaN and infinite coordinates are rejected.
func onScreen(x, y, limit float64) bool {
	return math.Abs(x) <= limit && math.Abs(y) <= limit
}

// drawGrid draws the floor grid. Lines are split into one segment per cell
// so that segments crossing the near plane can be dropped individually.
func (s *Snapshot) drawGrid(img *image.RGBA, zbuffer []float64, camera *Camera) {
	if s.Grid.Divisions <= 0 || s.Grid.Size <= 0 {
		return
	}
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	half := s.Grid.Size / 2
	step := s.Grid.Size / float64(s.Grid.Divisions)
	limit := screenLimit(w, h)

	project := func(p geometry.Vector3) (screenVertex, bool) {
		x, y, z := camera.Project(p, w, h)
		if z < camera.Near || !onScreen(x, y, limit) {
			return screenVertex{}, false
		}
		return screenVertex{x, y, z}, true
	}

	for i := 0; i <= s.Grid.Divisions; i++ {
		offset := -half + float64(i)*step
		for j := 0; j < s.Grid.Divisions; j++ {
			from := -half + float64(j)*step
			to := from + step
			segments := [2][2]geometry.Vector3{
				{geometry.NewVector3(offset, 0, from), geometry.NewVector3(offset, 0, to)},
				{geometry.NewVector3(from, 0, offset), geometry.NewVector3(to, 0, offset)},
			}
			for _, seg := range segments {
				p, ok1 := project(seg[0])
				q, ok2 := project(seg[1])
				if ok1 && ok2 {
					drawLineWithDepth(img, zbuffer, p, q, s.Grid.Color)
				}
			}
		}
	}
}

// ParseColor parses a #rrggbb or #rrggbbaa hex color
func ParseColor(text string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(text), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb", text)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", text, err)
	}
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
