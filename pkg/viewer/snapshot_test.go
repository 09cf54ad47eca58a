package viewer

import (
	"image/color"
	"math"
	"testing"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

func box(size float32) *mesh.NormalizedGeometry {
	h := size / 2
	p := func(x, y, z float32) mesh.Vec3 { return mesh.Vec3{x * h, y * h, z * h} }
	quads := [][4]mesh.Vec3{
		{p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1)},
		{p(1, -1, -1), p(-1, -1, -1), p(-1, 1, -1), p(1, 1, -1)},
		{p(1, -1, 1), p(1, -1, -1), p(1, 1, -1), p(1, 1, 1)},
		{p(-1, -1, -1), p(-1, -1, 1), p(-1, 1, 1), p(-1, 1, -1)},
		{p(-1, 1, 1), p(1, 1, 1), p(1, 1, -1), p(-1, 1, -1)},
		{p(-1, -1, -1), p(1, -1, -1), p(1, -1, 1), p(-1, -1, 1)},
	}

	soup := mesh.NewSoup("box", 12)
	for _, q := range quads {
		n := mesh.FaceNormal(q[0], q[1], q[2])
		soup.AddTriangle(n, q[0], q[1], q[2])
		soup.AddTriangle(n, q[0], q[2], q[3])
	}
	return mesh.Normalize(soup)
}

func TestSnapshotEmptyRendersBackground(t *testing.T) {
	s := NewSnapshot(32, 24)
	s.Grid = nil

	img := s.Render(DefaultLimits().Initial())

	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Fatalf("expected 32x24 image, got %v", img.Bounds())
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			if got := img.RGBAAt(x, y); got != s.Background {
				t.Fatalf("pixel (%d, %d): expected background %v, got %v", x, y, s.Background, got)
			}
		}
	}
}

func TestSnapshotDrawsMesh(t *testing.T) {
	s := NewSnapshot(64, 64)
	s.Grid = nil
	g := box(20)
	s.Show(g)

	img := s.Render(ViewState{Pitch: 0.5, Yaw: 0.5, Distance: 60})

	center := img.RGBAAt(32, 32)
	if center == s.Background {
		t.Fatal("expected the mesh to cover the center pixel")
	}
	if center.B <= center.R {
		t.Errorf("expected shaded model color, got %v", center)
	}
	if corner := img.RGBAAt(0, 0); corner != s.Background {
		t.Errorf("expected background in the corner, got %v", corner)
	}
}

func TestSnapshotRelease(t *testing.T) {
	s := NewSnapshot(8, 8)
	first := box(1)
	second := box(2)

	s.Show(first)
	s.Show(second)
	s.Release(first)
	if s.Geometry() != second {
		t.Error("releasing a replaced geometry must not drop the displayed one")
	}

	s.Release(second)
	if s.Geometry() != nil {
		t.Error("expected no geometry after releasing the displayed one")
	}
}

func TestSnapshotCaption(t *testing.T) {
	s := NewSnapshot(80, 40)
	s.Grid = nil
	s.SetCaption(Caption(1, 3))

	img := s.Render(DefaultLimits().Initial())

	drawn := 0
	for y := 20; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if img.RGBAAt(x, y) == s.Label {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("expected caption pixels in the bottom left corner")
	}
}

func TestCaption(t *testing.T) {
	if got := Caption(0, 3); got != "1/3" {
		t.Errorf("Caption failed: expected 1/3, got %s", got)
	}
}

func TestSnapshotGrid(t *testing.T) {
	s := NewSnapshot(64, 64)

	img := s.Render(ViewState{Pitch: 0.5, Yaw: 0.5, Distance: 100})

	drawn := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if img.RGBAAt(x, y) == s.Grid.Color {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("expected grid lines in the image")
	}
}

func TestLightingShade(t *testing.T) {
	l := DefaultLighting()

	key := l.Shade(geometry.NewVector3(1, 1, 1).Normalize())
	if math.Abs(key-(l.Ambient+1.5)) > 1e-9 {
		t.Errorf("expected ambient + key light, got %v", key)
	}

	back := l.Shade(geometry.NewVector3(-1, -1, -1).Normalize())
	if math.Abs(back-(l.Ambient+0.5)) > 1e-9 {
		t.Errorf("expected ambient + back light, got %v", back)
	}

	side := l.Shade(geometry.NewVector3(1, -1, 0).Normalize())
	if math.Abs(side-l.Ambient) > 1e-9 {
		t.Errorf("expected only ambient for a perpendicular face, got %v", side)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#1f2937", color.RGBA{0x1f, 0x29, 0x37, 0xff}, false},
		{"6366f1", color.RGBA{0x63, 0x66, 0xf1, 0xff}, false},
		{"#11223380", color.RGBA{0x11, 0x22, 0x33, 0x80}, false},
		{"#123", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSnapshotRenderAt(t *testing.T) {
	s := NewSnapshot(10, 10)

	img := s.RenderAt(DefaultLimits().Initial(), 30, 20)
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("expected 30x20 image, got %v", img.Bounds())
	}

	img = s.RenderAt(DefaultLimits().Initial(), 0, -5)
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("expected sizes to be floored at one pixel, got %v", img.Bounds())
	}
}

func TestSnapshotSkipsFarOffscreenTriangles(t *testing.T) {
	soup := mesh.NewSoup("garbage", 3)
	n := mesh.Vec3{0, 0, 1}
	soup.AddTriangle(n, mesh.Vec3{1e21, 0, 0}, mesh.Vec3{2e21, 0, 0}, mesh.Vec3{1e21, 1, 0})
	soup.AddTriangle(n, mesh.Vec3{-2e21, 0, 0}, mesh.Vec3{-1e21, -1, 0}, mesh.Vec3{-1e21, 1, 0})
	soup.AddTriangle(n, mesh.Vec3{-3000, -3000, 0}, mesh.Vec3{3000, -3000, 0}, mesh.Vec3{0, 3000, 0})

	s := NewSnapshot(100, 100)
	s.Grid = nil
	s.Show(mesh.Normalize(soup))

	img := s.RenderAt(ViewState{Pitch: 0, Yaw: 0, Distance: 10000}, 100, 100)

	if img.RGBAAt(50, 50) == s.Background {
		t.Error("expected the on-screen triangle to still be drawn")
	}
}

func TestOnScreen(t *testing.T) {
	limit := screenLimit(100, 100)
	tests := []struct {
		x, y float64
		want bool
	}{
		{50, 50, true},
		{-limit, limit, true},
		{limit + 1, 0, false},
		{0, -1e30, false},
		{math.Inf(1), 0, false},
		{0, math.NaN(), false},
	}

	for _, tt := range tests {
		if got := onScreen(tt.x, tt.y, limit); got != tt.want {
			t.Errorf("onScreen(%v, %v): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}
