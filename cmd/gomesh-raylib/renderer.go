package main

import (
	"image/color"
	"math"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/viewer"
)

// gpuRenderer receives geometry from the viewer's load goroutines and hands
// it to the render loop, which owns every GPU call
type gpuRenderer struct {
	lighting viewer.Lighting
	color    color.RGBA

	mu      sync.Mutex
	pending *mesh.NormalizedGeometry
	dirty   bool

	// Owned by the render loop
	mesh     rl.Mesh
	material rl.Material
	loaded   bool
	buffers  vertexData
	wire     [][2]mesh.Vec3
}

func newGPURenderer(lighting viewer.Lighting, col color.RGBA) *gpuRenderer {
	return &gpuRenderer{lighting: lighting, color: col}
}

// Show queues g for upload on the next frame
func (r *gpuRenderer) Show(g *mesh.NormalizedGeometry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = g
	r.dirty = true
}

// Release queues the unload of g if it is still the geometry to display
func (r *gpuRenderer) Release(g *mesh.NormalizedGeometry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == g {
		r.pending = nil
		r.dirty = true
	}
}

// sync uploads or unloads the queued geometry. Must be called on the main
// thread between frames.
func (r *gpuRenderer) sync() {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return
	}
	g := r.pending
	r.dirty = false
	r.mu.Unlock()

	r.unload()
	if g == nil || g.TriangleCount() == 0 {
		return
	}

	r.buffers = bakeVertexData(g.Soup, r.lighting, r.color)
	r.mesh = r.buffers.mesh()
	rl.UploadMesh(&r.mesh, false)
	r.wire = wireEdges(g.Soup)
	r.loaded = true
}

// setup loads the material. Vertex colors are baked into the mesh, so the
// default material is enough. Must be called after the window exists.
func (r *gpuRenderer) setup() {
	r.material = rl.LoadMaterialDefault()
}

func (r *gpuRenderer) draw() {
	if r.loaded {
		rl.DrawMesh(r.mesh, r.material, rl.MatrixIdentity())
	}
}

// drawWireframe draws every distinct triangle edge as a thin line
func (r *gpuRenderer) drawWireframe() {
	if !r.loaded {
		return
	}
	wireframeColor := rl.NewColor(100, 100, 100, 200)
	for _, e := range r.wire {
		rl.DrawLine3D(
			rl.Vector3{X: e[0][0], Y: e[0][1], Z: e[0][2]},
			rl.Vector3{X: e[1][0], Y: e[1][1], Z: e[1][2]},
			wireframeColor)
	}
}

func (r *gpuRenderer) unload() {
	if r.loaded {
		rl.UnloadMesh(&r.mesh)
		r.loaded = false
		r.buffers = vertexData{}
		r.wire = nil
	}
}

// wireEdges returns the distinct edges of the complete triangles. Shared
// edges are listed once regardless of their winding.
func wireEdges(soup *mesh.Soup) [][2]mesh.Vec3 {
	seen := make(map[[2]mesh.Vec3]struct{}, soup.TriangleCount()*3)
	var edges [][2]mesh.Vec3
	for i := 0; i < soup.TriangleCount(); i++ {
		c := soup.Triangle(i)
		for _, e := range [3][2]mesh.Vec3{{c[0], c[1]}, {c[1], c[2]}, {c[2], c[0]}} {
			if less(e[1], e[0]) {
				e[0], e[1] = e[1], e[0]
			}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

func less(a, b mesh.Vec3) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// vertexData holds the CPU side arrays of a raylib mesh
type vertexData struct {
	vertices  []float32
	normals   []float32
	texcoords []float32
	colors    []uint8
}

// bakeVertexData expands the complete triangles of a soup into raylib
// vertex arrays with the light rig baked into the vertex colors
func bakeVertexData(soup *mesh.Soup, lighting viewer.Lighting, col color.RGBA) vertexData {
	vertexCount := soup.TriangleCount() * 3
	d := vertexData{
		vertices:  make([]float32, 0, vertexCount*3),
		normals:   make([]float32, 0, vertexCount*3),
		texcoords: make([]float32, vertexCount*2),
		colors:    make([]uint8, 0, vertexCount*4),
	}

	scale := func(c uint8, intensity float64) uint8 {
		return uint8(math.Min(255, float64(c)*intensity))
	}

	for i := 0; i < soup.TriangleCount(); i++ {
		corners := soup.Triangle(i)
		face := mesh.FaceNormal(corners[0], corners[1], corners[2])

		for k, corner := range corners {
			normal := soup.Normal(i*3 + k)
			if normal == (mesh.Vec3{}) {
				normal = face
			}
			intensity := lighting.Shade(geometry.FromFloat32(normal).Normalize())

			d.vertices = append(d.vertices, corner[0], corner[1], corner[2])
			d.normals = append(d.normals, normal[0], normal[1], normal[2])
			d.colors = append(d.colors,
				scale(col.R, intensity),
				scale(col.G, intensity),
				scale(col.B, intensity),
				col.A)
		}
	}
	return d
}

func (d vertexData) mesh() rl.Mesh {
	m := rl.Mesh{
		VertexCount:   int32(len(d.vertices) / 3),
		TriangleCount: int32(len(d.vertices) / 9),
	}
	if len(d.vertices) > 0 {
		m.Vertices = &d.vertices[0]
		m.Normals = &d.normals[0]
		m.Texcoords = &d.texcoords[0]
		m.Colors = &d.colors[0]
	}
	return m
}
