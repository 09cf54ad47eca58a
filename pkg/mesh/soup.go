package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vec3 is a float32 position or normal
type Vec3 = [3]float32

// Soup is an unindexed triangle list: every three consecutive vertices form
// one triangle. Positions and Normals hold x,y,z per vertex.
type Soup struct {
	Name      string
	Positions []float32
	Normals   []float32
}

// NewSoup creates an empty soup with room for the given number of triangles
func NewSoup(name string, triangles int) *Soup {
	return &Soup{
		Name:      name,
		Positions: make([]float32, 0, triangles*9),
		Normals:   make([]float32, 0, triangles*9),
	}
}

// AddVertex appends one vertex with its normal
func (s *Soup) AddVertex(position, normal Vec3) {
	s.Positions = append(s.Positions, position[0], position[1], position[2])
	s.Normals = append(s.Normals, normal[0], normal[1], normal[2])
}

// AddTriangle appends a flat-shaded triangle
func (s *Soup) AddTriangle(normal, v1, v2, v3 Vec3) {
	s.AddVertex(v1, normal)
	s.AddVertex(v2, normal)
	s.AddVertex(v3, normal)
}

// VertexCount returns the number of vertices in the soup
func (s *Soup) VertexCount() int {
	return len(s.Positions) / 3
}

// TriangleCount returns the number of complete triangles
func (s *Soup) TriangleCount() int {
	return s.VertexCount() / 3
}

// Position returns the position of vertex i
func (s *Soup) Position(i int) Vec3 {
	return Vec3{s.Positions[i*3], s.Positions[i*3+1], s.Positions[i*3+2]}
}

// Normal returns the normal of vertex i
func (s *Soup) Normal(i int) Vec3 {
	return Vec3{s.Normals[i*3], s.Normals[i*3+1], s.Normals[i*3+2]}
}

// Triangle returns the three corner positions of triangle i
func (s *Soup) Triangle(i int) [3]Vec3 {
	return [3]Vec3{s.Position(i * 3), s.Position(i*3 + 1), s.Position(i*3 + 2)}
}

// Validate checks the buffer invariants of the soup
func (s *Soup) Validate() error {
	if len(s.Positions) != len(s.Normals) {
		return fmt.Errorf("position buffer has %d floats, normal buffer has %d", len(s.Positions), len(s.Normals))
	}
	if len(s.Positions)%3 != 0 {
		return fmt.Errorf("position buffer length %d is not a multiple of 3", len(s.Positions))
	}
	if n := s.VertexCount(); n%3 != 0 {
		return fmt.Errorf("%w: %d vertices", ErrMalformedTriangleCount, n)
	}
	return nil
}

// HasNormals reports whether any normal component is non-zero
func (s *Soup) HasNormals() bool {
	for _, n := range s.Normals {
		if n != 0 {
			return true
		}
	}
	return false
}

// Box is an axis-aligned bounding box
type Box struct {
	Min, Max Vec3
	Empty    bool
}

// Bounds computes the bounding box over all finite positions. NaN
// coordinates never win a comparison and are therefore skipped.
func (s *Soup) Bounds() Box {
	box := Box{
		Min:   Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max:   Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
		Empty: true,
	}
	for i := 0; i+2 < len(s.Positions); i += 3 {
		for axis := 0; axis < 3; axis++ {
			v := s.Positions[i+axis]
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				continue
			}
			box.Empty = false
			if v < box.Min[axis] {
				box.Min[axis] = v
			}
			if v > box.Max[axis] {
				box.Max[axis] = v
			}
		}
	}
	if box.Empty {
		return Box{Empty: true}
	}
	for axis := 0; axis < 3; axis++ {
		// An axis with no finite value collapses to zero
		if box.Min[axis] > box.Max[axis] {
			box.Min[axis], box.Max[axis] = 0, 0
		}
	}
	return box
}

// Center returns the midpoint of the box
func (b Box) Center() Vec3 {
	return Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the extent of the box along each axis
func (b Box) Size() Vec3 {
	return Vec3{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}
