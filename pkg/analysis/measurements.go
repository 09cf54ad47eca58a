package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// MeasurementResult contains various measurements of a triangle soup
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	VertexCount   int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
}

// Triangles widens the complete triangles of a soup to float64 geometry.
// The normal of the first corner is used as the face normal; when it is
// zero the winding order decides.
func Triangles(soup *mesh.Soup) []geometry.Triangle {
	triangles := make([]geometry.Triangle, soup.TriangleCount())
	for i := range triangles {
		corners := soup.Triangle(i)
		triangles[i] = geometry.NewTriangle(
			geometry.FromFloat32(soup.Normal(i*3)),
			geometry.FromFloat32(corners[0]),
			geometry.FromFloat32(corners[1]),
			geometry.FromFloat32(corners[2]),
		)
	}
	return triangles
}

// AnalyzeSoup performs comprehensive analysis on a triangle soup. The
// bounding box skips non-finite coordinates like the normalizer does.
func AnalyzeSoup(soup *mesh.Soup) *MeasurementResult {
	bounds := soup.Bounds()
	result := &MeasurementResult{
		BoundingBox:   geometry.BoundsFromFloat32(bounds.Min, bounds.Max),
		TriangleCount: soup.TriangleCount(),
		VertexCount:   soup.VertexCount(),
		AllEdges:      make([]EdgeInfo, 0, soup.TriangleCount()*3),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for i, triangle := range Triangles(soup) {
		result.SurfaceArea += triangle.Area()

		corners := [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3}
		for k, length := range triangle.EdgeLengths() {
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      corners[k],
				End:        corners[(k+1)%3],
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	result.Dimensions = result.BoundingBox.Size()
	result.Volume = result.BoundingBox.Volume()

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
