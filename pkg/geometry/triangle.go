package geometry

// Triangle is a facet widened from a mesh soup for measuring
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a triangle. A zero normal is replaced by the normal
// derived from the winding order.
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	t := Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
	if normal.Length() == 0 {
		t.Normal = t.CalculateNormal()
	}
	return t
}

// CalculateNormal computes the unit normal from the winding order.
// Degenerate triangles yield the zero vector.
func (t Triangle) CalculateNormal() Vector3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2
}

// EdgeLengths returns the lengths of the edges V1-V2, V2-V3 and V3-V1
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}
