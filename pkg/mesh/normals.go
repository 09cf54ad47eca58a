package mesh

import "github.com/chewxy/math32"

// ComputeVertexNormals replaces the soup's normals with smooth vertex
// normals. Unit face normals are weighted by the corner angle and
// accumulated for every vertex sharing the exact same position, then
// normalized. Vertices of degenerate triangles that share no position with a
// proper face keep a zero normal.
func ComputeVertexNormals(s *Soup) {
	triangles := s.TriangleCount()
	if len(s.Normals) != len(s.Positions) {
		s.Normals = make([]float32, len(s.Positions))
	}

	sums := make(map[Vec3]Vec3, triangles*3)
	for t := 0; t < triangles; t++ {
		tri := s.Triangle(t)
		face := FaceNormal(tri[0], tri[1], tri[2])
		for corner, p := range tri {
			w := cornerAngle(p, tri[(corner+1)%3], tri[(corner+2)%3])
			acc := sums[p]
			sums[p] = Vec3{acc[0] + face[0]*w, acc[1] + face[1]*w, acc[2] + face[2]*w}
		}
	}

	for t := 0; t < triangles; t++ {
		for corner := 0; corner < 3; corner++ {
			v := t*3 + corner
			n := normalize(sums[s.Position(v)])
			s.Normals[v*3] = n[0]
			s.Normals[v*3+1] = n[1]
			s.Normals[v*3+2] = n[2]
		}
	}

	// Trailing vertices that do not complete a triangle get no normal
	for i := triangles * 9; i < len(s.Normals); i++ {
		s.Normals[i] = 0
	}
}

// FaceNormal returns the unit normal of a counter-clockwise triangle
func FaceNormal(a, b, c Vec3) Vec3 {
	return normalize(faceNormal(a, b, c))
}

// faceNormal is the unnormalized cross product (b-a)x(c-a), whose length is
// twice the triangle area.
func faceNormal(a, b, c Vec3) Vec3 {
	e1 := Vec3{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := Vec3{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	return Vec3{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
}

// cornerAngle is the interior angle at p between the edges to a and b
func cornerAngle(p, a, b Vec3) float32 {
	e1 := normalize(Vec3{a[0] - p[0], a[1] - p[1], a[2] - p[2]})
	e2 := normalize(Vec3{b[0] - p[0], b[1] - p[1], b[2] - p[2]})
	dot := e1[0]*e2[0] + e1[1]*e2[1] + e1[2]*e2[2]
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math32.Acos(dot)
}

func normalize(v Vec3) Vec3 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length == 0 || math32.IsNaN(length) {
		return Vec3{}
	}
	return Vec3{v[0] / length, v[1] / length, v[2] / length}
}
