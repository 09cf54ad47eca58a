// Package obj decodes the geometry subset of Wavefront OBJ files into a
// triangle soup.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

// corner is one resolved face corner. normal is -1 when the corner does not
// name a normal.
type corner struct {
	vertex int
	normal int
}

// ParseFile reads an OBJ file and returns its triangle soup
func ParseFile(filename string) (*mesh.Soup, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes OBJ text held in memory
func Parse(data []byte) (*mesh.Soup, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads v, vn and f statements. Polygons are fan-triangulated from
// their first corner. Corners without a resolvable normal get a zero
// placeholder; if no corner carries a non-zero normal, smooth normals are
// computed from the geometry.
func Decode(reader io.Reader) (*mesh.Soup, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var vertices []mesh.Vec3
	var normals []mesh.Vec3
	soup := mesh.NewSoup("", 0)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			vertices = append(vertices, parseVec3(fields))

		case "vn":
			normals = append(normals, parseVec3(fields))

		case "o":
			if len(fields) > 1 && soup.Name == "" {
				soup.Name = strings.Join(fields[1:], " ")
			}

		case "f":
			face := make([]corner, 0, len(fields)-1)
			for _, token := range fields[1:] {
				c, err := parseCorner(token, len(vertices), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, c)
			}

			for i := 1; i < len(face)-1; i++ {
				for _, c := range [3]corner{face[0], face[i], face[i+1]} {
					var n mesh.Vec3
					if c.normal >= 0 {
						n = normals[c.normal]
					}
					soup.AddVertex(vertices[c.vertex], n)
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	if !soup.HasNormals() {
		mesh.ComputeVertexNormals(soup)
	}

	return soup, nil
}

// parseCorner splits a v, v/t, v//n or v/t/n token and resolves it against
// the lists declared so far. The vertex must exist; an unknown normal falls
// back to -1.
func parseCorner(token string, vertexCount, normalCount int) (corner, error) {
	parts := strings.Split(token, "/")

	v, ok := resolveIndex(parts[0], vertexCount)
	if !ok {
		return corner{}, fmt.Errorf("%w: vertex %q of %d", mesh.ErrIndexOutOfRange, parts[0], vertexCount)
	}

	c := corner{vertex: v, normal: -1}
	if len(parts) > 2 && parts[2] != "" {
		if n, ok := resolveIndex(parts[2], normalCount); ok {
			c.normal = n
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based OBJ index to 0-based. Negative indices
// count back from the end of the list.
func resolveIndex(token string, count int) (int, bool) {
	i, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, false
	}
	if i < 0 || i >= count {
		return 0, false
	}
	return i, true
}

// parseVec3 reads the three floats following the keyword; missing or
// malformed tokens become NaN
func parseVec3(fields []string) mesh.Vec3 {
	var v mesh.Vec3
	for i := range v {
		v[i] = float32(math.NaN())
		if i+1 >= len(fields) {
			continue
		}
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			continue
		}
		v[i] = float32(f)
	}
	return v
}
