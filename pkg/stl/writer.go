package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

// WriteBinary writes the complete triangles of soup as binary STL. The
// normal of each triangle's first vertex is stored as the face normal.
func WriteBinary(w io.Writer, soup *mesh.Soup) error {
	count := soup.TriangleCount()

	header := make([]byte, minBinarySize)
	copy(header[:headerSize], soup.Name)
	binary.LittleEndian.PutUint32(header[headerSize:], uint32(count))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]byte, recordSize)
	for i := 0; i < count; i++ {
		putVec3(record[0:], soup.Normal(i*3))
		tri := soup.Triangle(i)
		putVec3(record[12:], tri[0])
		putVec3(record[24:], tri[1])
		putVec3(record[36:], tri[2])
		if _, err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return nil
}

func putVec3(b []byte, v mesh.Vec3) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(v[2]))
}

// WriteASCII writes the complete triangles of soup as ASCII STL
func WriteASCII(w io.Writer, soup *mesh.Soup) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", soup.Name)
	for i := 0; i < soup.TriangleCount(); i++ {
		n := soup.Normal(i * 3)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n[0], n[1], n[2])
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range soup.Triangle(i) {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v[0], v[1], v[2])
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", soup.Name)

	return bw.Flush()
}
