package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

// ParseFile reads an STL file and returns its triangle soup
func ParseFile(filename string) (*mesh.Soup, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes STL data, detecting whether it is ASCII or binary
func Parse(data []byte) (*mesh.Soup, error) {
	format, count := Sniff(data)
	if format == FormatBinary {
		return DecodeBinary(data, count)
	}
	return DecodeASCII(bytes.NewReader(data))
}

// DecodeBinary decodes count fixed-size triangle records following the
// 84-byte header. The face normal of each record is copied to its three
// vertices.
func DecodeBinary(data []byte, count uint32) (*mesh.Soup, error) {
	if need := expectedSize(count); uint64(len(data)) < need {
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, got %d", mesh.ErrTruncatedBuffer, count, need, len(data))
	}

	// Header text, if any, names the solid
	name := strings.TrimSpace(string(bytes.TrimRight(data[:headerSize], "\x00")))
	soup := mesh.NewSoup(name, int(count))

	offset := minBinarySize
	for i := uint32(0); i < count; i++ {
		normal := readVec3(data[offset:])
		v1 := readVec3(data[offset+12:])
		v2 := readVec3(data[offset+24:])
		v3 := readVec3(data[offset+36:])

		// Attribute byte count is unused
		offset += recordSize

		soup.AddTriangle(normal, v1, v2, v3)
	}

	return soup, nil
}

func readVec3(b []byte) mesh.Vec3 {
	return mesh.Vec3{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	}
}

// DecodeASCII decodes the text STL layout. Each vertex takes the normal of
// the last "facet normal" line. Structural keywords are ignored and no
// triangle completeness is enforced; unparsable numbers become NaN.
func DecodeASCII(reader io.Reader) (*mesh.Soup, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	soup := mesh.NewSoup("", 0)

	var currentNormal mesh.Vec3

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "facet normal"):
			currentNormal = parseVec3(strings.Fields(line), 2)

		case strings.HasPrefix(line, "vertex"):
			soup.AddVertex(parseVec3(strings.Fields(line), 1), currentNormal)

		case strings.HasPrefix(line, "solid"):
			if fields := strings.Fields(line); len(fields) > 1 && soup.Name == "" {
				soup.Name = strings.Join(fields[1:], " ")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return soup, nil
}

// parseVec3 reads three floats starting at fields[first]
func parseVec3(fields []string, first int) mesh.Vec3 {
	var v mesh.Vec3
	for i := range v {
		v[i] = parseFloat(fields, first+i)
	}
	return v
}

// parseFloat returns NaN for a missing or malformed token
func parseFloat(fields []string, i int) float32 {
	if i >= len(fields) {
		return float32(math.NaN())
	}
	f, err := strconv.ParseFloat(fields[i], 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return float32(math.NaN())
	}
	return float32(f)
}
