package stl

import "encoding/binary"

const (
	headerSize = 80
	// headerSize + 4-byte triangle count
	minBinarySize = headerSize + 4
	// 12 bytes normal + 36 bytes vertices + 2 bytes attribute
	recordSize = 50
	// Counts at or above this are treated as text that happens to decode
	maxTriangleCount = 50_000_000
)

// Format is the encoding of an STL file
type Format int

const (
	FormatASCII Format = iota
	FormatBinary
)

func (f Format) String() string {
	if f == FormatBinary {
		return "binary"
	}
	return "ascii"
}

// Sniff decides whether data holds a binary or an ASCII STL file.
// Binary STL has no magic number, so the declared triangle count must be
// plausible and fit into the buffer. The count is returned for binary data.
func Sniff(data []byte) (Format, uint32) {
	if len(data) < minBinarySize {
		return FormatASCII, 0
	}

	count := binary.LittleEndian.Uint32(data[headerSize:minBinarySize])
	if count == 0 || count >= maxTriangleCount {
		return FormatASCII, 0
	}
	if expectedSize(count) > uint64(len(data)) {
		return FormatASCII, 0
	}
	return FormatBinary, count
}

// expectedSize returns the minimum size of a binary file with count triangles
func expectedSize(count uint32) uint64 {
	return minBinarySize + uint64(count)*recordSize
}
