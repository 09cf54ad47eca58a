package mesh

import "errors"

// Decoding errors. Numeric parse failures are not errors; they yield NaN.
var (
	ErrTruncatedBuffer        = errors.New("truncated buffer")
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrUnsupportedExtension   = errors.New("unsupported extension")
	ErrMalformedTriangleCount = errors.New("vertex count is not a multiple of 3")
)
