package app

import (
	"fmt"

	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/obj"
	"github.com/philipparndt/gomesh/pkg/stl"
)

// Decode selects the decoder for kind and returns the raw triangle soup
func Decode(kind Kind, data []byte) (*mesh.Soup, error) {
	switch kind {
	case KindSTL:
		return stl.Parse(data)
	case KindOBJ:
		return obj.Parse(data)
	default:
		return nil, fmt.Errorf("%w: %s", mesh.ErrUnsupportedExtension, kind)
	}
}

// Load decodes and normalizes a payload. In strict mode a soup whose vertex
// count is not a multiple of three is rejected instead of rendered with the
// trailing vertices dropped.
func Load(kind Kind, data []byte, strict bool) (*mesh.NormalizedGeometry, error) {
	soup, err := Decode(kind, data)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := soup.Validate(); err != nil {
			return nil, err
		}
	}
	return mesh.Normalize(soup), nil
}
