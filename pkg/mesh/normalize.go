package mesh

import "github.com/chewxy/math32"

// MinViewDistance is the viewing distance used for empty or flat meshes
const MinViewDistance float32 = 1

// NormalizedGeometry is a soup centered at the origin together with the
// distance a camera should keep to see all of it.
type NormalizedGeometry struct {
	*Soup
	Center       Vec3 // Offset removed from every position
	Extent       Vec3 // Bounding box size
	ViewDistance float32
}

// Normalize centers the soup on its bounding box and derives the view
// distance. The soup is translated in place and owned by the result.
func Normalize(soup *Soup) *NormalizedGeometry {
	if soup == nil {
		soup = NewSoup("", 0)
	}

	geom := &NormalizedGeometry{Soup: soup, ViewDistance: MinViewDistance}

	box := soup.Bounds()
	if box.Empty {
		return geom
	}

	center := box.Center()
	for i := 0; i+2 < len(soup.Positions); i += 3 {
		soup.Positions[i] -= center[0]
		soup.Positions[i+1] -= center[1]
		soup.Positions[i+2] -= center[2]
	}

	geom.Center = center
	geom.Extent = box.Size()
	geom.ViewDistance = viewDistance(geom.Extent)
	return geom
}

// viewDistance is twice the largest extent, floored at MinViewDistance
func viewDistance(extent Vec3) float32 {
	d := math32.Max(extent[0], math32.Max(extent[1], extent[2])) * 2
	if !(d >= MinViewDistance) {
		return MinViewDistance
	}
	return d
}
