package geometry

// BoundingBox is an axis-aligned box in float64, used where measurements
// are reported
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// BoundsFromFloat32 widens box corners as computed on mesh buffers
func BoundsFromFloat32(min, max [3]float32) BoundingBox {
	return BoundingBox{Min: FromFloat32(min), Max: FromFloat32(max)}
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}
