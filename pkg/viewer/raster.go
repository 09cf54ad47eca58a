package viewer

import (
	"image"
	"image/color"
	"math"
)

// screenVertex is a projected vertex: pixel coordinates plus view depth
type screenVertex struct {
	x, y, z float64
}

// fillTriangleWithDepth fills a triangle with depth testing
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, a, b, c screenVertex, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}

	bounds := img.Bounds()
	width := bounds.Dx()

	// intersect returns the point where the scanline crosses edge p-q
	intersect := func(p, q screenVertex, fy float64) (float64, float64, bool) {
		if p.y == q.y || fy < p.y || fy > q.y {
			return 0, 0, false
		}
		t := (fy - p.y) / (q.y - p.y)
		return p.x + t*(q.x-p.x), p.z + t*(q.z-p.z), true
	}

	yStart := int(math.Max(0, math.Ceil(a.y)))
	yEnd := int(math.Min(float64(bounds.Dy()-1), c.y))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		var xs, zs [2]float64
		found := 0
		for _, edge := range [3][2]screenVertex{{a, c}, {a, b}, {b, c}} {
			if found == 2 {
				break
			}
			if x, z, ok := intersect(edge[0], edge[1], fy); ok {
				xs[found], zs[found] = x, z
				found++
			}
		}
		if found < 2 {
			continue
		}

		xStart, xEnd := xs[0], xs[1]
		zStart, zEnd := zs[0], zs[1]
		if xStart > xEnd {
			xStart, xEnd = xEnd, xStart
			zStart, zEnd = zEnd, zStart
		}

		// Clamp to image bounds
		xFrom := int(math.Max(0, math.Ceil(xStart)))
		xTo := int(math.Min(float64(width-1), xEnd))

		for x := xFrom; x <= xTo; x++ {
			t := 0.0
			if xEnd != xStart {
				t = (float64(x) - xStart) / (xEnd - xStart)
			}
			z := zStart + t*(zEnd-zStart)

			// Depth test - draw if closer (smaller z)
			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, col)
			}
		}
	}
}

// drawLineWithDepth draws a line using Bresenham's algorithm, interpolating
// depth along the major axis
func drawLineWithDepth(img *image.RGBA, zbuffer []float64, p, q screenVertex, col color.RGBA) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	x1, y1 := int(math.Round(p.x)), int(math.Round(p.y))
	x2, y2 := int(math.Round(q.x)), int(math.Round(q.y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for step := 0; ; step++ {
		if x1 >= 0 && x1 < width && y1 >= 0 && y1 < height {
			z := p.z
			if steps > 0 {
				z += (q.z - p.z) * float64(step) / float64(steps)
			}
			idx := y1*width + x1
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(bounds.Min.X+x1, bounds.Min.Y+y1, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
