package detection

import (
	"image"
	"math"
	"sort"
)

// PolygonArea returns the enclosed area of a closed polygon using the
// shoelace formula. Orientation does not matter; fewer than three vertices
// enclose nothing.
func PolygonArea(pts []image.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum int64
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		sum += int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
	}
	return math.Abs(float64(sum)) / 2
}

// BoundingRect returns the smallest rectangle containing every point, with
// Max exclusive so a single point yields a 1×1 rectangle.
func BoundingRect(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Point{X: 1, Y: 1})
	return r
}

// FillPolygon sets every pixel inside or on the closed polygon pts to value.
// Pixels are sampled at their integer coordinates; edges are always drawn so
// degenerate (zero-area) polygons still mark their outline. Pixels outside
// img's bounds are ignored.
func FillPolygon(img *image.Gray, pts []image.Point, value uint8) {
	if len(pts) == 0 {
		return
	}
	b := img.Bounds()

	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(b) {
			img.Pix[img.PixOffset(x, y)] = value
		}
	}

	n := len(pts)
	for i := 0; i < n; i++ {
		drawLine(pts[i], pts[(i+1)%n], set)
	}
	if n < 3 {
		return
	}

	r := BoundingRect(pts)
	yStart := max(r.Min.Y, b.Min.Y)
	yEnd := min(r.Max.Y, b.Max.Y)
	xs := make([]float64, 0, n)
	for y := yStart; y < yEnd; y++ {
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a, c := pts[i], pts[(i+1)%n]
			if a.Y == c.Y {
				continue
			}
			lo, hi := a, c
			if lo.Y > hi.Y {
				lo, hi = hi, lo
			}
			// Half-open in y so shared vertices are counted once.
			if y < lo.Y || y >= hi.Y {
				continue
			}
			t := float64(y-lo.Y) / float64(hi.Y-lo.Y)
			xs = append(xs, float64(lo.X)+t*float64(hi.X-lo.X))
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := max(int(math.Ceil(xs[k])), b.Min.X)
			x1 := min(int(math.Floor(xs[k+1])), b.Max.X-1)
			for x := x0; x <= x1; x++ {
				img.Pix[img.PixOffset(x, y)] = value
			}
		}
	}
}

// drawLine visits every pixel of the Bresenham segment from a to b.
func drawLine(a, b image.Point, set func(x, y int)) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	for {
		set(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
