package detection

import "image"

// Contour is one traced border of a binary image.
type Contour struct {
	// Points are the border vertices in tracing order. Runs of pixels that
	// continue in the same direction are collapsed to their end points.
	Points []image.Point `json:"points"`

	// Hole is true when the border separates a foreground region from a hole
	// inside it, false for the outer border of a foreground region.
	Hole bool `json:"hole"`

	// Parent is the index of the immediately enclosing contour, or -1 at the
	// top level.
	Parent int `json:"parent"`
}

// Tracing directions, counter-clockwise from east in image coordinates
// (y grows downward).
var directions = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: 0, Y: -1},  // N
	{X: -1, Y: -1}, // NW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // SW
	{X: 0, Y: 1},   // S
	{X: 1, Y: 1},   // SE
}

const (
	dirEast = 0
	dirWest = 4
)

type borderInfo struct {
	hole    bool
	contour int // index into the result, -1 for the frame
	parent  int
}

// FindContours traces every outer and hole border of the non-zero pixels of
// mask and returns them with their nesting.
//
// Foreground is 8-connected, which makes the background 4-connected. Contours
// come back in discovery order: a raster scan meets each border at its
// top-most, left-most pixel. Coordinates are relative to mask.Bounds().Min.
//
// # Algorithm
//
// Suzuki and Abe's border following. The image is copied into a signed
// label plane padded with one row/column of zeros, so borders touching the
// image edge are traced like any other. Every newly met border gets a
// sequence number NBD; the last border crossed on the current row (LNBD)
// decides the parent:
//
//	new outer, LNBD outer -> parent(LNBD)
//	new outer, LNBD hole  -> LNBD
//	new hole,  LNBD outer -> LNBD
//	new hole,  LNBD hole  -> parent(LNBD)
//
// Traced pixels are relabelled NBD (or -NBD at a right-hand edge) so no
// border is started twice.
func FindContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	pw := w + 2
	ph := h + 2
	f := make([]int32, pw*ph)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0 {
				f[(y+1)*pw+x+1] = 1
			}
		}
	}

	var offsets [8]int
	for i, d := range directions {
		offsets[i] = d.Y*pw + d.X
	}

	// borders[nbd]; 0 is unused, 1 is the padding frame.
	borders := []borderInfo{{}, {hole: true, contour: -1, parent: -1}}
	var contours []Contour
	nbd := int32(1)

	for i := 1; i < ph-1; i++ {
		lnbd := int32(1)
		for j := 1; j < pw-1; j++ {
			p := i*pw + j
			v := f[p]
			if v == 0 {
				continue
			}

			start := -1
			hole := false
			switch {
			case v == 1 && f[p-1] == 0:
				start = dirWest
			case v >= 1 && f[p+1] == 0:
				start = dirEast
				hole = true
				if v > 1 {
					lnbd = v
				}
			}

			if start >= 0 {
				nbd++
				prev := borders[lnbd]
				parent := prev.contour
				if hole == prev.hole {
					parent = prev.parent
				}
				borders = append(borders, borderInfo{hole: hole, contour: len(contours), parent: parent})

				raw := followBorder(f, offsets, p, start, nbd, pw)
				pts := make([]image.Point, len(raw))
				for k, q := range raw {
					pts[k] = image.Point{X: q%pw - 1, Y: q/pw - 1}
				}
				contours = append(contours, Contour{
					Points: simplifyChain(pts),
					Hole:   hole,
					Parent: parent,
				})
			}

			if f[p] != 1 {
				lnbd = abs32(f[p])
			}
		}
	}

	return contours
}

// followBorder traces one border starting at p, marking visited pixels with
// nbd. start is the direction of the neighbour known to be background. The
// returned offsets are in tracing order.
func followBorder(f []int32, offsets [8]int, p, start int, nbd int32, pw int) []int {
	// Clockwise search for the first non-zero neighbour.
	first := -1
	for k := 0; k < 8; k++ {
		d := (start - k + 8) % 8
		if f[p+offsets[d]] != 0 {
			first = d
			break
		}
	}
	if first < 0 {
		// Isolated pixel.
		f[p] = -nbd
		return []int{p}
	}

	p1 := p + offsets[first]
	p3 := p
	dir := first // direction from p3 to the previous border pixel
	var trace []int

	for {
		trace = append(trace, p3)

		// Counter-clockwise search starting just after the previous pixel.
		eastZero := false
		var p4, found int
		for k := 1; k <= 8; k++ {
			d := (dir + k) % 8
			q := p3 + offsets[d]
			if f[q] != 0 {
				p4, found = q, d
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		if eastZero {
			f[p3] = -nbd
		} else if f[p3] == 1 {
			f[p3] = nbd
		}

		if p4 == p && p3 == p1 {
			return trace
		}
		p3 = p4
		dir = (found + 4) % 8
	}
}

// simplifyChain keeps only the points where the tracing direction changes,
// treating the chain as closed.
func simplifyChain(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	out := make([]image.Point, 0, n)
	for k := 0; k < n; k++ {
		prev := pts[(k-1+n)%n]
		cur := pts[k]
		next := pts[(k+1)%n]
		if cur.Sub(prev) != next.Sub(cur) {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		return pts
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
