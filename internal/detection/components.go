package detection

import (
	"image"
	"sort"
)

// BackgroundLabel is the component id of every zero-valued pixel.
const BackgroundLabel = 0

// Centroid is the mean pixel position of a component.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component holds the aggregate statistics of one connected component.
type Component struct {
	// Label is the component id; 0 is the background.
	Label int `json:"label"`

	// Area is the pixel count.
	Area int `json:"area"`

	// Bounds is the tight bounding box (Max exclusive). Empty for a
	// background with no pixels.
	Bounds image.Rectangle `json:"bounds"`

	// Centroid is the mean of the member pixel coordinates.
	Centroid Centroid `json:"centroid"`
}

// Labeling maps every pixel of a binary mask to a component id.
type Labeling struct {
	Width  int
	Height int

	// Labels holds one id per pixel in row-major order.
	Labels []int32

	// Components is indexed by label. Components[0] describes the background
	// (all zero-valued pixels) and is always present.
	Components []Component
}

// LabelComponents finds the 4-connected components of the non-zero pixels of
// mask and computes per-component area, bounding box and centroid.
//
// Labels are assigned in raster-scan order of each component's first pixel,
// starting at 1. Zero-valued pixels all share BackgroundLabel, regardless of
// their own connectivity.
//
// # Algorithm
//
// Each unvisited foreground pixel seeds an iterative flood fill over its
// up/down/left/right neighbours. The fill uses an explicit stack rather than
// recursion so very large components cannot overflow the goroutine stack.
func LabelComponents(mask *image.Gray) *Labeling {
	b := mask.Bounds()
	width, height := b.Dx(), b.Dy()

	l := &Labeling{
		Width:  width,
		Height: height,
		Labels: make([]int32, width*height),
	}

	fg := func(x, y int) bool {
		return mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0
	}

	// Per-label accumulators for the centroid.
	var sumX, sumY []float64
	stats := []Component{{Label: BackgroundLabel}}
	sumX = append(sumX, 0)
	sumY = append(sumY, 0)

	next := int32(1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !fg(x, y) {
				bg := &stats[BackgroundLabel]
				grow(bg, x, y)
				sumX[0] += float64(x)
				sumY[0] += float64(y)
				continue
			}
			if l.Labels[y*width+x] != 0 {
				continue
			}

			label := next
			next++
			c := Component{Label: int(label)}
			var sx, sy float64
			floodFill(l.Labels, width, height, x, y, label, fg, func(px, py int) {
				grow(&c, px, py)
				sx += float64(px)
				sy += float64(py)
			})
			stats = append(stats, c)
			sumX = append(sumX, sx)
			sumY = append(sumY, sy)
		}
	}

	for i := range stats {
		if stats[i].Area > 0 {
			stats[i].Centroid = Centroid{
				X: sumX[i] / float64(stats[i].Area),
				Y: sumY[i] / float64(stats[i].Area),
			}
		}
	}
	l.Components = stats
	return l
}

// floodFill labels the 4-connected foreground region containing (startX,
// startY) and reports every member pixel to visit.
func floodFill(labels []int32, width, height, startX, startY int, label int32, fg func(x, y int) bool, visit func(x, y int)) {
	stack := []image.Point{{X: startX, Y: startY}}
	labels[startY*width+startX] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(p.X, p.Y)

		// 4-connected neighbors
		for _, d := range [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			if labels[ny*width+nx] != 0 || !fg(nx, ny) {
				continue
			}
			labels[ny*width+nx] = label
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
}

// grow adds pixel (x, y) to a component's area and bounding box.
func grow(c *Component, x, y int) {
	if c.Area == 0 {
		c.Bounds = image.Rect(x, y, x+1, y+1)
	} else {
		c.Bounds = c.Bounds.Union(image.Rect(x, y, x+1, y+1))
	}
	c.Area++
}

// At returns the label of pixel (x, y).
func (l *Labeling) At(x, y int) int {
	return int(l.Labels[y*l.Width+x])
}

// Count is the number of labels including the background.
func (l *Labeling) Count() int {
	return len(l.Components)
}

// Mask returns a binary image that is 255 exactly where the pixel carries
// label and 0 elsewhere.
func (l *Labeling) Mask(label int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, l.Width, l.Height))
	want := int32(label)
	for i, v := range l.Labels {
		if v == want {
			mask.Pix[i] = 255
		}
	}
	return mask
}

// RankByArea returns every component, background included, ordered by area
// from largest to smallest. Equal areas keep ascending label order.
func (l *Labeling) RankByArea() []Component {
	ranked := make([]Component, len(l.Components))
	copy(ranked, l.Components)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Area > ranked[j].Area
	})
	return ranked
}
