package detection

import (
	"image"
	"math"
	"sort"
)

// TextRegion represents a detected text region
type TextRegion struct {
	Bounds     image.Rectangle `json:"bounds"`
	Confidence float64         `json:"confidence"`
}

// Polygon returns the region's corners clockwise from the top-left, with the
// right and bottom edges on the last covered pixel.
func (r TextRegion) Polygon() []image.Point {
	x0, y0 := r.Bounds.Min.X, r.Bounds.Min.Y
	x1, y1 := r.Bounds.Max.X-1, r.Bounds.Max.Y-1
	return []image.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// edgeThreshold is the intensity step between neighbours that counts as an edge.
const edgeThreshold = 30

// textWindows are the sliding window sizes tried, roughly one per lettering size.
var textWindows = []image.Point{
	{X: 100, Y: 30},
	{X: 150, Y: 40},
	{X: 200, Y: 50},
	{X: 80, Y: 25},
}

// DetectTextRegions finds regions likely to contain lettering.
// This is a heuristic-based approach that looks for areas with medium edge
// density and mostly horizontal structure, which is what rows of glyphs look
// like. Overlapping hits are merged and the result is sorted by confidence.
func DetectTextRegions(img *image.Gray, minConfidence float64) []TextRegion {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	edges := detectEdges(img)

	// Summed-area table of edge pixels for O(1) window counts.
	sat := make([]int, (width+1)*(height+1))
	for y := 0; y < height; y++ {
		row := 0
		for x := 0; x < width; x++ {
			if edges[y*width+x] {
				row++
			}
			sat[(y+1)*(width+1)+x+1] = sat[y*(width+1)+x+1] + row
		}
	}
	count := func(x, y, w, h int) int {
		s := width + 1
		return sat[(y+h)*s+x+w] - sat[y*s+x+w] - sat[(y+h)*s+x] + sat[y*s+x]
	}

	var candidates []TextRegion
	for _, ws := range textWindows {
		stepX, stepY := ws.X/2, ws.Y/2
		for y := 0; y <= height-ws.Y; y += stepY {
			for x := 0; x <= width-ws.X; x += stepX {
				density := float64(count(x, y, ws.X, ws.Y)) / float64(ws.X*ws.Y)

				// Text has medium edge density (not too sparse, not too dense)
				if density < 0.05 || density > 0.4 {
					continue
				}
				confidence := horizontalScore(edges, width, x, y, ws.X, ws.Y) * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, TextRegion{
					Bounds:     image.Rect(x, y, x+ws.X, y+ws.Y).Add(b.Min),
					Confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	return merged
}

// detectEdges marks pixels whose right or lower neighbour differs by more
// than edgeThreshold. The outermost ring is never an edge.
func detectEdges(img *image.Gray) []bool {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	edges := make([]bool, width*height)
	at := func(x, y int) int {
		return int(img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			c := at(x, y)
			if abs(c-at(x+1, y)) > edgeThreshold || abs(c-at(x, y+1)) > edgeThreshold {
				edges[y*width+x] = true
			}
		}
	}
	return edges
}

// horizontalScore is the share of edge runs that are horizontal within the window.
func horizontalScore(edges []bool, stride, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row*stride+col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row*stride+col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions combines overlapping text regions
func mergeOverlappingRegions(regions []TextRegion) []TextRegion {
	if len(regions) == 0 {
		return regions
	}

	merged := make([]TextRegion, 0)
	for _, r := range regions {
		foundMerge := false
		for i := range merged {
			if r.Bounds.Overlaps(merged[i].Bounds) {
				merged[i].Bounds = merged[i].Bounds.Union(r.Bounds)
				merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
				foundMerge = true
				break
			}
		}
		if !foundMerge {
			merged = append(merged, r)
		}
	}
	return merged
}
