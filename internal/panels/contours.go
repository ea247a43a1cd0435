package panels

import (
	"image"

	"github.com/ironsheep/panel-extractor/internal/detection"
	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// Panel is one cut-out panel.
type Panel struct {
	// Bounds is the panel's bounding box in page coordinates.
	Bounds image.Rectangle `json:"bounds"`

	// Area is the area enclosed by the panel's contour, in pixels.
	Area float64 `json:"area"`

	// Image is the page cropped to Bounds, with everything outside the
	// contour forced to white. It never shares memory with the page.
	Image imaging.Raster `json:"-"`
}

// CutPanels traces the borders of block and turns every border whose
// enclosed area lies within [minFrac, maxFrac] of the page area into a Panel.
//
// block must have the page's dimensions; anything else yields no panels. A
// white frame is painted on a copy of block first so regions touching the
// page edge are closed off. Every border is considered, outer and hole alike,
// and panels come back in the order the borders are met by a raster scan.
func CutPanels(page imaging.Raster, block *image.Gray, minFrac, maxFrac float64) []Panel {
	if page.Empty() || !block.Bounds().Eq(page.Bounds()) {
		return nil
	}

	mask := imaging.CloneGray(block)
	imaging.PaintFrame(mask, FrameWidth, imaging.Foreground)

	pageArea := float64(page.Area())
	minArea, maxArea := minFrac*pageArea, maxFrac*pageArea

	var panels []Panel
	for _, c := range detection.FindContours(mask) {
		area := detection.PolygonArea(c.Points)
		if area < minArea || area > maxArea {
			continue
		}

		box := detection.BoundingRect(c.Points)
		outside := imaging.Filled(page.Width(), page.Height(), 1)
		detection.FillPolygon(outside, c.Points, 0)

		img, err := imaging.CropMasked(page, outside, box)
		if err != nil {
			// Contours come from a mask of the page's size, so the box
			// always fits.
			continue
		}
		panels = append(panels, Panel{Bounds: box, Area: area, Image: img})
	}
	return panels
}
