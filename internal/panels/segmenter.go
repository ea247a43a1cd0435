package panels

import (
	"image"

	"github.com/ironsheep/panel-extractor/internal/detection"
	"github.com/ironsheep/panel-extractor/internal/imaging"
)

const (
	// PaperCutoff separates paper from ink after blurring. Samples strictly
	// above it are paper.
	PaperCutoff = 230

	// FrameWidth is the band painted along the page edges before labelling
	// and before contour tracing.
	FrameWidth = 10
)

// SegmentBlock finds the region of the page that holds the panels and
// returns it as a binary mask (255 inside) of the page's size.
//
// The page is reduced to its first channel, blurred, and thresholded so that
// paper is 255 and ink is 0. A black frame closes off the page edges, which
// turns the paper gutter running between panels into one large connected
// region and leaves every panel interior as a hole in it. Components are
// ranked by area with the background (ink, label 0) taking part; the
// second-ranked component is taken as the block. On a typical page that is
// the gutter, since the ink of the panel art outweighs it.
//
// When the binarization yields fewer than two paper components there is
// nothing to choose between and the whole page is returned as the block.
func SegmentBlock(page imaging.Raster) *image.Gray {
	w, h := page.Width(), page.Height()

	gray := imaging.GaussianBlur5(imaging.FirstChannel(page))
	binary := imaging.Threshold(gray, PaperCutoff)
	imaging.PaintFrame(binary, FrameWidth, imaging.Background)

	labels := detection.LabelComponents(binary)
	if labels.Count()-1 < 2 {
		return imaging.Filled(w, h, imaging.Foreground)
	}

	ranked := labels.RankByArea()
	return labels.Mask(ranked[1].Label)
}
