//go:build opencv

package opencv

import (
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ironsheep/panel-extractor/internal/detection"
	"github.com/ironsheep/panel-extractor/internal/imaging"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

// Name is the backend's registry name.
const Name = "opencv"

type backend struct{}

// Backend returns the OpenCV backend.
func Backend() panels.Backend { return backend{} }

func (backend) Name() string { return Name }

// grayMat copies img into a new single channel Mat.
func grayMat(img *image.Gray) (gocv.Mat, error) {
	src := imaging.CloneGray(img)
	return gocv.NewMatFromBytes(src.Rect.Dy(), src.Rect.Dx(), gocv.MatTypeCV8UC1, src.Pix)
}

// grayImage copies a single channel Mat out into an image.
func grayImage(m gocv.Mat) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	copy(dst.Pix, m.ToBytes())
	return dst
}

func (backend) SegmentBlock(page imaging.Raster) *image.Gray {
	w, h := page.Width(), page.Height()
	full := imaging.Filled(w, h, imaging.Foreground)
	if page.Empty() {
		return full
	}

	src, err := grayMat(imaging.FirstChannel(page))
	if err != nil {
		return panels.SegmentBlock(page)
	}
	defer src.Close()

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(src, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(blur, &thresh, panels.PaperCutoff, imaging.MaxIntensity, gocv.ThresholdBinary)

	framed := grayImage(thresh)
	imaging.PaintFrame(framed, panels.FrameWidth, imaging.Background)
	binary, err := grayMat(framed)
	if err != nil {
		return panels.SegmentBlock(page)
	}
	defer binary.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()
	n := gocv.ConnectedComponentsWithStatsWithParams(binary, &labels, &stats, &centroids,
		4, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	// Rank by area, background label included, ties by label.
	order := make([]int, n)
	areas := make([]int32, n)
	for i := range order {
		order[i] = i
		areas[i] = stats.GetIntAt(i, int(gocv.CC_STAT_AREA))
	}
	sort.SliceStable(order, func(a, b int) bool { return areas[order[a]] > areas[order[b]] })

	if n-1 < 2 {
		return full
	}
	chosen := int32(order[1])

	plane, err := labels.DataPtrInt32()
	if err != nil {
		return panels.SegmentBlock(page)
	}
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for i, l := range plane {
		if l == chosen {
			mask.Pix[i] = imaging.Foreground
		}
	}
	return mask
}

func (backend) CutPanels(page imaging.Raster, block *image.Gray, minFrac, maxFrac float64) []panels.Panel {
	if page.Empty() || !block.Bounds().Eq(page.Bounds()) {
		return nil
	}

	framed := imaging.CloneGray(block)
	imaging.PaintFrame(framed, panels.FrameWidth, imaging.Foreground)
	mask, err := grayMat(framed)
	if err != nil {
		return panels.CutPanels(page, block, minFrac, maxFrac)
	}
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	pageArea := float64(page.Area())
	minArea, maxArea := minFrac*pageArea, maxFrac*pageArea

	var found []panels.Panel
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		if area < minArea || area > maxArea {
			continue
		}

		box := gocv.BoundingRect(c)
		outside := imaging.Filled(page.Width(), page.Height(), 1)
		detection.FillPolygon(outside, c.ToPoints(), 0)

		img, err := imaging.CropMasked(page, outside, box)
		if err != nil {
			continue
		}
		found = append(found, panels.Panel{Bounds: box, Area: area, Image: img})
	}
	return found
}
