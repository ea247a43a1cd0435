package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
)

// HistogramBins is the number of intensity buckets, one per 8-bit value.
const HistogramBins = 256

// IntensityHistogram counts every intensity sample of a raster.
//
// A grayscale raster contributes one sample per pixel. A color raster
// contributes its three color channels per pixel, the way a flattened H×W×3
// sample array would; alpha is not an intensity and is not counted.
type IntensityHistogram struct {
	Bins  [HistogramBins]int
	Total int
}

// Histogram builds the intensity histogram of r.
func Histogram(r Raster) IntensityHistogram {
	var h IntensityHistogram
	if r.Empty() {
		return h
	}

	if r.Kind() == KindGray {
		// Gray expands to R=G=B, so one channel is the whole story.
		rgba := histogram.NewRGBAHistogram(r.Gray())
		copy(h.Bins[:], rgba.R.Bins)
	} else {
		rgba := histogram.NewRGBAHistogram(opaque(r.NRGBA()))
		for i := 0; i < HistogramBins && i < len(rgba.R.Bins); i++ {
			h.Bins[i] = rgba.R.Bins[i] + rgba.G.Bins[i] + rgba.B.Bins[i]
		}
	}
	for _, n := range h.Bins {
		h.Total += n
	}
	return h
}

// BandRatio returns the fraction of samples whose value lies in [lo, hi).
// An empty histogram yields 0.
func (h IntensityHistogram) BandRatio(lo, hi int) float64 {
	if h.Total == 0 {
		return 0
	}
	if lo < 0 {
		lo = 0
	}
	if hi > HistogramBins {
		hi = HistogramBins
	}
	var band int
	for v := lo; v < hi; v++ {
		band += h.Bins[v]
	}
	return float64(band) / float64(h.Total)
}

// opaque returns a copy of img with every alpha sample set to 255. The
// histogram converts to premultiplied RGBA, which would otherwise darken the
// color samples of translucent pixels.
func opaque(img *image.NRGBA) *image.NRGBA {
	dst := &image.NRGBA{
		Pix:    append([]uint8(nil), img.Pix...),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
