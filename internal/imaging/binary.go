package imaging

import "image"

// Foreground and Background are the only two values a binary mask holds.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// Threshold binarizes src: samples strictly above cutoff become Foreground,
// everything else Background. The result is a fresh image.
func Threshold(src *image.Gray, cutoff uint8) *image.Gray {
	src = normalizeGray(src)
	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		if v > cutoff {
			dst.Pix[i] = Foreground
		}
	}
	return dst
}

// PaintFrame overwrites a band of the given width along all four edges of img
// with value. It mutates img; callers pass images they own. Widths larger than
// half the image simply cover it.
func PaintFrame(img *image.Gray, width int, value uint8) {
	b := img.Bounds()
	if width <= 0 || b.Empty() {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()]
		if y-b.Min.Y < width || b.Max.Y-y <= width {
			for x := range row {
				row[x] = value
			}
			continue
		}
		for x := 0; x < width && x < len(row); x++ {
			row[x] = value
			row[len(row)-1-x] = value
		}
	}
}

// IsBinary reports whether every sample of img is Background or Foreground.
func IsBinary(img *image.Gray) bool {
	for _, v := range img.Pix {
		if v != Background && v != Foreground {
			return false
		}
	}
	return true
}
