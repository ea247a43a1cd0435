package imaging

import "image"

// gaussian5 is the 1-D kernel OpenCV derives for a 5-tap Gaussian with
// sigma left at zero. Its outer product is the 5x5 kernel
//
//	1  4  6  4  1
//	4 16 24 16  4
//	6 24 36 24  6
//	4 16 24 16  4
//	1  4  6  4  1
//
// with sum 256.
var gaussian5 = [5]int{1, 4, 6, 4, 1}

// GaussianBlur5 applies a fixed 5x5 Gaussian blur to suppress speckle noise.
//
// The kernel is applied separably, horizontal pass first, in integer
// arithmetic; the final value is rounded half up. Border pixels mirror the
// image without repeating the edge sample (gfedcb|abcdefgh|gfedcba), which
// is OpenCV's default border mode. The result is a fresh image of the same
// size.
func GaussianBlur5(src *image.Gray) *image.Gray {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return dst
	}
	src = normalizeGray(src)

	// Horizontal pass keeps the unnormalized sums (max 255*16).
	rows := make([]int, width*height)
	for y := 0; y < height; y++ {
		line := src.Pix[y*src.Stride : y*src.Stride+width]
		for x := 0; x < width; x++ {
			var sum int
			for k := -2; k <= 2; k++ {
				sum += int(line[reflect101(x+k, width)]) * gaussian5[k+2]
			}
			rows[y*width+x] = sum
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum int
			for k := -2; k <= 2; k++ {
				sum += rows[reflect101(y+k, height)*width+x] * gaussian5[k+2]
			}
			dst.Pix[y*dst.Stride+x] = uint8((sum + 128) >> 8)
		}
	}
	return dst
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring about
// the edge samples.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
