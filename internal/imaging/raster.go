package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Kind tags which variant a Raster holds.
type Kind int

const (
	// KindGray is a single-channel 8-bit raster backed by *image.Gray.
	KindGray Kind = iota
	// KindColor is a multi-channel raster backed by *image.NRGBA.
	KindColor
)

// String returns "gray" or "color".
func (k Kind) String() string {
	if k == KindGray {
		return "gray"
	}
	return "color"
}

// MaxIntensity is the sample value used for paper white.
const MaxIntensity = 255

// Raster is a decoded page or panel.
//
// A Raster is an explicit tagged variant: exactly one of the grayscale or the
// color backing image is set, as reported by Kind. Rasters built by this
// package always have their origin at (0,0) and a tight stride, so the pixel at
// (x, y) lives at Pix[y*Stride+x*channels].
//
// Transforms in this module never mutate a Raster they receive; they return a
// fresh one. Use Clone when a private mutable copy is needed.
type Raster struct {
	kind  Kind
	gray  *image.Gray
	color *image.NRGBA
}

// Grayscale wraps a single-channel image. The image is copied when its bounds
// do not start at the origin or its stride is padded.
func Grayscale(img *image.Gray) Raster {
	return Raster{kind: KindGray, gray: normalizeGray(img)}
}

// Color wraps an NRGBA image. The image is copied when its bounds do not start
// at the origin or its stride is padded.
func Color(img *image.NRGBA) Raster {
	b := img.Bounds()
	if b.Min != (image.Point{}) || img.Stride != 4*b.Dx() {
		img = imaging.Clone(img)
	}
	return Raster{kind: KindColor, color: img}
}

// FromImage picks the variant matching img's color model.
//
// 8-bit and 16-bit gray images become KindGray (16-bit samples are truncated to
// their high byte). Every other model, including paletted and YCbCr images, is
// converted to NRGBA and becomes KindColor.
func FromImage(img image.Image) Raster {
	switch src := img.(type) {
	case *image.Gray:
		return Grayscale(src)
	case *image.Gray16:
		b := src.Bounds()
		dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dst.Pix[y*dst.Stride+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return Raster{kind: KindGray, gray: dst}
	default:
		return Raster{kind: KindColor, color: imaging.Clone(img)}
	}
}

// Kind reports the variant.
func (r Raster) Kind() Kind { return r.kind }

// Gray returns the grayscale backing image, or nil for a color raster.
func (r Raster) Gray() *image.Gray { return r.gray }

// NRGBA returns the color backing image, or nil for a grayscale raster.
func (r Raster) NRGBA() *image.NRGBA { return r.color }

// Image returns the backing image as an image.Image.
func (r Raster) Image() image.Image {
	if r.kind == KindGray {
		if r.gray == nil {
			return image.NewGray(image.Rectangle{})
		}
		return r.gray
	}
	if r.color == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	return r.color
}

// Bounds returns the raster bounds; Min is always the origin.
func (r Raster) Bounds() image.Rectangle { return r.Image().Bounds() }

// Width is the number of columns.
func (r Raster) Width() int { return r.Bounds().Dx() }

// Height is the number of rows.
func (r Raster) Height() int { return r.Bounds().Dy() }

// Area is Width*Height.
func (r Raster) Area() int { return r.Width() * r.Height() }

// Empty reports whether the raster has no pixels.
func (r Raster) Empty() bool { return r.Bounds().Empty() }

// Clone returns a deep copy.
func (r Raster) Clone() Raster {
	switch {
	case r.kind == KindGray && r.gray != nil:
		return Raster{kind: KindGray, gray: CloneGray(r.gray)}
	case r.kind == KindColor && r.color != nil:
		dst := image.NewNRGBA(r.color.Rect)
		copy(dst.Pix, r.color.Pix)
		return Raster{kind: KindColor, color: dst}
	default:
		return r
	}
}

// FirstChannel reduces a raster to its first channel.
//
// This is the luminance proxy used by panel segmentation. It is deliberately
// not a weighted grayscale conversion: a grayscale raster is copied as is and
// a color raster contributes only its first stored sample (red, in Go's RGBA
// order). The result is always a fresh image.
func FirstChannel(r Raster) *image.Gray {
	if r.kind == KindGray {
		if r.gray == nil {
			return image.NewGray(image.Rectangle{})
		}
		return CloneGray(r.gray)
	}
	if r.color == nil {
		return image.NewGray(image.Rectangle{})
	}
	b := r.color.Rect
	dst := image.NewGray(b)
	for i := 0; i < len(dst.Pix); i++ {
		dst.Pix[i] = r.color.Pix[i*4]
	}
	return dst
}

// WhitenMasked returns a copy of r in which every pixel whose mask sample is
// non-zero is forced to MaxIntensity. Color rasters get all three color
// channels set; alpha is left untouched. The mask must have r's dimensions.
func WhitenMasked(r Raster, mask *image.Gray) Raster {
	out := r.Clone()
	if !mask.Bounds().Eq(r.Bounds()) {
		return out
	}
	switch out.kind {
	case KindGray:
		for i, m := range mask.Pix {
			if m != 0 {
				out.gray.Pix[i] = MaxIntensity
			}
		}
	case KindColor:
		for i, m := range mask.Pix {
			if m != 0 {
				p := out.color.Pix[i*4 : i*4+3 : i*4+3]
				p[0], p[1], p[2] = MaxIntensity, MaxIntensity, MaxIntensity
			}
		}
	}
	return out
}

// CloneGray copies a grayscale image into a fresh origin-based image.
func CloneGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		start := (b.Min.Y+y-src.Rect.Min.Y)*src.Stride + (b.Min.X - src.Rect.Min.X)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[start:start+b.Dx()])
	}
	return dst
}

// Filled returns a w×h grayscale image with every sample set to v.
func Filled(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	if v != 0 {
		for i := range img.Pix {
			img.Pix[i] = v
		}
	}
	return img
}

func normalizeGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx() {
		return img
	}
	return CloneGray(img)
}
