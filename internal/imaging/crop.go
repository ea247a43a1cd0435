package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop copies a rectangular region out of a raster. The result never shares
// memory with r and keeps r's Kind.
func Crop(r Raster, rect image.Rectangle) (Raster, error) {
	bounds := r.Bounds()

	// Validate coordinates
	if !rect.In(bounds) {
		return Raster{}, fmt.Errorf("crop region %v outside image bounds %v", rect, bounds)
	}
	if rect.Empty() {
		return Raster{}, fmt.Errorf("invalid crop region %v: x1 must be < x2, y1 must be < y2", rect)
	}

	if r.Kind() == KindGray {
		return Raster{kind: KindGray, gray: CropGray(r.gray, rect)}, nil
	}
	return Raster{kind: KindColor, color: imaging.Crop(r.color, rect)}, nil
}

// CropGray copies rect out of a grayscale image into a fresh origin-based
// image. rect is clipped to the source bounds.
func CropGray(src *image.Gray, rect image.Rectangle) *image.Gray {
	rect = rect.Intersect(src.Bounds())
	dst := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		start := (rect.Min.Y+y-src.Rect.Min.Y)*src.Stride + (rect.Min.X - src.Rect.Min.X)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rect.Dx()], src.Pix[start:start+rect.Dx()])
	}
	return dst
}

// CropMasked crops rect out of r and forces every pixel whose sample in
// outside (same size as r) is non-zero to MaxIntensity. It is how a panel's
// irregular border is normalized to a white surround while keeping the
// bounding-box footprint.
func CropMasked(r Raster, outside *image.Gray, rect image.Rectangle) (Raster, error) {
	if !outside.Bounds().Eq(r.Bounds()) {
		return Raster{}, fmt.Errorf("mask bounds %v do not match image bounds %v", outside.Bounds(), r.Bounds())
	}
	cropped, err := Crop(r, rect)
	if err != nil {
		return Raster{}, err
	}
	return WhitenMasked(cropped, CropGray(outside, rect)), nil
}
