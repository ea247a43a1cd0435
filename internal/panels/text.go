package panels

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/panel-extractor/internal/detection"
	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// Detection is the text found in one image.
type Detection struct {
	// Label names what was detected, e.g. "text".
	Label string `json:"label"`

	// Polygons are closed outlines in image pixel coordinates.
	Polygons [][]image.Point `json:"polygons"`
}

// TextDetector finds text in a batch of images. It must return exactly one
// Detection per input image, in input order.
type TextDetector interface {
	Detect(ctx context.Context, images []imaging.Raster) ([]Detection, error)
}

// DetectorFunc adapts a function to the TextDetector interface.
type DetectorFunc func(ctx context.Context, images []imaging.Raster) ([]Detection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, images []imaging.Raster) ([]Detection, error) {
	return f(ctx, images)
}

// RemoveText erases every detected text region from each image.
//
// The detector is called once with the whole batch. The result has one
// raster per input, in input order; the inputs are not modified. Detector
// errors and detection counts that do not match the batch are reported as
// ErrTextDetector.
func RemoveText(ctx context.Context, images []imaging.Raster, detector TextDetector) ([]imaging.Raster, error) {
	if len(images) == 0 {
		return nil, nil
	}

	detections, err := detector.Detect(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTextDetector, err)
	}
	if len(detections) != len(images) {
		return nil, fmt.Errorf("%w: got %d detections for %d images", ErrTextDetector, len(detections), len(images))
	}

	out := make([]imaging.Raster, len(images))
	for i, img := range images {
		out[i] = EraseRegions(img, detections[i].Polygons)
	}
	return out, nil
}

// EraseRegions returns a copy of img with every pixel inside or on one of
// polys set to white. Alpha is preserved.
func EraseRegions(img imaging.Raster, polys [][]image.Point) imaging.Raster {
	mask := imaging.Filled(img.Width(), img.Height(), 0)
	for _, p := range polys {
		detection.FillPolygon(mask, p, imaging.Foreground)
	}
	return imaging.WhitenMasked(img, mask)
}

// HeuristicDetector finds lettering by edge density alone. It needs no OCR
// engine, at the price of also flagging busy line art now and then.
type HeuristicDetector struct {
	// MinConfidence drops regions scoring below it (0-1).
	MinConfidence float64
}

// Detect implements TextDetector.
func (d HeuristicDetector) Detect(ctx context.Context, images []imaging.Raster) ([]Detection, error) {
	out := make([]Detection, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		regions := detection.DetectTextRegions(imaging.FirstChannel(img), d.MinConfidence)
		polys := make([][]image.Point, len(regions))
		for j, r := range regions {
			polys[j] = r.Polygon()
		}
		out[i] = Detection{Label: "text", Polygons: polys}
	}
	return out, nil
}
