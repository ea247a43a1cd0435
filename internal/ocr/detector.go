package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/panel-extractor/internal/imaging"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

// DefaultLanguage is the Tesseract language used when Options.Language is
// empty.
const DefaultLanguage = "eng"

// ErrClosed is returned by a Detector after Close.
var ErrClosed = errors.New("ocr: detector is closed")

// Options configures a Detector.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "eng+jpn".
	Language string

	// TessdataPrefix points at the directory holding *.traineddata. Empty
	// means Tesseract's compiled-in default (or TESSDATA_PREFIX).
	TessdataPrefix string

	// MinConfidence drops words Tesseract is less sure of (0-1).
	MinConfidence float64
}

// Word is one recognised word.
type Word struct {
	// Text is the recognised word.
	Text string `json:"text"`

	// Confidence is Tesseract's confidence, scaled to 0-1.
	Confidence float64 `json:"confidence"`

	// Bounds is the word's bounding box in image pixels.
	Bounds image.Rectangle `json:"bounds"`
}

// Detector finds lettering with Tesseract. It implements
// panels.TextDetector.
//
// A Detector owns one Tesseract handle and serialises calls on it, so it is
// safe for concurrent use. Close it when done.
type Detector struct {
	opts Options

	mu     sync.Mutex
	client *gosseract.Client
}

// NewDetector starts a Tesseract client with the given options.
//
// Parameters:
//   - opts: Language, training data location and confidence cut-off.
//
// Returns:
//   - *Detector: Ready for Detect and Words.
//   - error: Non-nil if the language or tessdata path is rejected.
//
// Sparse-text page segmentation is used since lettering on a comic page is
// scattered in balloons rather than laid out in columns.
func NewDetector(opts Options) (*Detector, error) {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.MinConfidence < 0 || opts.MinConfidence > 1 {
		return nil, fmt.Errorf("ocr: min confidence %v outside [0, 1]", opts.MinConfidence)
	}

	client := gosseract.NewClient()
	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(opts.Language, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &Detector{opts: opts, client: client}, nil
}

// Options returns the options the detector was built with.
func (d *Detector) Options() Options { return d.opts }

// Words runs OCR on one image and returns every non-empty word at or above
// the confidence cut-off.
func (d *Detector) Words(ctx context.Context, img imaging.Raster) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img.Empty() {
		return []Word{}, nil
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client == nil {
		return nil, ErrClosed
	}

	if err := d.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := d.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get bounding boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		confidence := float64(box.Confidence) / 100.0
		if text == "" || confidence < d.opts.MinConfidence {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Confidence: confidence,
			Bounds:     box.Box.Intersect(img.Bounds()),
		})
	}
	return words, nil
}

// Detect implements panels.TextDetector. Each word becomes one rectangular
// polygon; the batch is processed in order on the shared handle.
func (d *Detector) Detect(ctx context.Context, images []imaging.Raster) ([]panels.Detection, error) {
	out := make([]panels.Detection, len(images))
	for i, img := range images {
		words, err := d.Words(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		polys := make([][]image.Point, 0, len(words))
		for _, w := range words {
			if w.Bounds.Empty() {
				continue
			}
			polys = append(polys, boxPolygon(w.Bounds))
		}
		out[i] = panels.Detection{Label: "text", Polygons: polys}
	}
	return out, nil
}

// Close releases the Tesseract handle. Further calls fail with ErrClosed.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// boxPolygon turns a half-open rectangle into its four inclusive corners.
func boxPolygon(r image.Rectangle) []image.Point {
	return []image.Point{
		r.Min,
		{r.Max.X - 1, r.Min.Y},
		{r.Max.X - 1, r.Max.Y - 1},
		{r.Min.X, r.Max.Y - 1},
	}
}

// Info describes the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Probe reports whether Tesseract can be started with opts. gosseract loads
// the language data lazily, so a blank image is recognised to force it.
func Probe(opts Options) Info {
	d, err := NewDetector(opts)
	if err != nil {
		return Info{Available: false, Error: err.Error()}
	}
	defer d.Close()

	blank := imaging.Grayscale(imaging.Filled(32, 32, imaging.MaxIntensity))
	if _, err := d.Words(context.Background(), blank); err != nil {
		return Info{Available: false, Language: d.opts.Language, Error: err.Error()}
	}

	d.mu.Lock()
	version := d.client.Version()
	d.mu.Unlock()
	return Info{Available: true, Version: version, Language: d.opts.Language}
}
