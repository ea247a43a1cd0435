package panels

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// Three 160x150 panels on a 600x200 page.
var panelRects = []image.Rectangle{
	image.Rect(30, 25, 190, 175),
	image.Rect(220, 25, 380, 175),
	image.Rect(410, 25, 570, 175),
}

// createComicPage draws a white page with the given panels filled black.
// Each panel gets a small white square in its middle, like a highlight in
// the art, so the page has more than one paper region.
// Solid panels make the ink the largest label and the gutter the second,
// so the gutter is the block; outlined panels do not (see
// TestExtractPages_OutlinedPanels).
func createComicPage(t *testing.T, rects []image.Rectangle) *image.Gray {
	t.Helper()
	page := imaging.Filled(600, 200, 255)
	for _, r := range rects {
		draw.Draw(page, r, image.NewUniform(color.Gray{Y: 0}), image.Point{}, draw.Src)
		c := r.Min.Add(image.Pt(r.Dx()/2, r.Dy()/2))
		draw.Draw(page, image.Rect(c.X-10, c.Y-10, c.X+10, c.Y+10), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	}
	return page
}

// createBorderedPage draws a white w x h page with each rect outlined in
// black, border pixels thick, leaving the panel interiors white.
func createBorderedPage(t *testing.T, w, h int, rects []image.Rectangle, border int) *image.Gray {
	t.Helper()
	page := imaging.Filled(w, h, 255)
	black := image.NewUniform(color.Gray{Y: 0})
	for _, r := range rects {
		draw.Draw(page, r, black, image.Point{}, draw.Src)
		draw.Draw(page, r.Inset(border), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	}
	return page
}

// toColor expands a gray image to NRGBA.
func toColor(src *image.Gray) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// drawText draws text on an image using basicfont
func drawText(img draw.Image, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) imaging.Raster {
	t.Helper()
	r, _, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("failed to decode panel: %v", err)
	}
	return r
}

// near reports whether every edge of got is within tol pixels of want.
func near(got, want image.Rectangle, tol int) bool {
	d := func(a, b int) bool { return a-b <= tol && b-a <= tol }
	return d(got.Min.X, want.Min.X) && d(got.Min.Y, want.Min.Y) &&
		d(got.Max.X, want.Max.X) && d(got.Max.Y, want.Max.Y)
}

// fakeDetector returns scripted detections and records every call.
type fakeDetector struct {
	mu      sync.Mutex
	calls   [][]imaging.Raster
	failFor func(call int, images []imaging.Raster) error
	polys   [][]image.Point
}

func (f *fakeDetector) Detect(_ context.Context, images []imaging.Raster) ([]Detection, error) {
	f.mu.Lock()
	call := len(f.calls)
	f.calls = append(f.calls, images)
	f.mu.Unlock()

	if f.failFor != nil {
		if err := f.failFor(call, images); err != nil {
			return nil, err
		}
	}
	out := make([]Detection, len(images))
	for i := range images {
		out[i] = Detection{Label: "text", Polygons: f.polys}
	}
	return out, nil
}

func (f *fakeDetector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
