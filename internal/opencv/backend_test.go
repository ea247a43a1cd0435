//go:build opencv

package opencv

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
	"testing"

	"github.com/ironsheep/panel-extractor/internal/imaging"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

var panelRects = []image.Rectangle{
	image.Rect(30, 25, 190, 175),
	image.Rect(220, 25, 380, 175),
	image.Rect(410, 25, 570, 175),
}

// createComicPage draws black panels with a white highlight on white paper.
func createComicPage(t *testing.T) imaging.Raster {
	t.Helper()
	img := imaging.Filled(600, 200, 255)
	for _, r := range panelRects {
		draw.Draw(img, r, image.NewUniform(color.Gray{}), image.Point{}, draw.Src)
		c := r.Min.Add(image.Pt(r.Dx()/2, r.Dy()/2))
		draw.Draw(img, image.Rect(c.X-10, c.Y-10, c.X+10, c.Y+10), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	}
	return imaging.Grayscale(img)
}

func sortedBounds(ps []panels.Panel) []image.Rectangle {
	out := make([]image.Rectangle, len(ps))
	for i, p := range ps {
		out[i] = p.Bounds
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Min.X < out[b].Min.X })
	return out
}

func TestBackend_Name(t *testing.T) {
	if got := Backend().Name(); got != Name {
		t.Errorf("Name: got %q, want %q", got, Name)
	}
}

func TestSegmentBlock_MatchesNative(t *testing.T) {
	page := createComicPage(t)

	got := Backend().SegmentBlock(page)
	want := panels.SegmentBlock(page)

	if !got.Bounds().Eq(want.Bounds()) {
		t.Fatalf("bounds %v, want %v", got.Bounds(), want.Bounds())
	}
	diff := 0
	for i := range got.Pix {
		if got.Pix[i] != want.Pix[i] {
			diff++
		}
	}
	// Blur rounding may differ at a handful of edge pixels.
	if diff > len(got.Pix)/1000 {
		t.Errorf("%d of %d mask samples differ from the native backend", diff, len(got.Pix))
	}
}

func TestSegmentBlock_BlankPage(t *testing.T) {
	page := imaging.Grayscale(imaging.Filled(120, 80, 255))

	mask := Backend().SegmentBlock(page)

	for i, v := range mask.Pix {
		if v != 255 {
			t.Fatalf("sample %d: got %d, want the full-page mask", i, v)
		}
	}
}

func TestCutPanels_ThreePanels(t *testing.T) {
	page := createComicPage(t)
	b := Backend()

	got := sortedBounds(b.CutPanels(page, b.SegmentBlock(page), 0.02, 0.9))

	if len(got) != len(panelRects) {
		t.Fatalf("Expected %d panels, got %d", len(panelRects), len(got))
	}
	for i, r := range got {
		d := r.Min.Sub(panelRects[i].Min)
		e := r.Max.Sub(panelRects[i].Max)
		if abs(d.X) > 3 || abs(d.Y) > 3 || abs(e.X) > 3 || abs(e.Y) > 3 {
			t.Errorf("panel %d bounds %v, want about %v", i, r, panelRects[i])
		}
	}
}

func TestCutPanels_MaskMismatch(t *testing.T) {
	page := imaging.Grayscale(imaging.Filled(100, 100, 255))

	if ps := Backend().CutPanels(page, imaging.Filled(50, 50, 255), 0, 1); ps != nil {
		t.Errorf("mismatched mask should give nil, got %d panels", len(ps))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
