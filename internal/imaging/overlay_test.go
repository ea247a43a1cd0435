package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestAnnotate_NoBoxes(t *testing.T) {
	page := Color(createColorImage(20, 20, color.NRGBA{255, 255, 255, 255}))

	out := Annotate(page, nil, 2)

	if !out.Bounds().Eq(page.Bounds()) {
		t.Fatalf("Bounds: got %v, want %v", out.Bounds(), page.Bounds())
	}
	for i, v := range out.Pix {
		if v != 255 {
			t.Fatalf("sample %d changed without boxes", i)
		}
	}
}

func TestAnnotate_DrawsOutline(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	page := Grayscale(createGrayImage(100, 60, 255))
	boxes := []image.Rectangle{image.Rect(10, 10, 40, 50), image.Rect(60, 10, 90, 50)}

	out := Annotate(page, boxes, 2)

	for i, b := range boxes {
		// bottom-left corner of the outline, clear of the index label
		if got := out.NRGBAAt(b.Min.X, b.Max.Y-1); got == white {
			t.Errorf("box %d outline not drawn", i)
		}
		if got := out.NRGBAAt(b.Min.X+15, b.Min.Y+20); got != white {
			t.Errorf("box %d interior should stay white, got %v", i, got)
		}
	}
	if page.Gray().Pix[10*100+10] != 255 {
		t.Error("Annotate modified the page")
	}
}

func TestAnnotate_ClipsBoxes(t *testing.T) {
	page := Grayscale(createGrayImage(20, 20, 255))

	// Must not panic for boxes partly or fully outside the page.
	out := Annotate(page, []image.Rectangle{image.Rect(-5, -5, 10, 10), image.Rect(50, 50, 60, 60)}, 1)

	if out.Bounds().Dx() != 20 {
		t.Errorf("width: got %d, want 20", out.Bounds().Dx())
	}
}
