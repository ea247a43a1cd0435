package imaging

import (
	"image"
	"image/color"
	"testing"
)

func grayOf(v uint8) color.Gray { return color.Gray{Y: v} }

func TestThreshold(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(src.Pix, []uint8{0, 230, 231, 255})

	dst := Threshold(src, 230)

	want := []uint8{Background, Background, Foreground, Foreground}
	for i, v := range dst.Pix {
		if v != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, v, want[i])
		}
	}
	if !IsBinary(dst) {
		t.Error("Threshold output should be binary")
	}
	if src.Pix[1] != 230 {
		t.Error("Threshold modified its input")
	}
}

func TestPaintFrame(t *testing.T) {
	tests := []struct {
		name        string
		w, h, width int
		wantPainted int
	}{
		{"one pixel frame", 6, 5, 1, 6*5 - 4*3},
		{"two pixel frame", 10, 10, 2, 100 - 36},
		{"frame covers image", 6, 6, 10, 36},
		{"zero width", 6, 6, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createGrayImage(tt.w, tt.h, 0)

			PaintFrame(img, tt.width, 255)

			painted := 0
			for _, v := range img.Pix {
				if v == 255 {
					painted++
				}
			}
			if painted != tt.wantPainted {
				t.Errorf("painted pixels: got %d, want %d", painted, tt.wantPainted)
			}
		})
	}
}

func TestPaintFrame_Corners(t *testing.T) {
	img := createGrayImage(20, 20, 255)

	PaintFrame(img, 3, 0)

	for _, p := range []image.Point{{0, 0}, {19, 0}, {0, 19}, {19, 19}, {2, 10}, {17, 10}, {10, 2}, {10, 17}} {
		if img.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("pixel %v should be painted", p)
		}
	}
	if img.GrayAt(3, 3).Y != 255 || img.GrayAt(16, 16).Y != 255 {
		t.Error("interior should be untouched")
	}
}

func TestIsBinary(t *testing.T) {
	img := createGrayImage(3, 3, 255)
	if !IsBinary(img) {
		t.Error("all-255 image should be binary")
	}
	img.Pix[4] = 128
	if IsBinary(img) {
		t.Error("image with 128 should not be binary")
	}
}
