package imaging

import (
	"image"
	"testing"
)

func TestGaussianBlur5_Uniform(t *testing.T) {
	src := createGrayImage(9, 7, 180)

	dst := GaussianBlur5(src)

	if !dst.Bounds().Eq(src.Bounds()) {
		t.Fatalf("Bounds: got %v, want %v", dst.Bounds(), src.Bounds())
	}
	for i, v := range dst.Pix {
		if v != 180 {
			t.Fatalf("sample %d: got %d, uniform image should be unchanged", i, v)
		}
	}
}

func TestGaussianBlur5_Impulse(t *testing.T) {
	src := createGrayImage(5, 5, 0)
	src.SetGray(2, 2, grayOf(255))

	dst := GaussianBlur5(src)

	tests := []struct {
		x, y int
		want uint8
	}{
		{2, 2, 36}, // 255*36/256
		{1, 2, 24}, // 255*24/256
		{0, 0, 4},  // both axes mirror the impulse: 255*2*2/256
	}
	for _, tt := range tests {
		if got := dst.GrayAt(tt.x, tt.y).Y; got != tt.want {
			t.Errorf("pixel (%d,%d): got %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
	if src.GrayAt(2, 2).Y != 255 {
		t.Error("GaussianBlur5 modified its input")
	}
}

func TestGaussianBlur5_Empty(t *testing.T) {
	dst := GaussianBlur5(image.NewGray(image.Rectangle{}))
	if !dst.Bounds().Empty() {
		t.Errorf("expected empty result, got %v", dst.Bounds())
	}
}

func TestGaussianBlur5_SinglePixel(t *testing.T) {
	dst := GaussianBlur5(createGrayImage(1, 1, 99))
	if dst.Pix[0] != 99 {
		t.Errorf("1x1 blur: got %d, want 99", dst.Pix[0])
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-1, 2, 1},
		{2, 2, 0},
		{-2, 1, 0},
	}

	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
