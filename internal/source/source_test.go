package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// writePNG writes a small gray PNG and returns its bytes.
func writePNG(t *testing.T, path string, v uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return buf.Bytes()
}

// writePDF writes a one-page PDF, 72x36 points, with the left half
// painted black.
func writePDF(t *testing.T, path string) {
	t.Helper()
	content := "0 0 0 rg\n0 0 36 36 re f\n"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 72 36] /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestImageSource_Directory(t *testing.T) {
	dir := t.TempDir()
	b := writePNG(t, filepath.Join(dir, "page02.png"), 10)
	a := writePNG(t, filepath.Join(dir, "page01.PNG"), 20)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a page"), 0o644)
	os.Mkdir(filepath.Join(dir, "nested.png"), 0o755)

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer src.Close()

	if src.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", src.Len())
	}
	tests := []struct {
		i    int
		name string
		data []byte
	}{
		{0, "page01", a},
		{1, "page02", b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := src.Name(tt.i); got != tt.name {
				t.Errorf("Name(%d): got %q", tt.i, got)
			}
			data, err := src.Page(tt.i)
			if err != nil {
				t.Fatalf("Page(%d) failed: %v", tt.i, err)
			}
			if !bytes.Equal(data, tt.data) {
				t.Error("page bytes should be the file as stored")
			}
		})
	}

	if _, err := src.Page(2); err == nil {
		t.Error("Page out of range should fail")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "cover.png")
	writePNG(t, pngPath, 255)

	src, err := Open(pngPath, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := src.(*ImageSource); !ok || src.Len() != 1 || src.Name(0) != "cover" {
		t.Errorf("single file: got %T with %d pages", src, src.Len())
	}

	if _, err := Open(filepath.Join(dir, "missing.png"), 0); err == nil {
		t.Error("Open should fail for a missing path")
	}
}

func TestPDFSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue1.pdf")
	writePDF(t, path)

	src, err := Open(path, 72)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	pdf, ok := src.(*PDFSource)
	if !ok {
		t.Fatalf("got %T, want *PDFSource", src)
	}
	if pdf.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", pdf.Len())
	}
	if pdf.Name(0) != "issue1_p001" {
		t.Errorf("Name: got %q", pdf.Name(0))
	}

	data, err := pdf.Page(0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	r, format, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("rendered page does not decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format %q, want png", format)
	}
	if r.Width() != 72 || r.Height() != 36 {
		t.Errorf("size %dx%d, want 72x36 at 72 dpi", r.Width(), r.Height())
	}
	left := color.NRGBAModel.Convert(r.Image().At(10, 18)).(color.NRGBA)
	right := color.NRGBAModel.Convert(r.Image().At(60, 18)).(color.NRGBA)
	if left.R > 50 || right.R < 200 {
		t.Errorf("left %v should be black and right %v white", left, right)
	}

	if _, err := pdf.Page(5); err == nil {
		t.Error("rendering a missing page should fail")
	}
}

func TestPDFSource_DefaultDPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	writePDF(t, path)

	src, err := NewPDFSource(path, 0)
	if err != nil {
		t.Fatalf("NewPDFSource failed: %v", err)
	}
	defer src.Close()

	if src.DPI() != DefaultDPI {
		t.Errorf("DPI: got %d, want %d", src.DPI(), DefaultDPI)
	}
}

func TestOpenAll(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 0)
	sub := filepath.Join(dir, "chapter")
	os.Mkdir(sub, 0o755)
	writePNG(t, filepath.Join(sub, "x.png"), 0)
	writePNG(t, filepath.Join(sub, "y.png"), 0)

	src, err := OpenAll([]string{filepath.Join(dir, "a.png"), sub}, 0)
	if err != nil {
		t.Fatalf("OpenAll failed: %v", err)
	}
	defer src.Close()

	if src.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", src.Len())
	}
	want := []string{"001_a", "002_x", "003_y"}
	for i, w := range want {
		if got := src.Name(i); got != w {
			t.Errorf("Name(%d): got %q, want %q", i, got, w)
		}
	}
	if _, err := src.Page(3); err == nil {
		t.Error("Page out of range should fail")
	}

	if _, err := OpenAll([]string{sub, filepath.Join(dir, "nope")}, 0); err == nil {
		t.Error("OpenAll should fail when one path is missing")
	}
}
