package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyImage is returned when an image payload has no bytes.
var ErrEmptyImage = errors.New("empty image payload")

// PanelMimeType is the MIME type of every panel produced by Encode.
const PanelMimeType = "image/png"

// Decode turns an encoded image into a Raster.
//
// Parameters:
//   - data: Encoded image bytes. PNG, JPEG, GIF, BMP, TIFF and WebP are
//     recognised by their magic numbers; the container does not need a name.
//
// Returns:
//   - Raster: KindGray for 8/16-bit grayscale sources, KindColor otherwise.
//   - string: The detected format name ("png", "jpeg", ...).
//   - error: ErrEmptyImage for a zero-length payload, or a wrapped decode error.
//
// JPEG EXIF orientation is applied so the raster matches how the page is
// displayed.
func Decode(data []byte) (Raster, string, error) {
	if len(data) == 0 {
		return Raster{}, "", ErrEmptyImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Raster{}, "", fmt.Errorf("failed to read image header: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Raster{}, format, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img), format, nil
}

// Encode writes r as PNG. Grayscale rasters are written as 8-bit gray PNGs,
// so a decode of the output reproduces the exact pixel grid.
func Encode(w io.Writer, r Raster) error {
	if err := imaging.Encode(w, r.Image(), imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// EncodePNG is Encode into a fresh byte slice.
func EncodePNG(r Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBase64 decodes a standard base64 string. A "data:<mime>;base64,"
// prefix, as pasted from browsers, is tolerated.
func DecodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// EncodeBase64 encodes bytes with standard base64.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
