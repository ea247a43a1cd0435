package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Annotate draws the outline and index of each box onto a copy of page.
//
// Boxes get visually distinct colors from a fixed-lightness palette, and each
// is labelled with its position in boxes (0-based) at its top-left corner.
// It is a debugging aid for inspecting where panels were cut.
func Annotate(page Raster, boxes []image.Rectangle, thickness int) *image.NRGBA {
	result := imaging.Clone(page.Image())
	if len(boxes) == 0 {
		return result
	}
	if thickness < 1 {
		thickness = 1
	}

	palette := colorful.FastHappyPalette(len(boxes))
	labelColor := color.NRGBA{255, 255, 255, 255}

	for i, box := range boxes {
		r, g, b := palette[i%len(palette)].RGB255()
		c := color.NRGBA{R: r, G: g, B: b, A: 255}
		box = box.Intersect(result.Bounds())
		if box.Empty() {
			continue
		}
		drawOutline(result, box, thickness, c)
		drawLabel(result, box.Min.X+thickness+1, box.Min.Y+thickness+1, strconv.Itoa(i), labelColor, c)
	}

	return result
}

// drawOutline strokes the inside edge of box.
func drawOutline(img *image.NRGBA, box image.Rectangle, thickness int, c color.NRGBA) {
	u := &image.Uniform{C: c}
	t := thickness
	if t > box.Dx()/2 || t > box.Dy()/2 {
		draw.Draw(img, box, u, image.Point{}, draw.Src)
		return
	}
	draw.Draw(img, image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+t), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(box.Min.X, box.Max.Y-t, box.Max.X, box.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(box.Min.X, box.Min.Y, box.Min.X+t, box.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(box.Max.X-t, box.Min.Y, box.Max.X, box.Max.Y), u, image.Point{}, draw.Src)
}

// drawLabel draws a simple text label at the given position
// using a 3x5 pixel font for digits.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Draw background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if (image.Point{X: px, Y: py}).In(bounds) {
				img.SetNRGBA(px, py, bg)
			}
		}
	}

	// Draw text
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if (image.Point{X: px, Y: py}).In(bounds) {
						img.SetNRGBA(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
