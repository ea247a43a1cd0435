package panels

import (
	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// Verdict is the outcome of the paper texture check.
type Verdict int

const (
	// Processable pages have flat paper and go through segmentation.
	Processable Verdict = iota
	// Skip pages are returned unchanged.
	Skip
)

func (v Verdict) String() string {
	if v == Processable {
		return "processable"
	}
	return "skip"
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Midtone band of the paper texture check, [MidtoneLow, MidtoneHigh).
const (
	MidtoneLow  = 50
	MidtoneHigh = 200
)

// MidtoneRatio is the fraction of intensity samples that fall in the midtone
// band. Clean scans are almost entirely ink (near 0) and paper (near 255);
// photographed or textured paper spreads into the midtones. A raster with no
// pixels has ratio 0.
func MidtoneRatio(page imaging.Raster) float64 {
	return imaging.Histogram(page).BandRatio(MidtoneLow, MidtoneHigh)
}

// Classify decides whether page is worth segmenting. A midtone ratio strictly
// below threshold is Processable; anything else, and any page without pixels,
// is Skip. The ratio is returned alongside the verdict.
func Classify(page imaging.Raster, threshold float64) (Verdict, float64) {
	if page.Empty() {
		return Skip, 0
	}
	ratio := MidtoneRatio(page)
	if ratio < threshold {
		return Processable, ratio
	}
	return Skip, ratio
}
