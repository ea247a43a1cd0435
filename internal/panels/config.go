package panels

import (
	"fmt"
	"time"
)

// Config holds the tunables of an Extractor.
type Config struct {
	// KeepText disables text removal. When false a TextDetector is required.
	KeepText bool `json:"keep_text"`

	// MinPctPanel and MaxPctPanel bound a panel's contour area as a
	// percentage (0-100) of the page area. MinPctPanel must be strictly
	// smaller than MaxPctPanel.
	MinPctPanel float64 `json:"min_pct_panel"`
	MaxPctPanel float64 `json:"max_pct_panel"`

	// PaperThreshold is the midtone ratio at and above which a page is
	// considered to have paper texture and is skipped. Must lie in (0, 1).
	PaperThreshold float64 `json:"paper_th"`

	// Workers bounds how many pages are processed at once. Zero or less
	// means one per logical CPU.
	Workers int `json:"workers"`

	// DetectorRetries is how many times a failed batched text detection is
	// retried before falling back to one call per page.
	DetectorRetries int `json:"detector_retries"`

	// RetryBackoff is the delay before the first retry; it doubles on each
	// further attempt.
	RetryBackoff time.Duration `json:"retry_backoff"`
}

// Defaults.
const (
	DefaultMinPctPanel     = 2.0
	DefaultMaxPctPanel     = 90.0
	DefaultPaperThreshold  = 0.35
	DefaultDetectorRetries = 2
	DefaultRetryBackoff    = 250 * time.Millisecond
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		MinPctPanel:     DefaultMinPctPanel,
		MaxPctPanel:     DefaultMaxPctPanel,
		PaperThreshold:  DefaultPaperThreshold,
		DetectorRetries: DefaultDetectorRetries,
		RetryBackoff:    DefaultRetryBackoff,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.MinPctPanel < 0 || c.MinPctPanel > 100:
		return fmt.Errorf("%w: min_pct_panel %v outside [0, 100]", ErrInvalidConfig, c.MinPctPanel)
	case c.MaxPctPanel < 0 || c.MaxPctPanel > 100:
		return fmt.Errorf("%w: max_pct_panel %v outside [0, 100]", ErrInvalidConfig, c.MaxPctPanel)
	case c.MinPctPanel >= c.MaxPctPanel:
		return fmt.Errorf("%w: min_pct_panel (%v) must be smaller than max_pct_panel (%v)", ErrInvalidConfig, c.MinPctPanel, c.MaxPctPanel)
	case c.PaperThreshold <= 0 || c.PaperThreshold >= 1:
		return fmt.Errorf("%w: paper_th %v outside (0, 1)", ErrInvalidConfig, c.PaperThreshold)
	case c.DetectorRetries < 0:
		return fmt.Errorf("%w: detector_retries must not be negative", ErrInvalidConfig)
	case c.RetryBackoff < 0:
		return fmt.Errorf("%w: retry_backoff must not be negative", ErrInvalidConfig)
	}
	return nil
}

// MinFrac is MinPctPanel as a fraction of the page area.
func (c Config) MinFrac() float64 { return c.MinPctPanel / 100 }

// MaxFrac is MaxPctPanel as a fraction of the page area.
func (c Config) MaxFrac() float64 { return c.MaxPctPanel / 100 }
